package metrics_test

import (
	"strings"
	"testing"

	"github.com/hscells/tipster/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder(t *testing.T) {
	registry := prometheus.NewRegistry()
	r, err := metrics.NewRecorder(registry)
	require.NoError(t, err)

	r.ArtifactWritten("clean/2022_02", 128)
	r.ArtifactWritten("clean/2022_02", 64)
	r.RowsCleaned("MissingValues", 3, 97)

	expected := `
# HELP tipster_store_bytes_written_total Serialised bytes written, by stage.
# TYPE tipster_store_bytes_written_total counter
tipster_store_bytes_written_total{stage="clean/2022_02"} 192
# HELP tipster_cleaning_rows_kept Rows remaining after each cleaning rule of the last run.
# TYPE tipster_cleaning_rows_kept gauge
tipster_cleaning_rows_kept{rule="MissingValues"} 97
`
	assert.NoError(t, testutil.GatherAndCompare(registry, strings.NewReader(expected),
		"tipster_store_bytes_written_total", "tipster_cleaning_rows_kept"))

	// collectors cannot be registered twice
	_, err = metrics.NewRecorder(registry)
	assert.Error(t, err)
}

func TestNilRecorder(t *testing.T) {
	var r *metrics.Recorder
	assert.NotPanics(t, func() {
		r.ArtifactWritten("clean", 1)
		r.ArtifactRead("clean", true)
		r.RowsCleaned("MissingValues", 1, 1)
	})
}
