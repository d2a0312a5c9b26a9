package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hscells/tipster/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, name, contents string) string {
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(contents), 0644))
	return p
}

func TestDefault(t *testing.T) {
	c := config.Default()
	require.NoError(t, c.Validate())
	assert.NotContains(t, c.Features, "tip_percentage")
	assert.Equal(t, config.Stages{Raw: "tripdata", Clean: "clean", Features: "features"}, c.Stages)
	p, err := c.Period()
	require.NoError(t, err)
	assert.Equal(t, config.Period{Year: 2022, Month: time.February}, p)
}

func TestLoadYAML(t *testing.T) {
	p := write(t, "tipster.yaml", `
backend:
  kind: badger
  path: /tmp/tipster
year: "2021"
month: "11"
features: [trip_duration, trip_speed]
folds: 3
normalize: all
`)
	c, err := config.Load(p)
	require.NoError(t, err)
	assert.Equal(t, "badger", c.Backend.Kind)
	assert.Equal(t, "/tmp/tipster", c.Backend.Path)
	assert.Equal(t, []string{"trip_duration", "trip_speed"}, c.Features)
	assert.Equal(t, 3, c.Folds)
	assert.Equal(t, "all", c.Normalize)
	// unset values keep their defaults
	assert.Equal(t, "big_tip", c.Label)
	assert.Equal(t, 0.2, c.TestSize)
}

func TestLoadProperties(t *testing.T) {
	p := write(t, "tipster.properties", `
backend.kind = gcs
backend.bucket = nyc-trips
stages.raw = nyc
year = 2020
month = 07
features = trip_duration, meter_eng ,work_hours
threshold = 0.3
overwrite = true
seed = 7
`)
	c, err := config.Load(p)
	require.NoError(t, err)
	assert.Equal(t, "gcs", c.Backend.Kind)
	assert.Equal(t, "nyc-trips", c.Backend.Bucket)
	assert.Equal(t, "nyc", c.Stages.Raw)
	assert.Equal(t, "clean", c.Stages.Clean)
	assert.Equal(t, []string{"trip_duration", "meter_eng", "work_hours"}, c.Features)
	assert.Equal(t, 0.3, c.Threshold)
	assert.True(t, c.Overwrite)
	assert.Equal(t, int64(7), c.Seed)
	period, err := c.Period()
	require.NoError(t, err)
	assert.Equal(t, "2020-07", period.String())
}

func TestLoadInvalid(t *testing.T) {
	var configErr *config.ConfigurationError

	_, err := config.Load(write(t, "tipster.toml", ""))
	assert.ErrorAs(t, err, &configErr)

	_, err = config.Load(write(t, "tipster.yaml", "folds: 1\n"))
	assert.ErrorAs(t, err, &configErr)

	_, err = config.Load(write(t, "tipster.yaml", "backend:\n  kind: gcs\n"))
	assert.ErrorAs(t, err, &configErr)

	_, err = config.Load(write(t, "tipster.yaml", "features: []\n"))
	assert.ErrorAs(t, err, &configErr)

	_, err = config.Load(write(t, "tipster.yaml", "stages:\n  raw: \"\"\n"))
	assert.ErrorAs(t, err, &configErr)

	var yearErr *config.UnsupportedYearError
	_, err = config.Load(write(t, "tipster.properties", "year = 2019\n"))
	assert.ErrorAs(t, err, &yearErr)
}

func TestParsePeriod(t *testing.T) {
	p, err := config.ParsePeriod("2022", "02")
	require.NoError(t, err)
	assert.Equal(t, 28, p.Days())
	assert.Equal(t, "2022", p.YearString())
	assert.Equal(t, "02", p.MonthString())
	assert.True(t, p.Contains(time.Date(2022, 2, 28, 23, 59, 0, 0, time.UTC)))
	assert.False(t, p.Contains(time.Date(2022, 3, 1, 0, 0, 0, 0, time.UTC)))

	leap, err := config.ParsePeriod("2020", "02")
	require.NoError(t, err)
	assert.Equal(t, 29, leap.Days())

	var yearErr *config.UnsupportedYearError
	_, err = config.ParsePeriod("2023", "01")
	require.ErrorAs(t, err, &yearErr)
	assert.Equal(t, 2020, yearErr.Min)

	var configErr *config.ConfigurationError
	for _, bad := range [][2]string{{"22", "02"}, {"20x2", "02"}, {"2022", "2"}, {"2022", "13"}, {"2022", "00"}} {
		_, err = config.ParsePeriod(bad[0], bad[1])
		assert.ErrorAs(t, err, &configErr, "%v", bad)
	}
}
