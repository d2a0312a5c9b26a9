// Package metrics records what the pipeline did to the data it processed.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "tipster"

// Recorder holds the collectors for a pipeline run. A nil *Recorder is valid
// and records nothing.
type Recorder struct {
	artifactsWritten *prometheus.CounterVec
	artifactsRead    *prometheus.CounterVec
	bytesWritten     *prometheus.CounterVec
	rowsDropped      *prometheus.CounterVec
	rowsKept         *prometheus.GaugeVec
}

// NewRecorder creates a recorder and registers its collectors with r.
func NewRecorder(r prometheus.Registerer) (*Recorder, error) {
	rec := &Recorder{
		artifactsWritten: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "artifacts_written_total",
			Help:      "Number of dataset artifacts written, by stage.",
		}, []string{"stage"}),
		artifactsRead: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "artifacts_read_total",
			Help:      "Number of dataset artifacts read, by stage and whether the read was cached.",
		}, []string{"stage", "cached"}),
		bytesWritten: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "bytes_written_total",
			Help:      "Serialised bytes written, by stage.",
		}, []string{"stage"}),
		rowsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cleaning",
			Name:      "rows_dropped_total",
			Help:      "Rows removed by each cleaning rule.",
		}, []string{"rule"}),
		rowsKept: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "cleaning",
			Name:      "rows_kept",
			Help:      "Rows remaining after each cleaning rule of the last run.",
		}, []string{"rule"}),
	}
	for _, c := range []prometheus.Collector{rec.artifactsWritten, rec.artifactsRead, rec.bytesWritten, rec.rowsDropped, rec.rowsKept} {
		if err := r.Register(c); err != nil {
			return nil, err
		}
	}
	return rec, nil
}

// ArtifactWritten records a write of n bytes to stage.
func (r *Recorder) ArtifactWritten(stage string, n int) {
	if r == nil {
		return
	}
	r.artifactsWritten.WithLabelValues(stage).Inc()
	r.bytesWritten.WithLabelValues(stage).Add(float64(n))
}

// ArtifactRead records a read from stage.
func (r *Recorder) ArtifactRead(stage string, cached bool) {
	if r == nil {
		return
	}
	c := "false"
	if cached {
		c = "true"
	}
	r.artifactsRead.WithLabelValues(stage, c).Inc()
}

// RowsCleaned records the rows a cleaning rule removed and kept.
func (r *Recorder) RowsCleaned(rule string, dropped, kept int) {
	if r == nil {
		return
	}
	r.rowsDropped.WithLabelValues(rule).Add(float64(dropped))
	r.rowsKept.WithLabelValues(rule).Set(float64(kept))
}
