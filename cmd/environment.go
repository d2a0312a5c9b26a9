package cmd

import (
	"context"
	"fmt"

	"github.com/hscells/tipster"
	"github.com/hscells/tipster/config"
	"github.com/hscells/tipster/eval"
	"github.com/hscells/tipster/feature"
	"github.com/hscells/tipster/learning"
	"github.com/hscells/tipster/metrics"
	"github.com/hscells/tipster/output"
	"github.com/hscells/tipster/preprocess"
	"github.com/hscells/tipster/store"
	"github.com/prometheus/client_golang/prometheus"
)

// Environment is everything a command needs that is derived from its configuration.
type Environment struct {
	Config   config.Config
	Period   config.Period
	Store    *store.DatasetStore
	Registry *prometheus.Registry
	Recorder *metrics.Recorder

	close func() error
}

// Open validates c and opens the store it configures.
func Open(ctx context.Context, c config.Config) (*Environment, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	period, err := c.Period()
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	recorder, err := metrics.NewRecorder(registry)
	if err != nil {
		return nil, err
	}

	blobs, closer, err := OpenBlobStore(ctx, c.Backend)
	if err != nil {
		return nil, err
	}
	ds, err := store.NewDatasetStore(blobs,
		store.WithCacheSize(c.CacheSize),
		store.WithRecorder(recorder),
		store.WithRawRoot(c.Stages.Raw),
	)
	if err != nil {
		_ = closer()
		return nil, err
	}
	return &Environment{
		Config:   c,
		Period:   period,
		Store:    ds,
		Registry: registry,
		Recorder: recorder,
		close:    closer,
	}, nil
}

// Close releases the backend.
func (e *Environment) Close() error {
	return e.close()
}

// Classifier creates an unfitted classifier of the named kind over the
// configured features and label.
func (e *Environment) Classifier(kind string) (learning.Classifier, error) {
	switch kind {
	case "gaussian", "":
		return learning.NewGaussianNB(e.Config.Features, e.Config.Label)
	case "centroid":
		return learning.NewNearestCentroid(e.Config.Features, e.Config.Label)
	}
	return nil, &config.ConfigurationError{Field: "model", Reason: fmt.Sprintf("unknown model %q", kind)}
}

// Pipeline assembles a pipeline from the configuration. Additional components
// are applied after those derived from the configuration.
func (e *Environment) Pipeline(model learning.Classifier, components ...func() interface{}) (tipster.Pipeline, error) {
	normalize, err := eval.ParseNormalize(e.Config.Normalize)
	if err != nil {
		return tipster.Pipeline{}, &config.ConfigurationError{Field: "normalize", Reason: err.Error()}
	}
	base := []func() interface{}{
		tipster.Period(e.Period),
		tipster.Stages(e.Config.Stages),
		tipster.Version(store.Version(e.Config.Version)),
		tipster.Cleaners(preprocess.DefaultCleaners(e.Period)...),
		tipster.Generators(feature.DefaultGenerators(e.Config.Threshold)...),
		tipster.Folds(e.Config.Folds),
		tipster.Normalize(normalize),
		tipster.Overwrite(e.Config.Overwrite),
		tipster.TestSize(e.Config.TestSize),
		tipster.Seed(e.Config.Seed),
		tipster.Recorder(e.Recorder),
		tipster.EvaluationOutput(output.JsonEvaluationFormatter),
		tipster.ScoresOutput(output.JsonScoresFormatter),
		tipster.ConfusionOutput(output.TextConfusionFormatter),
	}
	return tipster.NewPipeline(e.Store, model, append(base, components...)...), nil
}

// WriteMetrics dumps the metrics recorded so far in the node exporter textfile format.
func (e *Environment) WriteMetrics(path string) error {
	return prometheus.WriteToTextfile(path, e.Registry)
}
