// Package tipster provides a framework for constructing reproducible taxi tip
// experiments: raw trips are cleaned, turned into features and used to train
// and evaluate a classifier, with every intermediate dataset versioned in a
// store.
package tipster

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/hscells/tipster/config"
	"github.com/hscells/tipster/eval"
	"github.com/hscells/tipster/feature"
	"github.com/hscells/tipster/learning"
	"github.com/hscells/tipster/metrics"
	"github.com/hscells/tipster/output"
	"github.com/hscells/tipster/pipeline"
	"github.com/hscells/tipster/preprocess"
	"github.com/hscells/tipster/store"
	"github.com/pkg/errors"
	"gopkg.in/cheggaaa/pb.v1"
)

// Stage is a step of a pipeline.
type Stage string

const (
	// StageClean reads the raw trips of the period and writes the cleaned trips.
	StageClean Stage = "clean"
	// StageFeatures reads the latest cleaned trips and writes their features.
	StageFeatures Stage = "features"
	// StageTrain cross validates the model on the latest features and
	// evaluates it on a held out split.
	StageTrain Stage = "train"
)

// Stages run by a pipeline unless configured otherwise.
var DefaultStages = []Stage{StageClean, StageFeatures, StageTrain}

// Pipeline contains all the information for executing a tipster experiment.
type Pipeline struct {
	Store  *store.DatasetStore
	Model  learning.Classifier
	Period config.Period
	Stages  config.Stages
	Version store.Version
	Run     []Stage

	Cleaners   []preprocess.Cleaner
	Generators []feature.Generator
	KeyColumns []string

	Evaluations          []eval.Evaluator
	EvaluationFormatters []output.EvaluationFormatter
	ScoresFormatters     []output.ScoresFormatter
	ConfusionFormatters  []output.ConfusionFormatter

	Folds     int
	Normalize eval.Normalize
	Overwrite bool
	TestSize  float64
	Seed      int64

	Recorder *metrics.Recorder
	Progress io.Writer
}

// Report is the outcome of training and evaluating a model.
type Report struct {
	Artifact    store.Artifact
	Scores      []float64
	Evaluations map[string]float64
	Confusion   eval.Matrix
}

type folds int
type overwrite bool
type testSize float64
type seed int64
type progress struct{ w io.Writer }

// Period sets the year and month of raw trips the pipeline cleans.
func Period(p config.Period) func() interface{} {
	return func() interface{} {
		return p
	}
}

// Stages sets the names of the stages datasets are written to.
func Stages(s config.Stages) func() interface{} {
	return func() interface{} {
		return s
	}
}

// Version sets the version stages are written as and read from. Without it,
// writes mint a new version and reads take the latest.
func Version(v store.Version) func() interface{} {
	return func() interface{} {
		return v
	}
}

// Run sets which stages Execute runs, in order.
func Run(stages ...Stage) func() interface{} {
	return func() interface{} {
		return stages
	}
}

// Cleaners replaces the cleaning rules of the pipeline.
func Cleaners(cleaners ...preprocess.Cleaner) func() interface{} {
	return func() interface{} {
		return cleaners
	}
}

// Generators replaces the feature generators of the pipeline.
func Generators(generators ...feature.Generator) func() interface{} {
	return func() interface{} {
		return generators
	}
}

// Evaluations sets the measures of held out predictions.
func Evaluations(measures ...eval.Evaluator) func() interface{} {
	return func() interface{} {
		return measures
	}
}

// EvaluationOutput adds formatters for held out evaluations.
func EvaluationOutput(formatters ...output.EvaluationFormatter) func() interface{} {
	return func() interface{} {
		return formatters
	}
}

// ScoresOutput adds formatters for cross validation scores.
func ScoresOutput(formatters ...output.ScoresFormatter) func() interface{} {
	return func() interface{} {
		return formatters
	}
}

// ConfusionOutput adds formatters for the held out confusion matrix.
func ConfusionOutput(formatters ...output.ConfusionFormatter) func() interface{} {
	return func() interface{} {
		return formatters
	}
}

// Normalize sets the normalisation of the confusion matrix.
func Normalize(n eval.Normalize) func() interface{} {
	return func() interface{} {
		return n
	}
}

// Folds sets the number of cross validation folds.
func Folds(k int) func() interface{} {
	return func() interface{} {
		return folds(k)
	}
}

// Overwrite allows stages to replace existing artifacts.
func Overwrite(o bool) func() interface{} {
	return func() interface{} {
		return overwrite(o)
	}
}

// TestSize sets the fraction of each class held out for evaluation.
func TestSize(f float64) func() interface{} {
	return func() interface{} {
		return testSize(f)
	}
}

// Seed sets the seed of the held out split.
func Seed(s int64) func() interface{} {
	return func() interface{} {
		return seed(s)
	}
}

// Recorder records store and cleaning metrics.
func Recorder(r *metrics.Recorder) func() interface{} {
	return func() interface{} {
		return r
	}
}

// Progress draws a progress bar over the stages to w.
func Progress(w io.Writer) func() interface{} {
	return func() interface{} {
		return progress{w: w}
	}
}

// NewPipeline creates a new tipster pipeline. The dataset store and model are required. Additional
// components are provided via the optional functional arguments.
func NewPipeline(s *store.DatasetStore, model learning.Classifier, components ...func() interface{}) Pipeline {
	d := config.Default()
	p := Pipeline{
		Store:       s,
		Model:       model,
		Period:      config.Period{Year: 2022, Month: time.February},
		Stages:      d.Stages,
		Run:         DefaultStages,
		KeyColumns:  feature.KeyColumns,
		Evaluations: []eval.Evaluator{eval.PrecisionEvaluator, eval.RecallEvaluator, eval.AccuracyEvaluator, eval.F1Measure},
		Folds:       d.Folds,
		Normalize:   eval.NormalizeTrue,
		TestSize:    d.TestSize,
		Seed:        d.Seed,
	}

	for _, component := range components {
		val := component()
		switch v := val.(type) {
		case config.Period:
			p.Period = v
		case config.Stages:
			p.Stages = v
		case store.Version:
			p.Version = v
		case []Stage:
			p.Run = v
		case []preprocess.Cleaner:
			p.Cleaners = v
		case []feature.Generator:
			p.Generators = v
		case []eval.Evaluator:
			p.Evaluations = v
		case []output.EvaluationFormatter:
			p.EvaluationFormatters = v
		case []output.ScoresFormatter:
			p.ScoresFormatters = v
		case []output.ConfusionFormatter:
			p.ConfusionFormatters = v
		case eval.Normalize:
			p.Normalize = v
		case folds:
			p.Folds = int(v)
		case overwrite:
			p.Overwrite = bool(v)
		case testSize:
			p.TestSize = float64(v)
		case seed:
			p.Seed = int64(v)
		case *metrics.Recorder:
			p.Recorder = v
		case progress:
			p.Progress = v.w
		}
	}

	if p.Cleaners == nil {
		p.Cleaners = preprocess.DefaultCleaners(p.Period)
	}
	if p.Generators == nil {
		p.Generators = feature.DefaultGenerators(feature.DefaultThreshold)
	}
	return p
}

func (p Pipeline) stage(name string) string {
	return fmt.Sprintf("%s/%s_%s", name, p.Period.YearString(), p.Period.MonthString())
}

// CleanStage is the stage cleaned trips of the period are written to.
func (p Pipeline) CleanStage() string {
	return p.stage(p.Stages.Clean)
}

// FeaturesStage is the stage features of the period are written to.
func (p Pipeline) FeaturesStage() string {
	return p.stage(p.Stages.Features)
}

func (p Pipeline) writeOptions() []store.WriteOption {
	options := []store.WriteOption{store.Overwrite(p.Overwrite)}
	if len(p.Version) > 0 {
		options = append(options, store.WithVersion(p.Version))
	}
	return options
}

// Clean reads the raw trips of the period, applies the cleaning rules and
// writes the result as a new version of the clean stage.
func (p Pipeline) Clean(ctx context.Context) (store.Artifact, error) {
	raw, err := p.Store.ReadRaw(ctx, p.Period)
	if err != nil {
		return store.Artifact{}, err
	}
	log.Printf("cleaning %d raw trips for %s\n", raw.Len(), p.Period)
	clean, err := preprocess.Clean(raw, p.Recorder, p.Cleaners...)
	if err != nil {
		return store.Artifact{}, errors.Wrap(err, "cleaning trips")
	}
	return p.Store.Write(ctx, clean, p.CleanStage(), p.writeOptions()...)
}

// Features reads the latest cleaned trips, or those of the configured version,
// and writes their features to the features stage.
func (p Pipeline) Features(ctx context.Context) (store.Artifact, error) {
	clean, a, err := p.Store.Read(ctx, p.CleanStage(), p.Version)
	if err != nil {
		return store.Artifact{}, err
	}
	log.Printf("generating features from %s\n", a.Path)
	features, err := feature.Pipeline{
		Generators: p.Generators,
		KeyColumns: p.KeyColumns,
		Recorder:   p.Recorder,
	}.Run(clean)
	if err != nil {
		return store.Artifact{}, errors.Wrap(err, "generating features")
	}
	return p.Store.Write(ctx, features, p.FeaturesStage(), p.writeOptions()...)
}

// Train cross validates the model on the latest features, then fits it on a
// stratified split and evaluates the held out rows. The model keeps the fit on
// the training split.
func (p Pipeline) Train(ctx context.Context) (Report, error) {
	t, a, err := p.Store.Read(ctx, p.FeaturesStage(), p.Version)
	if err != nil {
		return Report{}, err
	}
	d, err := p.Model.Preprocess(t)
	if err != nil {
		return Report{}, err
	}
	log.Printf("training %s on %d rows of %s\n", p.Model.Name(), d.Len(), a.Path)

	scores, err := p.Model.CrossValidate(d.X, d.Y, p.Folds)
	if err != nil {
		return Report{}, errors.Wrap(err, "cross validating")
	}

	trainRows, testRows, err := eval.StratifiedSplit(d.Y, p.TestSize, p.Seed)
	if err != nil {
		return Report{}, err
	}
	train, test := d.Subset(trainRows), d.Subset(testRows)
	if _, err := p.Model.Fit(train.X, train.Y); err != nil {
		return Report{}, errors.Wrap(err, "fitting training split")
	}

	r, err := p.evaluate(test)
	if err != nil {
		return Report{}, err
	}
	r.Artifact = a
	r.Scores = scores
	return r, nil
}

// Evaluate scores the already fitted model on a version of a features stage.
// An empty version reads the latest.
func (p Pipeline) Evaluate(ctx context.Context, stage string, version store.Version) (Report, error) {
	t, a, err := p.Store.Read(ctx, stage, version)
	if err != nil {
		return Report{}, err
	}
	d, err := p.Model.Preprocess(t)
	if err != nil {
		return Report{}, err
	}
	log.Printf("evaluating %s on %d rows of %s\n", p.Model.Name(), d.Len(), a.Path)
	r, err := p.evaluate(d)
	if err != nil {
		return Report{}, err
	}
	r.Artifact = a
	return r, nil
}

func (p Pipeline) evaluate(d learning.Dataset) (Report, error) {
	pred, err := p.Model.Predict(d.X)
	if err != nil {
		return Report{}, err
	}
	m, err := eval.ConfusionMatrix(d.Y, pred, p.Normalize)
	if err != nil {
		return Report{}, err
	}
	return Report{
		Evaluations: eval.Evaluate(p.Evaluations, d.Y, pred),
		Confusion:   m,
	}, nil
}

// Execute runs the configured stages of the pipeline in order, sending each
// artifact and evaluation over c. The channel is closed once the pipeline
// finishes or fails.
func (p Pipeline) Execute(ctx context.Context, c chan pipeline.Result) {
	defer close(c)
	runID := uuid.New().String()
	log.Printf("starting tipster pipeline %s for %s...\n", runID, p.Period)

	// send gives up once ctx is done, as nobody may be receiving any more.
	send := func(r pipeline.Result) bool {
		r.RunID = runID
		select {
		case c <- r:
			return true
		case <-ctx.Done():
			return false
		}
	}
	fail := func(stage Stage, err error) {
		send(pipeline.Result{Type: pipeline.Error, Stage: string(stage), Error: err})
	}

	var bar *pb.ProgressBar
	if p.Progress != nil {
		bar = pb.New(len(p.Run))
		bar.Output = p.Progress
		bar.Start()
	}

	for _, stage := range p.Run {
		if err := ctx.Err(); err != nil {
			fail(stage, err)
			return
		}
		if bar != nil {
			bar.Prefix(string(stage) + " ")
		}

		switch stage {
		case StageClean:
			a, err := p.Clean(ctx)
			if err != nil {
				fail(stage, err)
				return
			}
			if !send(pipeline.Result{Type: pipeline.Artifact, Stage: string(stage), Artifact: a}) {
				return
			}
		case StageFeatures:
			a, err := p.Features(ctx)
			if err != nil {
				fail(stage, err)
				return
			}
			if !send(pipeline.Result{Type: pipeline.Artifact, Stage: string(stage), Artifact: a}) {
				return
			}
		case StageTrain:
			r, err := p.Train(ctx)
			if err != nil {
				fail(stage, err)
				return
			}
			results, err := p.Results(string(stage), r)
			if err != nil {
				fail(stage, err)
				return
			}
			for _, res := range results {
				if !send(res) {
					return
				}
			}
		default:
			fail(stage, fmt.Errorf("unknown stage %q", stage))
			return
		}

		if bar != nil {
			bar.Increment()
		}
	}
	if bar != nil {
		bar.Finish()
	}

	log.Printf("finished tipster pipeline %s\n", runID)
	send(pipeline.Result{Type: pipeline.Done})
}

// Results formats the cross validation, evaluation and confusion results of
// a report, in that order. Cross validation is omitted when the report has
// no scores.
func (p Pipeline) Results(stage string, r Report) ([]pipeline.Result, error) {
	var results []pipeline.Result
	if len(r.Scores) > 0 {
		formatted := make([]string, len(p.ScoresFormatters))
		for i, formatter := range p.ScoresFormatters {
			s, err := formatter(r.Scores)
			if err != nil {
				return nil, err
			}
			formatted[i] = s
		}
		results = append(results, pipeline.Result{Type: pipeline.CrossValidation, Stage: stage, Artifact: r.Artifact, Scores: r.Scores, Formatted: formatted})
	}

	formatted := make([]string, len(p.EvaluationFormatters))
	for i, formatter := range p.EvaluationFormatters {
		s, err := formatter(r.Evaluations)
		if err != nil {
			return nil, err
		}
		formatted[i] = s
	}
	results = append(results, pipeline.Result{Type: pipeline.Evaluation, Stage: stage, Artifact: r.Artifact, Evaluations: r.Evaluations, Formatted: formatted})

	formatted = make([]string, len(p.ConfusionFormatters))
	for i, formatter := range p.ConfusionFormatters {
		s, err := formatter(r.Confusion)
		if err != nil {
			return nil, err
		}
		formatted[i] = s
	}
	results = append(results, pipeline.Result{Type: pipeline.Confusion, Stage: stage, Artifact: r.Artifact, Confusion: r.Confusion, Formatted: formatted})
	return results, nil
}
