package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/alexflint/go-arg"
	"github.com/go-errors/errors"
	"github.com/hscells/tipster"
	"github.com/hscells/tipster/cmd"
	"github.com/hscells/tipster/config"
	"github.com/hscells/tipster/learning"
	"github.com/hscells/tipster/pipeline"
	"github.com/hscells/tipster/store"
)

var (
	name    = "tipster"
	version = "14.Oct.2026"
	author  = "Harry Scells"
)

type cleanCmd struct{}

type featuresCmd struct{}

type trainCmd struct {
	Model  string `help:"classifier to train (gaussian/centroid)" default:"gaussian"`
	Output string `help:"file to write the fitted model to" arg:"-o"`
}

type evaluateCmd struct {
	Model   string `help:"classifier the model was trained as (gaussian/centroid)" default:"gaussian"`
	Input   string `help:"fitted model written by train" arg:"-i,required"`
	Stage   string `help:"features stage to evaluate (defaults to the configured period)"`
	Version string `help:"version of the stage to evaluate (defaults to the latest)"`
}

type runCmd struct {
	Model  string `help:"classifier to train (gaussian/centroid)" default:"gaussian"`
	Output string `help:"file to write the fitted model to" arg:"-o"`
}

type args struct {
	Config   string `help:"configuration file (.yaml/.yml/.properties)" arg:"-c"`
	Metrics  string `help:"file to write prometheus metrics to"`
	Progress bool   `help:"show a progress bar over the stages"`

	Clean    *cleanCmd    `arg:"subcommand:clean" help:"clean the raw trips of the configured month"`
	Features *featuresCmd `arg:"subcommand:features" help:"generate features from the latest cleaned trips"`
	Train    *trainCmd    `arg:"subcommand:train" help:"cross validate and evaluate a classifier on the latest features"`
	Evaluate *evaluateCmd `arg:"subcommand:evaluate" help:"evaluate a fitted classifier on a features stage"`
	Run      *runCmd      `arg:"subcommand:run" help:"clean, generate features and train"`
}

func (args) Version() string {
	return version
}

func (args) Description() string {
	return fmt.Sprintf(`%s
@ %s
# %s`, name, author, version)
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, errors.Wrap(err, 0).ErrorStack())
	os.Exit(1)
}

func loadConfig(path string) (config.Config, error) {
	if len(path) == 0 {
		return config.Default(), nil
	}
	return config.Load(path)
}

func writeModel(model learning.Classifier, path string) error {
	if len(path) == 0 {
		return nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := model.Output(f); err != nil {
		return err
	}
	log.Printf("wrote %s model to %s\n", model.Name(), path)
	return nil
}

func readModel(model learning.Classifier, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return model.Load(f)
}

// drain prints the formatted results of a pipeline, returning the first error sent.
func drain(results chan pipeline.Result) error {
	var err error
	for r := range results {
		switch r.Type {
		case pipeline.Artifact:
			fmt.Printf("%s: wrote %s\n", r.Stage, r.Artifact.Path)
		case pipeline.CrossValidation, pipeline.Evaluation, pipeline.Confusion:
			for _, s := range r.Formatted {
				fmt.Println(s)
			}
		case pipeline.Error:
			if err == nil {
				err = r.Error
			}
		}
	}
	return err
}

func main() {
	var args args
	p := arg.MustParse(&args)
	if p.Subcommand() == nil {
		p.Fail("missing subcommand")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	err := run(ctx, args)
	cancel()
	if err != nil {
		fatal(err)
	}
}

// run executes the chosen subcommand. The environment is closed before run
// returns, whether or not the command failed.
func run(ctx context.Context, args args) (err error) {
	c, err := loadConfig(args.Config)
	if err != nil {
		return err
	}
	env, err := cmd.Open(ctx, c)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := env.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	var components []func() interface{}
	if args.Progress {
		components = append(components, tipster.Progress(os.Stderr))
	}

	var kind, modelOutput string
	switch {
	case args.Clean != nil:
		components = append(components, tipster.Run(tipster.StageClean))
	case args.Features != nil:
		components = append(components, tipster.Run(tipster.StageFeatures))
	case args.Train != nil:
		kind, modelOutput = args.Train.Model, args.Train.Output
		components = append(components, tipster.Run(tipster.StageTrain))
	case args.Run != nil:
		kind, modelOutput = args.Run.Model, args.Run.Output
		components = append(components, tipster.Run(tipster.DefaultStages...))
	case args.Evaluate != nil:
		kind = args.Evaluate.Model
	}

	model, err := env.Classifier(kind)
	if err != nil {
		return err
	}
	pl, err := env.Pipeline(model, components...)
	if err != nil {
		return err
	}

	results := make(chan pipeline.Result)
	if args.Evaluate != nil {
		err = evaluate(ctx, pl, args.Evaluate, c.Version, results)
	} else {
		go pl.Execute(ctx, results)
		err = drain(results)
	}
	if err != nil {
		return err
	}

	if err := writeModel(model, modelOutput); err != nil {
		return err
	}
	if len(args.Metrics) > 0 {
		return env.WriteMetrics(args.Metrics)
	}
	return nil
}

func evaluate(ctx context.Context, pl tipster.Pipeline, e *evaluateCmd, configured string, results chan pipeline.Result) error {
	if err := readModel(pl.Model, e.Input); err != nil {
		return err
	}
	stage := e.Stage
	if len(stage) == 0 {
		stage = pl.FeaturesStage()
	}
	v := e.Version
	if len(v) == 0 {
		v = configured
	}
	r, err := pl.Evaluate(ctx, stage, store.Version(v))
	if err != nil {
		return err
	}
	res, err := pl.Results("evaluate", r)
	if err != nil {
		return err
	}
	go func() {
		defer close(results)
		for _, result := range res {
			results <- result
		}
	}()
	return drain(results)
}
