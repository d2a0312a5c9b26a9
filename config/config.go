// Package config describes how a tipster pipeline is configured. Configuration
// may be loaded from YAML or Java-style .properties files; either way, values
// not present in the file keep the value from Default.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/magiconair/properties"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Backend selects and configures the blob storage used by the dataset store.
type Backend struct {
	Kind        string `yaml:"kind" validate:"oneof=memory disk badger gcs"`
	Path        string `yaml:"path" validate:"required_if=Kind disk,required_if=Kind badger"`
	Bucket      string `yaml:"bucket" validate:"required_if=Kind gcs"`
	Credentials string `yaml:"credentials"`
}

// Stages names the stages artifacts are written to and read from.
type Stages struct {
	Raw      string `yaml:"raw" validate:"required"`
	Clean    string `yaml:"clean" validate:"required"`
	Features string `yaml:"features" validate:"required"`
}

// Config is the resolved configuration consumed by the pipeline.
type Config struct {
	Backend   Backend  `yaml:"backend"`
	Stages    Stages   `yaml:"stages"`
	Version   string   `yaml:"version"`
	Year      string   `yaml:"year" validate:"len=4,numeric"`
	Month     string   `yaml:"month" validate:"len=2,numeric"`
	Features  []string `yaml:"features" validate:"min=1,dive,required"`
	Label     string   `yaml:"label" validate:"required"`
	Threshold float64  `yaml:"threshold"`
	Folds     int      `yaml:"folds" validate:"gte=2"`
	Overwrite bool     `yaml:"overwrite"`
	Normalize string   `yaml:"normalize" validate:"oneof=none true pred all"`
	TestSize  float64  `yaml:"test_size" validate:"gt=0,lt=1"`
	Seed      int64    `yaml:"seed"`
	CacheSize int      `yaml:"cache_size" validate:"gte=0"`
}

// DefaultFeatures are the model inputs derived by the default generators.
// tip_percentage is deliberately absent: it determines big_tip.
var DefaultFeatures = []string{
	"trip_duration",
	"trip_speed",
	"trip_tolls",
	"pickup_weekday",
	"pickup_hour",
	"pickup_month",
	"pickup_minute",
	"work_hours",
	"meter_eng",
	"meter_dis",
}

// Default returns the configuration used for the February 2022 trips.
func Default() Config {
	return Config{
		Backend: Backend{
			Kind: "disk",
			Path: "tipster-data",
		},
		Stages: Stages{
			Raw:      "tripdata",
			Clean:    "clean",
			Features: "features",
		},
		Year:      "2022",
		Month:     "02",
		Features:  append([]string(nil), DefaultFeatures...),
		Label:     "big_tip",
		Threshold: 0.25,
		Folds:     5,
		Normalize: "true",
		TestSize:  0.2,
		Seed:      42,
		CacheSize: 16,
	}
}

var validate = validator.New()

// Validate checks the configuration, returning the first problem found as a
// *ConfigurationError, or an *UnsupportedYearError for a year without data.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			v := verrs[0]
			return &ConfigurationError{
				Field:  v.Namespace(),
				Reason: fmt.Sprintf("failed %q constraint (value %v)", v.Tag(), v.Value()),
			}
		}
		return errors.Wrap(err, "validating configuration")
	}
	_, err := ParsePeriod(c.Year, c.Month)
	return err
}

// Period is the (year, month) parsed from the configuration.
func (c Config) Period() (Period, error) {
	return ParsePeriod(c.Year, c.Month)
}

// Load reads configuration from a .yaml, .yml, or .properties file and
// validates it.
func Load(path string) (Config, error) {
	c := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, errors.Wrapf(err, "reading configuration %s", path)
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return Config{}, errors.Wrapf(err, "parsing configuration %s", path)
		}
	case ".properties":
		p, err := properties.LoadFile(path, properties.UTF8)
		if err != nil {
			return Config{}, errors.Wrapf(err, "reading configuration %s", path)
		}
		c = fromProperties(p, c)
	default:
		return Config{}, &ConfigurationError{Field: "path", Reason: fmt.Sprintf("unrecognised configuration format %q", path)}
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func fromProperties(p *properties.Properties, c Config) Config {
	c.Backend.Kind = p.GetString("backend.kind", c.Backend.Kind)
	c.Backend.Path = p.GetString("backend.path", c.Backend.Path)
	c.Backend.Bucket = p.GetString("backend.bucket", c.Backend.Bucket)
	c.Backend.Credentials = p.GetString("backend.credentials", c.Backend.Credentials)
	c.Stages.Raw = p.GetString("stages.raw", c.Stages.Raw)
	c.Stages.Clean = p.GetString("stages.clean", c.Stages.Clean)
	c.Stages.Features = p.GetString("stages.features", c.Stages.Features)
	c.Version = p.GetString("version", c.Version)
	c.Year = p.GetString("year", c.Year)
	c.Month = p.GetString("month", c.Month)
	if features, ok := p.Get("features"); ok {
		c.Features = nil
		for _, f := range strings.Split(features, ",") {
			if f = strings.TrimSpace(f); len(f) > 0 {
				c.Features = append(c.Features, f)
			}
		}
	}
	c.Label = p.GetString("label", c.Label)
	c.Threshold = p.GetFloat64("threshold", c.Threshold)
	c.Folds = p.GetInt("folds", c.Folds)
	c.Overwrite = p.GetBool("overwrite", c.Overwrite)
	c.Normalize = p.GetString("normalize", c.Normalize)
	c.TestSize = p.GetFloat64("test_size", c.TestSize)
	c.Seed = p.GetInt64("seed", c.Seed)
	c.CacheSize = p.GetInt("cache_size", c.CacheSize)
	return c
}
