package config

import "fmt"

// ConfigurationError is raised for configuration values that can never work,
// such as an empty stage name or an empty feature list.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration for %s: %s", e.Field, e.Reason)
}

// UnsupportedYearError is raised when there is no trip data for a year.
type UnsupportedYearError struct {
	Year     string
	Min, Max int
}

func (e *UnsupportedYearError) Error() string {
	return fmt.Sprintf("no data for year %s available, please select a year between %d and %d", e.Year, e.Min, e.Max)
}
