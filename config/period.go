package config

import (
	"fmt"
	"strconv"
	"time"
)

var (
	// MinYear is the first year trip data is available for.
	MinYear = 2020
	// MaxYear is the last year trip data is available for.
	MaxYear = 2022
)

// Period is a calendar month of trip data.
type Period struct {
	Year  int
	Month time.Month
}

// ParsePeriod parses a four digit year and two digit month, e.g. "2022" and "02".
func ParsePeriod(year, month string) (Period, error) {
	if len(year) != 4 {
		return Period{}, &ConfigurationError{Field: "year", Reason: fmt.Sprintf("%q is not a four digit year", year)}
	}
	y, err := strconv.Atoi(year)
	if err != nil {
		return Period{}, &ConfigurationError{Field: "year", Reason: fmt.Sprintf("%q is not a four digit year", year)}
	}
	if y < MinYear || y > MaxYear {
		return Period{}, &UnsupportedYearError{Year: year, Min: MinYear, Max: MaxYear}
	}
	if len(month) != 2 {
		return Period{}, &ConfigurationError{Field: "month", Reason: fmt.Sprintf("%q is not a two digit month", month)}
	}
	m, err := strconv.Atoi(month)
	if err != nil || m < 1 || m > 12 {
		return Period{}, &ConfigurationError{Field: "month", Reason: fmt.Sprintf("%q is not a month between 01 and 12", month)}
	}
	return Period{Year: y, Month: time.Month(m)}, nil
}

// Days is the number of days in the month.
func (p Period) Days() int {
	return time.Date(p.Year, p.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Contains reports whether t falls on a calendar day of the period.
func (p Period) Contains(t time.Time) bool {
	return t.Year() == p.Year && t.Month() == p.Month
}

// YearString is the year formatted as in raw data file names.
func (p Period) YearString() string {
	return fmt.Sprintf("%04d", p.Year)
}

// MonthString is the zero padded month formatted as in raw data file names.
func (p Period) MonthString() string {
	return fmt.Sprintf("%02d", int(p.Month))
}

func (p Period) String() string {
	return p.YearString() + "-" + p.MonthString()
}
