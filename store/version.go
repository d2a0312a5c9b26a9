package store

import (
	"time"
)

// VersionLayout is the time layout of a version: YYYYMMDD-HHMMSS. Every field
// is fixed width and zero padded, so versions sort lexicographically in
// chronological order.
const VersionLayout = "20060102-150405"

// Version identifies one immutable snapshot of a stage.
type Version string

// NewVersion mints the version for time t (in UTC).
func NewVersion(t time.Time) Version {
	return Version(t.UTC().Format(VersionLayout))
}

// ParseVersion checks that s is a well formed version.
func ParseVersion(s string) (Version, error) {
	t, err := time.Parse(VersionLayout, s)
	if err != nil || t.Format(VersionLayout) != s {
		return "", &MalformedVersionError{Name: s}
	}
	return Version(s), nil
}

// Time the version was minted at.
func (v Version) Time() time.Time {
	t, _ := time.Parse(VersionLayout, string(v))
	return t
}

// Latest is the most recent of versions; ErrNoVersions if there are none.
func Latest(versions []Version) (Version, error) {
	if len(versions) == 0 {
		return "", ErrNoVersions
	}
	latest := versions[0]
	for _, v := range versions[1:] {
		if v > latest {
			latest = v
		}
	}
	return latest, nil
}
