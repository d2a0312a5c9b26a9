package store

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrBlobNotFound is wrapped by BlobStore reads of absent keys.
	ErrBlobNotFound = errors.New("blob not found")
	// ErrBlobExists is wrapped by conditional writes to keys that are present.
	ErrBlobExists = errors.New("blob already exists")
	// ErrNoVersions is returned when the latest of no versions is requested.
	ErrNoVersions = errors.New("no versions")
)

// InvalidStageError is raised for an empty stage name.
type InvalidStageError struct {
	Stage string
}

func (e *InvalidStageError) Error() string {
	return fmt.Sprintf("invalid stage name %q, please provide a stage name (e.g. \"clean\", \"features\")", e.Stage)
}

// InvalidSuffixError is raised for a scratch file name that is not a csv file.
type InvalidSuffixError struct {
	Suffix string
}

func (e *InvalidSuffixError) Error() string {
	return fmt.Sprintf("suffix %q must end with .csv", e.Suffix)
}

// ArtifactExistsError is raised when a write without overwrite targets an
// artifact that has already been written.
type ArtifactExistsError struct {
	Stage   string
	Version Version
	Path    string
}

func (e *ArtifactExistsError) Error() string {
	return fmt.Sprintf("artifact %s already exists (stage %s, version %s)", e.Path, e.Stage, e.Version)
}

// NoArtifactsError is raised when a stage has no artifacts to read, or the
// requested version of it does not exist.
type NoArtifactsError struct {
	Stage   string
	Version Version
}

func (e *NoArtifactsError) Error() string {
	if len(e.Version) > 0 {
		return fmt.Sprintf("no artifact for stage %s at version %s", e.Stage, e.Version)
	}
	return fmt.Sprintf("no artifacts for stage %s", e.Stage)
}

// MalformedVersionError is raised when a name cannot be parsed as a version.
type MalformedVersionError struct {
	Stage string
	Name  string
}

func (e *MalformedVersionError) Error() string {
	if len(e.Stage) > 0 {
		return fmt.Sprintf("malformed version %q in stage %s, versions look like %s", e.Name, e.Stage, VersionLayout)
	}
	return fmt.Sprintf("malformed version %q, versions look like %s", e.Name, VersionLayout)
}
