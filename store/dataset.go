package store

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"path"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru"
	"github.com/hscells/tipster/config"
	"github.com/hscells/tipster/metrics"
	"github.com/hscells/tipster/table"
	"github.com/pkg/errors"
)

const (
	// DataRoot is the prefix every stage artifact is written under.
	DataRoot = "data"
	// ScratchRoot is the prefix of ad hoc scratch writes.
	ScratchRoot = "scratch"
	// RawRoot is the default prefix raw monthly trip data is read from.
	RawRoot = "tripdata"

	extension = ".csv"
)

// PickupColumn and DropoffColumn are the date-time columns of trip tables.
const (
	PickupColumn  = "tpep_pickup_datetime"
	DropoffColumn = "tpep_dropoff_datetime"
)

// Artifact identifies one persisted table.
type Artifact struct {
	Stage   string
	Version Version
	Path    string
}

// DatasetStore reads and writes versioned tables for pipeline stages. The
// latest version of a stage is derived from a listing every time it is
// needed; there is no pointer to it that could become stale.
//
// The check that an artifact does not already exist is not atomic with the
// write unless the BlobStore is a ConditionalWriter. Only one writer per
// stage should be running.
type DatasetStore struct {
	blobs       BlobStore
	clock       func() time.Time
	cache       *lru.Cache
	cacheSize   int
	timeColumns []string
	recorder    *metrics.Recorder
	rawRoot     string
	last        Version
}

// WithClock sets the clock new versions are minted from.
func WithClock(clock func() time.Time) func(s *DatasetStore) {
	return func(s *DatasetStore) {
		s.clock = clock
	}
}

// WithCacheSize sets how many decoded tables are kept in memory. Zero disables caching.
func WithCacheSize(n int) func(s *DatasetStore) {
	return func(s *DatasetStore) {
		s.cacheSize = n
	}
}

// WithTimeColumns sets the date-time columns every artifact must have.
func WithTimeColumns(columns ...string) func(s *DatasetStore) {
	return func(s *DatasetStore) {
		s.timeColumns = columns
	}
}

// WithRecorder records store activity.
func WithRecorder(r *metrics.Recorder) func(s *DatasetStore) {
	return func(s *DatasetStore) {
		s.recorder = r
	}
}

// WithRawRoot sets the prefix raw monthly trip data is read from.
func WithRawRoot(root string) func(s *DatasetStore) {
	return func(s *DatasetStore) {
		s.rawRoot = strings.Trim(root, "/")
	}
}

// NewDatasetStore creates a dataset store over blobs. The blob store's
// lifecycle remains the caller's.
func NewDatasetStore(blobs BlobStore, options ...func(s *DatasetStore)) (*DatasetStore, error) {
	s := &DatasetStore{
		blobs:       blobs,
		clock:       time.Now,
		cacheSize:   16,
		timeColumns: []string{PickupColumn, DropoffColumn},
		rawRoot:     RawRoot,
	}
	for _, o := range options {
		o(s)
	}
	if s.cacheSize > 0 {
		c, err := lru.New(s.cacheSize)
		if err != nil {
			return nil, err
		}
		s.cache = c
	}
	return s, nil
}

func cleanStage(stage string) (string, error) {
	s := strings.Trim(strings.ReplaceAll(stage, `\`, "/"), "/")
	if len(s) == 0 {
		return "", &InvalidStageError{Stage: stage}
	}
	for _, seg := range strings.Split(s, "/") {
		if len(seg) == 0 || seg == "." || seg == ".." {
			return "", &InvalidStageError{Stage: stage}
		}
	}
	return s, nil
}

// ResolvePath is the path of an artifact without its extension: data/{stage}/{version}.
func (s *DatasetStore) ResolvePath(stage string, version Version) (string, error) {
	st, err := cleanStage(stage)
	if err != nil {
		return "", err
	}
	if _, err := ParseVersion(string(version)); err != nil {
		return "", &MalformedVersionError{Stage: st, Name: string(version)}
	}
	return path.Join(DataRoot, st, string(version)), nil
}

func (s *DatasetStore) key(stage string, version Version) (string, error) {
	p, err := s.ResolvePath(stage, version)
	if err != nil {
		return "", err
	}
	return p + extension, nil
}

// mint a version strictly after any this store has minted before.
func (s *DatasetStore) mint() Version {
	v := NewVersion(s.clock())
	if len(s.last) > 0 && v <= s.last {
		v = NewVersion(s.last.Time().Add(time.Second))
	}
	s.last = v
	return v
}

type writeOptions struct {
	version   Version
	overwrite bool
}

// WriteOption configures a write.
type WriteOption func(o *writeOptions)

// WithVersion writes an explicit version instead of minting one.
func WithVersion(v Version) WriteOption {
	return func(o *writeOptions) {
		o.version = v
	}
}

// Overwrite replaces an existing artifact.
func Overwrite(overwrite bool) WriteOption {
	return func(o *writeOptions) {
		o.overwrite = overwrite
	}
}

// Write stores t as a new version of stage, returning the artifact written.
// Unless an explicit version is given, one is minted from the clock. Writing
// a version that already exists fails with *ArtifactExistsError unless
// Overwrite is set.
func (s *DatasetStore) Write(ctx context.Context, t *table.Table, stage string, options ...WriteOption) (Artifact, error) {
	var o writeOptions
	for _, opt := range options {
		opt(&o)
	}
	st, err := cleanStage(stage)
	if err != nil {
		return Artifact{}, err
	}
	v := o.version
	if len(v) == 0 {
		v = s.mint()
	}
	key, err := s.key(st, v)
	if err != nil {
		return Artifact{}, err
	}
	a := Artifact{Stage: st, Version: v, Path: key}

	if !o.overwrite {
		keys, err := s.blobs.List(ctx, DataRoot+"/")
		if err != nil {
			return Artifact{}, errors.Wrapf(err, "listing %s", DataRoot)
		}
		for _, k := range keys {
			if k == key {
				return Artifact{}, &ArtifactExistsError{Stage: st, Version: v, Path: key}
			}
		}
	}

	var buf bytes.Buffer
	if err := table.Encode(&buf, t); err != nil {
		return Artifact{}, errors.Wrapf(err, "encoding %s", key)
	}

	cw, conditional := s.blobs.(ConditionalWriter)
	if !o.overwrite && conditional {
		err = cw.WriteNew(ctx, key, buf.Bytes())
		if errors.Is(err, ErrBlobExists) {
			return Artifact{}, &ArtifactExistsError{Stage: st, Version: v, Path: key}
		}
	} else {
		err = s.blobs.Write(ctx, key, buf.Bytes())
	}
	if err != nil {
		return Artifact{}, err
	}
	if s.cache != nil {
		s.cache.Remove(key)
	}
	s.recorder.ArtifactWritten(st, buf.Len())
	log.Printf("wrote %d rows to %s\n", t.Len(), key)
	return a, nil
}

// ListVersions lists the versions of stage, in no particular order.
func (s *DatasetStore) ListVersions(ctx context.Context, stage string) ([]Version, error) {
	st, err := cleanStage(stage)
	if err != nil {
		return nil, err
	}
	prefix := path.Join(DataRoot, st) + "/"
	keys, err := s.blobs.List(ctx, prefix)
	if err != nil {
		return nil, errors.Wrapf(err, "listing %s", prefix)
	}
	var versions []Version
	for _, k := range keys {
		name := strings.TrimPrefix(k, prefix)
		// Artifacts of nested stages (e.g. clean/2022_02) are not versions of this stage.
		if strings.Contains(name, "/") || !strings.HasSuffix(name, extension) {
			continue
		}
		name = strings.TrimSuffix(name, extension)
		v, err := ParseVersion(name)
		if err != nil {
			return nil, &MalformedVersionError{Stage: st, Name: name}
		}
		versions = append(versions, v)
	}
	return versions, nil
}

// Read a version of stage. An empty version reads the latest one.
func (s *DatasetStore) Read(ctx context.Context, stage string, version Version) (*table.Table, Artifact, error) {
	st, err := cleanStage(stage)
	if err != nil {
		return nil, Artifact{}, err
	}
	if len(version) == 0 {
		versions, err := s.ListVersions(ctx, st)
		if err != nil {
			return nil, Artifact{}, err
		}
		version, err = Latest(versions)
		if errors.Is(err, ErrNoVersions) {
			return nil, Artifact{}, &NoArtifactsError{Stage: st}
		}
	}
	key, err := s.key(st, version)
	if err != nil {
		return nil, Artifact{}, err
	}
	a := Artifact{Stage: st, Version: version, Path: key}
	log.Printf("reading %s version %s\n", st, version)
	t, err := s.read(ctx, st, key)
	if errors.Is(err, ErrBlobNotFound) {
		return nil, Artifact{}, &NoArtifactsError{Stage: st, Version: version}
	}
	return t, a, err
}

func (s *DatasetStore) read(ctx context.Context, stage, key string) (*table.Table, error) {
	if s.cache != nil {
		if t, ok := s.cache.Get(key); ok {
			s.recorder.ArtifactRead(stage, true)
			return t.(*table.Table), nil
		}
	}
	b, err := s.blobs.Read(ctx, key)
	if err != nil {
		return nil, err
	}
	t, err := table.Decode(bytes.NewReader(b), table.DecodeOptions{TimeColumns: s.timeColumns})
	if err != nil {
		return nil, errors.Wrapf(err, "decoding %s", key)
	}
	if s.cache != nil {
		s.cache.Add(key, t)
	}
	s.recorder.ArtifactRead(stage, false)
	return t, nil
}

// RawPath is the path of the raw trip data for a month under RawRoot.
func RawPath(p config.Period) string {
	return rawPath(RawRoot, p)
}

func rawPath(root string, p config.Period) string {
	return fmt.Sprintf("%s/yellow_tripdata_%s-%s%s", root, p.YearString(), p.MonthString(), extension)
}

// RawKey is the path this store reads the raw trip data for a month from.
func (s *DatasetStore) RawKey(p config.Period) string {
	return rawPath(s.rawRoot, p)
}

// ReadRaw reads the raw trip data for a month.
func (s *DatasetStore) ReadRaw(ctx context.Context, p config.Period) (*table.Table, error) {
	key := s.RawKey(p)
	log.Printf("reading raw trips from %s\n", key)
	t, err := s.read(ctx, s.rawRoot, key)
	if errors.Is(err, ErrBlobNotFound) {
		return nil, &NoArtifactsError{Stage: s.rawRoot + "/" + p.String()}
	}
	return t, err
}

// WriteScratch writes t to scratch/{suffix}, or to {suffix} when scratch is
// false, replacing whatever was there. The suffix must name a .csv file.
func (s *DatasetStore) WriteScratch(ctx context.Context, t *table.Table, suffix string, scratch bool) (string, error) {
	if !strings.HasSuffix(suffix, extension) {
		return "", &InvalidSuffixError{Suffix: suffix}
	}
	key := strings.TrimPrefix(strings.ReplaceAll(suffix, `\`, "/"), "/")
	if scratch {
		key = path.Join(ScratchRoot, key)
	}
	var buf bytes.Buffer
	if err := table.Encode(&buf, t); err != nil {
		return "", errors.Wrapf(err, "encoding %s", key)
	}
	if err := s.blobs.Write(ctx, key, buf.Bytes()); err != nil {
		return "", err
	}
	if s.cache != nil {
		s.cache.Remove(key)
	}
	return key, nil
}
