package store_test

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/hscells/tipster/config"
	"github.com/hscells/tipster/metrics"
	"github.com/hscells/tipster/store"
	"github.com/hscells/tipster/table"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ctx = context.Background()

func trips() *table.Table {
	return table.MustNew(
		table.NewTime(store.PickupColumn, []time.Time{
			time.Date(2022, 2, 1, 9, 0, 0, 0, time.UTC),
			time.Date(2022, 2, 3, 10, 15, 0, 0, time.UTC),
		}),
		table.NewTime(store.DropoffColumn, []time.Time{
			time.Date(2022, 2, 1, 9, 20, 0, 0, time.UTC),
			time.Date(2022, 2, 3, 10, 45, 0, 0, time.UTC),
		}),
		table.NewNumeric("fare_amount", table.Float64, []float64{10, 22.5}),
	)
}

// fixedClock always returns the same instant.
func fixedClock() time.Time {
	return time.Date(2022, 3, 1, 12, 0, 0, 0, time.UTC)
}

func backends(t *testing.T) map[string]store.BlobStore {
	b, err := store.OpenBadgerStore("")
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })
	return map[string]store.BlobStore{
		"memory": store.NewMemoryStore(),
		"disk":   store.NewDiskStore(t.TempDir()),
		"badger": b,
	}
}

func TestBlobStores(t *testing.T) {
	for name, blobs := range backends(t) {
		require.NoError(t, blobs.Write(ctx, "data/clean/a.csv", []byte("a")), name)
		require.NoError(t, blobs.Write(ctx, "data/clean/2022_02/b.csv", []byte("b")), name)
		require.NoError(t, blobs.Write(ctx, "scratch/c.csv", []byte("c")), name)

		b, err := blobs.Read(ctx, "data/clean/a.csv")
		require.NoError(t, err, name)
		assert.Equal(t, []byte("a"), b, name)

		_, err = blobs.Read(ctx, "data/clean/missing.csv")
		assert.True(t, errors.Is(err, store.ErrBlobNotFound), name)

		keys, err := blobs.List(ctx, "data/")
		require.NoError(t, err, name)
		sort.Strings(keys)
		assert.Equal(t, []string{"data/clean/2022_02/b.csv", "data/clean/a.csv"}, keys, name)

		if cw, ok := blobs.(store.ConditionalWriter); ok {
			err = cw.WriteNew(ctx, "data/clean/a.csv", []byte("z"))
			assert.True(t, errors.Is(err, store.ErrBlobExists), name)
			require.NoError(t, cw.WriteNew(ctx, "data/clean/new.csv", []byte("n")), name)
		}
	}
}

func TestVersions(t *testing.T) {
	v := store.NewVersion(time.Date(2022, 2, 1, 9, 5, 7, 0, time.FixedZone("EST", -5*3600)))
	assert.Equal(t, store.Version("20220201-140507"), v)

	_, err := store.ParseVersion("2022-02-01")
	var malformed *store.MalformedVersionError
	assert.ErrorAs(t, err, &malformed)
	_, err = store.ParseVersion("20221301-000000")
	assert.ErrorAs(t, err, &malformed)

	latest, err := store.Latest([]store.Version{"20220201-000000", "20220301-000000", "20220215-235959"})
	require.NoError(t, err)
	assert.Equal(t, store.Version("20220301-000000"), latest)

	_, err = store.Latest(nil)
	assert.True(t, errors.Is(err, store.ErrNoVersions))
}

func TestResolvePath(t *testing.T) {
	s, err := store.NewDatasetStore(store.NewMemoryStore())
	require.NoError(t, err)
	p, err := s.ResolvePath("clean/2022_02", "20220301-120000")
	require.NoError(t, err)
	assert.Equal(t, "data/clean/2022_02/20220301-120000", p)

	var invalid *store.InvalidStageError
	for _, stage := range []string{"", "/", "clean/../features", "a//b"} {
		_, err = s.ResolvePath(stage, "20220301-120000")
		assert.ErrorAs(t, err, &invalid, stage)
	}
}

func TestWriteRead(t *testing.T) {
	for name, blobs := range backends(t) {
		s, err := store.NewDatasetStore(blobs, store.WithClock(fixedClock))
		require.NoError(t, err)

		a, err := s.Write(ctx, trips(), "clean")
		require.NoError(t, err, name)
		assert.Equal(t, store.Artifact{Stage: "clean", Version: "20220301-120000", Path: "data/clean/20220301-120000.csv"}, a, name)

		got, read, err := s.Read(ctx, "clean", "")
		require.NoError(t, err, name)
		assert.Equal(t, a, read, name)
		assert.Equal(t, trips().Names(), got.Names(), name)
		c, err := got.Column(store.PickupColumn)
		require.NoError(t, err, name)
		assert.Equal(t, table.Time, c.Kind(), name)
		assert.True(t, c.Time(1).Equal(time.Date(2022, 2, 3, 10, 15, 0, 0, time.UTC)), name)
	}
}

func TestVersionMonotonicity(t *testing.T) {
	s, err := store.NewDatasetStore(store.NewMemoryStore(), store.WithClock(fixedClock))
	require.NoError(t, err)

	var last store.Version
	for i := 0; i < 5; i++ {
		a, err := s.Write(ctx, trips(), "features")
		require.NoError(t, err)
		assert.True(t, a.Version > last, "%s should follow %s", a.Version, last)
		last = a.Version
	}
	versions, err := s.ListVersions(ctx, "features")
	require.NoError(t, err)
	assert.Len(t, versions, 5)
	latest, err := store.Latest(versions)
	require.NoError(t, err)
	assert.Equal(t, last, latest)
	assert.Equal(t, store.Version("20220301-120004"), latest)
}

func TestOverwriteProtection(t *testing.T) {
	for name, blobs := range backends(t) {
		s, err := store.NewDatasetStore(blobs)
		require.NoError(t, err)

		v := store.Version("20220301-120000")
		_, err = s.Write(ctx, trips(), "clean", store.WithVersion(v))
		require.NoError(t, err, name)

		one := trips().Filter(func(row int) bool { return row == 0 })
		var exists *store.ArtifactExistsError
		_, err = s.Write(ctx, one, "clean", store.WithVersion(v))
		require.ErrorAs(t, err, &exists, name)
		assert.Equal(t, v, exists.Version)

		got, _, err := s.Read(ctx, "clean", v)
		require.NoError(t, err, name)
		assert.Equal(t, 2, got.Len(), name)

		_, err = s.Write(ctx, one, "clean", store.WithVersion(v), store.Overwrite(true))
		require.NoError(t, err, name)
		got, _, err = s.Read(ctx, "clean", v)
		require.NoError(t, err, name)
		assert.Equal(t, 1, got.Len(), name)
	}
}

func TestReadErrors(t *testing.T) {
	blobs := store.NewMemoryStore()
	s, err := store.NewDatasetStore(blobs)
	require.NoError(t, err)

	var none *store.NoArtifactsError
	_, _, err = s.Read(ctx, "clean", "")
	assert.ErrorAs(t, err, &none)
	_, _, err = s.Read(ctx, "clean", "20220301-120000")
	require.ErrorAs(t, err, &none)
	assert.Equal(t, store.Version("20220301-120000"), none.Version)

	_, err = s.Write(ctx, trips(), "clean", store.WithVersion("yesterday"))
	var malformed *store.MalformedVersionError
	assert.ErrorAs(t, err, &malformed)

	require.NoError(t, blobs.Write(ctx, "data/clean/notes.csv", []byte("x")))
	_, _, err = s.Read(ctx, "clean", "")
	assert.ErrorAs(t, err, &malformed)

	// nested stages and other files do not count as versions
	require.NoError(t, blobs.Write(ctx, "data/features/2022_02/20220301-120000.csv", []byte("x")))
	require.NoError(t, blobs.Write(ctx, "data/features/README", []byte("x")))
	versions, err := s.ListVersions(ctx, "features")
	require.NoError(t, err)
	assert.Empty(t, versions)

	require.NoError(t, blobs.Write(ctx, "data/raw/20220301-120000.csv", []byte("a,b\n1,2\n")))
	var schema *table.SchemaError
	_, _, err = s.Read(ctx, "raw", "")
	assert.ErrorAs(t, err, &schema)
}

func TestCache(t *testing.T) {
	registry := prometheus.NewRegistry()
	recorder, err := metrics.NewRecorder(registry)
	require.NoError(t, err)
	s, err := store.NewDatasetStore(store.NewMemoryStore(), store.WithRecorder(recorder))
	require.NoError(t, err)

	v := store.Version("20220301-120000")
	_, err = s.Write(ctx, trips(), "clean", store.WithVersion(v))
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, _, err = s.Read(ctx, "clean", v)
		require.NoError(t, err)
	}

	n, err := testutil.GatherAndCount(registry, "tipster_store_artifacts_read_total")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	n, err = testutil.GatherAndCount(registry, "tipster_store_artifacts_written_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// overwriting evicts the cached table
	_, err = s.Write(ctx, trips().Filter(func(int) bool { return false }), "clean", store.WithVersion(v), store.Overwrite(true))
	require.NoError(t, err)
	got, _, err := s.Read(ctx, "clean", v)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Len())
}

func TestRawAndScratch(t *testing.T) {
	blobs := store.NewMemoryStore()
	s, err := store.NewDatasetStore(blobs)
	require.NoError(t, err)
	period, err := config.ParsePeriod("2022", "02")
	require.NoError(t, err)
	assert.Equal(t, "tripdata/yellow_tripdata_2022-02.csv", store.RawPath(period))

	var none *store.NoArtifactsError
	_, err = s.ReadRaw(ctx, period)
	assert.ErrorAs(t, err, &none)

	key, err := s.WriteScratch(ctx, trips(), "yellow_tripdata_2022-02.csv", false)
	require.NoError(t, err)
	assert.Equal(t, "yellow_tripdata_2022-02.csv", key)
	key, err = s.WriteScratch(ctx, trips(), "sample/trips.csv", true)
	require.NoError(t, err)
	assert.Equal(t, "scratch/sample/trips.csv", key)

	var suffix *store.InvalidSuffixError
	_, err = s.WriteScratch(ctx, trips(), "trips.parquet", true)
	assert.ErrorAs(t, err, &suffix)

	key, err = s.WriteScratch(ctx, trips(), "tripdata/yellow_tripdata_2022-02.csv", false)
	require.NoError(t, err)
	raw, err := s.ReadRaw(ctx, period)
	require.NoError(t, err)
	assert.Equal(t, 2, raw.Len())
	assert.Equal(t, store.RawPath(period), key)
}

func TestRawRoot(t *testing.T) {
	blobs := store.NewMemoryStore()
	s, err := store.NewDatasetStore(blobs, store.WithRawRoot("/nyc/"))
	require.NoError(t, err)
	period, err := config.ParsePeriod("2022", "02")
	require.NoError(t, err)
	assert.Equal(t, "nyc/yellow_tripdata_2022-02.csv", s.RawKey(period))

	// the default root is not consulted
	_, err = s.WriteScratch(ctx, trips(), store.RawPath(period), false)
	require.NoError(t, err)
	var none *store.NoArtifactsError
	_, err = s.ReadRaw(ctx, period)
	require.ErrorAs(t, err, &none)
	assert.Equal(t, "nyc/2022-02", none.Stage)

	_, err = s.WriteScratch(ctx, trips(), s.RawKey(period), false)
	require.NoError(t, err)
	raw, err := s.ReadRaw(ctx, period)
	require.NoError(t, err)
	assert.Equal(t, 2, raw.Len())
}
