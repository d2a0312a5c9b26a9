package store

import (
	"context"
	"io"
	"net/http"

	"cloud.google.com/go/storage"
	"github.com/pkg/errors"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// uploadChunkSize is the resumable upload chunk size for objects.
const uploadChunkSize = 262144

// GCSStore is a BlobStore in a Google Cloud Storage bucket.
type GCSStore struct {
	client *storage.Client
	bucket string
}

// NewGCSStore creates a client for bucket. Credentials are read from
// credentialsFile when it is set, and from the environment otherwise.
// The caller must Close the store.
func NewGCSStore(ctx context.Context, bucket, credentialsFile string) (*GCSStore, error) {
	var opts []option.ClientOption
	if len(credentialsFile) > 0 {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create GCS storage client")
	}
	return &GCSStore{client: client, bucket: bucket}, nil
}

// Close the storage client.
func (g *GCSStore) Close() error {
	return g.client.Close()
}

func (g *GCSStore) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	it := g.client.Bucket(g.bucket).Objects(ctx, &storage.Query{Prefix: prefix})
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "listing gs://%s/%s", g.bucket, prefix)
		}
		keys = append(keys, attrs.Name)
	}
	return keys, nil
}

func (g *GCSStore) Read(ctx context.Context, key string) ([]byte, error) {
	r, err := g.client.Bucket(g.bucket).Object(key).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, errors.Wrap(ErrBlobNotFound, key)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "reading gs://%s/%s", g.bucket, key)
	}
	defer r.Close()
	b, err := io.ReadAll(r)
	return b, errors.Wrapf(err, "reading gs://%s/%s", g.bucket, key)
}

func (g *GCSStore) Write(ctx context.Context, key string, value []byte) error {
	return g.write(ctx, g.client.Bucket(g.bucket).Object(key), key, value)
}

// WriteNew uses a does-not-exist precondition, so that two writers racing for
// the same key cannot both succeed.
func (g *GCSStore) WriteNew(ctx context.Context, key string, value []byte) error {
	obj := g.client.Bucket(g.bucket).Object(key).If(storage.Conditions{DoesNotExist: true})
	err := g.write(ctx, obj, key, value)
	if isPreconditionFailed(err) {
		return errors.Wrap(ErrBlobExists, key)
	}
	return err
}

func (g *GCSStore) write(ctx context.Context, obj *storage.ObjectHandle, key string, value []byte) error {
	w := obj.NewWriter(ctx)
	w.ChunkSize = uploadChunkSize
	w.ContentType = "text/csv"
	if _, err := w.Write(value); err != nil {
		_ = w.Close()
		return errors.Wrapf(err, "writing gs://%s/%s", g.bucket, key)
	}
	if err := w.Close(); err != nil {
		return errors.Wrapf(err, "closing writer for gs://%s/%s", g.bucket, key)
	}
	return nil
}

func isPreconditionFailed(err error) bool {
	if err == nil {
		return false
	}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code == http.StatusPreconditionFailed
	}
	return status.Code(errors.Cause(err)) == codes.FailedPrecondition
}
