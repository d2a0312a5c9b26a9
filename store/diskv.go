package store

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterbourgon/diskv"
	"github.com/pkg/errors"
)

// KeyTransform determines how diskv should partition folders. Blob keys are
// escaped into file names; the directory of a file mirrors the slash
// separated segments of its key.
func KeyTransform(s string) []string {
	key, err := url.PathUnescape(s)
	if err != nil {
		return nil
	}
	segments := strings.Split(key, "/")
	var dirs []string
	for _, seg := range segments[:len(segments)-1] {
		if len(seg) > 0 && seg != "." && seg != ".." {
			dirs = append(dirs, seg)
		}
	}
	return dirs
}

// DiskStore is a BlobStore on the local file system, backed by diskv.
type DiskStore struct {
	*diskv.Diskv
}

// NewDiskStore creates a compressed on-disk blob store rooted at basePath.
func NewDiskStore(basePath string) *DiskStore {
	return NewDiskvStore(diskv.New(diskv.Options{
		BasePath:     basePath,
		TempDir:      filepath.Join(basePath, ".tmp"),
		Transform:    KeyTransform,
		CacheSizeMax: 4096 * 1024,
		Compression:  diskv.NewGzipCompression(),
	}))
}

// NewDiskvStore wraps an existing diskv; its Transform should be KeyTransform.
func NewDiskvStore(dv *diskv.Diskv) *DiskStore {
	return &DiskStore{dv}
}

func (d *DiskStore) List(ctx context.Context, prefix string) ([]string, error) {
	cancel := make(chan struct{})
	defer close(cancel)
	var keys []string
	for k := range d.KeysPrefix(url.PathEscape(prefix), cancel) {
		key, err := url.PathUnescape(k)
		if err != nil {
			return nil, errors.Wrapf(err, "unescaping key %s", k)
		}
		keys = append(keys, key)
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}
	return keys, nil
}

func (d *DiskStore) Read(ctx context.Context, key string) ([]byte, error) {
	b, err := d.Diskv.Read(url.PathEscape(key))
	if os.IsNotExist(errors.Cause(err)) {
		return nil, errors.Wrap(ErrBlobNotFound, key)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", key)
	}
	return b, nil
}

func (d *DiskStore) Write(ctx context.Context, key string, value []byte) error {
	return errors.Wrapf(d.Diskv.Write(url.PathEscape(key), value), "writing %s", key)
}
