package store

import (
	"context"

	"github.com/dgraph-io/badger/v4"
	"github.com/pkg/errors"
)

// BadgerStore is a BlobStore in an embedded BadgerDB.
type BadgerStore struct {
	db *badger.DB
}

// OpenBadgerStore opens a BadgerDB at path, or in memory if path is empty.
// The caller must Close the store.
func OpenBadgerStore(path string) (*BadgerStore, error) {
	var opts badger.Options
	if len(path) == 0 {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		opts = badger.DefaultOptions(path)
	}
	db, err := badger.Open(opts.WithLogger(nil))
	if err != nil {
		return nil, errors.Wrap(err, "opening badger database")
	}
	return NewBadgerStore(db), nil
}

// NewBadgerStore uses an already open database.
func NewBadgerStore(db *badger.DB) *BadgerStore {
	return &BadgerStore{db: db}
}

// Close the underlying database.
func (b *BadgerStore) Close() error {
	return b.db.Close()
}

func (b *BadgerStore) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(prefix)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Seek(opts.Prefix); it.ValidForPrefix(opts.Prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			keys = append(keys, string(it.Item().KeyCopy(nil)))
		}
		return nil
	})
	return keys, errors.Wrapf(err, "listing %s", prefix)
}

func (b *BadgerStore) Read(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, errors.Wrap(ErrBlobNotFound, key)
	}
	return value, errors.Wrapf(err, "reading %s", key)
}

func (b *BadgerStore) Write(ctx context.Context, key string, value []byte) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), value)
	})
	return errors.Wrapf(err, "writing %s", key)
}

func (b *BadgerStore) WriteNew(ctx context.Context, key string, value []byte) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(key))
		if err == nil {
			return errors.Wrap(ErrBlobExists, key)
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		return txn.Set([]byte(key), value)
	})
	if errors.Is(err, ErrBlobExists) {
		return err
	}
	return errors.Wrapf(err, "writing %s", key)
}
