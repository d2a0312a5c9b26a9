package cmd

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/hscells/tipster/config"
	"github.com/hscells/tipster/store"
)

// CredentialsEnv is consulted for a service account file when a GCS backend
// does not name one.
const CredentialsEnv = "GOOGLE_APPLICATION_CREDENTIALS"

func nop() error { return nil }

// OpenBlobStore opens the configured backend. The returned function releases
// it and must be called once the store is no longer used.
func OpenBlobStore(ctx context.Context, b config.Backend) (store.BlobStore, func() error, error) {
	switch b.Kind {
	case "memory":
		return store.NewMemoryStore(), nop, nil
	case "disk":
		log.Printf("using disk backend at %s\n", b.Path)
		return store.NewDiskStore(b.Path), nop, nil
	case "badger":
		log.Printf("using badger backend at %s\n", b.Path)
		s, err := store.OpenBadgerStore(b.Path)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case "gcs":
		credentials := b.Credentials
		if len(credentials) == 0 {
			credentials = os.Getenv(CredentialsEnv)
		}
		log.Printf("using gcs backend gs://%s\n", b.Bucket)
		s, err := store.NewGCSStore(ctx, b.Bucket, credentials)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	}
	return nil, nil, &config.ConfigurationError{Field: "backend.kind", Reason: fmt.Sprintf("unknown backend %q", b.Kind)}
}
