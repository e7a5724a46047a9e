// Package storage writes export snapshots to an object store.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/biobalance/admin/config"
)

// ErrNotConfigured is returned by Open when no backend is selected.
var ErrNotConfigured = errors.New("object storage is not configured")

// ObjectInfo describes a stored object.
type ObjectInfo struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"lastModified"`
}

// ObjectStorage defines the object operations shared by the backends.
type ObjectStorage interface {
	EnsureBucket(ctx context.Context) error
	Put(ctx context.Context, key string, data []byte, contentType string) error
	List(ctx context.Context, prefix string) ([]ObjectInfo, error)
	Bucket() string
}

// Open builds the backend named by cfg.Backend and makes sure its bucket
// exists.
func Open(ctx context.Context, cfg config.StorageConfig) (ObjectStorage, error) {
	var (
		backend ObjectStorage
		err     error
	)
	switch cfg.Backend {
	case "":
		return nil, ErrNotConfigured
	case "minio":
		backend, err = NewMinioClient(cfg.Minio)
	case "gcs":
		backend, err = NewGCSClient(ctx, cfg.GCS)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}
	if err := backend.EnsureBucket(ctx); err != nil {
		return nil, fmt.Errorf("ensure bucket %s: %w", backend.Bucket(), err)
	}
	return backend, nil
}

// PutJSON stores value as an indented JSON document under key.
func PutJSON(ctx context.Context, store ObjectStorage, key string, value any) (int, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(value); err != nil {
		return 0, fmt.Errorf("encode %s: %w", key, err)
	}
	if err := store.Put(ctx, key, buf.Bytes(), "application/json"); err != nil {
		return 0, fmt.Errorf("put %s: %w", key, err)
	}
	return buf.Len(), nil
}
