package storage

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/biobalance/admin/config"
)

type memoryStore struct {
	objects      map[string][]byte
	contentTypes map[string]string
	putErr       error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{objects: map[string][]byte{}, contentTypes: map[string]string{}}
}

func (m *memoryStore) EnsureBucket(context.Context) error { return nil }

func (m *memoryStore) Put(_ context.Context, key string, data []byte, contentType string) error {
	if m.putErr != nil {
		return m.putErr
	}
	m.objects[key] = data
	m.contentTypes[key] = contentType
	return nil
}

func (m *memoryStore) List(context.Context, string) ([]ObjectInfo, error) { return nil, nil }

func (m *memoryStore) Bucket() string { return "memory" }

func TestPutJSON(t *testing.T) {
	store := newMemoryStore()
	n, err := PutJSON(context.Background(), store, "exports/users/x.json", map[string]int{"count": 2})
	if err != nil {
		t.Fatalf("PutJSON: %v", err)
	}

	data := store.objects["exports/users/x.json"]
	if n != len(data) || n == 0 {
		t.Fatalf("expected %d bytes reported, got %d", len(data), n)
	}
	if store.contentTypes["exports/users/x.json"] != "application/json" {
		t.Fatalf("unexpected content type %q", store.contentTypes["exports/users/x.json"])
	}
	var decoded map[string]int
	if err := json.Unmarshal(data, &decoded); err != nil || decoded["count"] != 2 {
		t.Fatalf("unexpected stored document %s (%v)", data, err)
	}
}

func TestPutJSONWrapsBackendError(t *testing.T) {
	store := newMemoryStore()
	store.putErr = errors.New("bucket gone")
	if _, err := PutJSON(context.Background(), store, "k", []int{1}); !errors.Is(err, store.putErr) {
		t.Fatalf("expected wrapped backend error, got %v", err)
	}
}

func TestOpenWithoutBackend(t *testing.T) {
	if _, err := Open(context.Background(), config.StorageConfig{}); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
	if _, err := Open(context.Background(), config.StorageConfig{Backend: "ftp"}); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}

func TestNewMinioClientValidatesConfig(t *testing.T) {
	tests := []config.MinioConfig{
		{AccessKey: "a", SecretKey: "b", Bucket: "c"},
		{Endpoint: "localhost:9000", Bucket: "c"},
		{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "b"},
	}
	for _, cfg := range tests {
		if _, err := NewMinioClient(cfg); err == nil {
			t.Fatalf("expected validation error for %+v", cfg)
		}
	}
}
