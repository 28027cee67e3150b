package storage

import (
	"bytes"
	"context"
	"errors"
	"sync"

	"github.com/billie-crm/backend/internal/application/exportjob"
)

// StubArtifactStore keeps artifacts in memory and returns deterministic
// URLs. Used in development when no object storage is configured.
type StubArtifactStore struct {
	// BaseURL prefixes the returned download URLs
	BaseURL string

	mu      sync.Mutex
	objects map[string][]byte
}

var _ exportjob.ArtifactStore = (*StubArtifactStore)(nil)

// NewStubArtifactStore creates an in-memory artifact store
func NewStubArtifactStore() *StubArtifactStore {
	return &StubArtifactStore{
		BaseURL: "https://storage.example.com",
		objects: make(map[string][]byte),
	}
}

// Upload stores the payload in memory and returns a synthetic URL
func (s *StubArtifactStore) Upload(_ context.Context, key string, reader *bytes.Reader, _ string) (string, error) {
	if key == "" {
		return "", errors.New("storage key is required")
	}

	data := make([]byte, reader.Len())
	if _, err := reader.Read(data); err != nil {
		return "", err
	}

	s.mu.Lock()
	s.objects[key] = data
	s.mu.Unlock()

	return s.BaseURL + "/" + key, nil
}

// Get returns a stored payload, for tests
func (s *StubArtifactStore) Get(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[key]
	return data, ok
}
