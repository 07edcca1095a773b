package objectstore

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/memora-app/memora/internal/errors"
)

// MemoryStore keeps objects in a map. It serves tests and local development
// runs that have no MinIO deployment.
type MemoryStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	baseURL string
}

func NewMemoryStore(baseURL string) *MemoryStore {
	return &MemoryStore{
		objects: make(map[string][]byte),
		baseURL: baseURL,
	}
}

func (s *MemoryStore) Put(
	_ context.Context,
	objectName string,
	reader io.Reader,
	_ int64,
	_ string,
) (string, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return "", errors.Wrap(err, "read object content")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[objectName] = content

	return fmt.Sprintf("%s/%s", s.baseURL, objectName), nil
}

// Get returns a stored object's content for test assertions.
func (s *MemoryStore) Get(objectName string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	content, ok := s.objects[objectName]
	return content, ok
}

// Len reports the number of stored objects.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}
