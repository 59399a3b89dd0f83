// Package evidence abstracts photo-artifact storage. The lifecycle engine
// only ever handles opaque references; bytes never cross into domain code.
package evidence

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"samadhan/pkg/sentinel"
)

// Store persists raw image artifacts and hands back opaque references.
type Store interface {
	Put(ctx context.Context, raw []byte) (ref string, err error)
	Get(ctx context.Context, ref string) ([]byte, error)
}

// InMemory keeps artifacts in a map. Suitable for tests and local demos; a
// production deployment points this interface at object storage.
type InMemory struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

func NewInMemory() *InMemory {
	return &InMemory{blobs: make(map[string][]byte)}
}

func (s *InMemory) Put(_ context.Context, raw []byte) (string, error) {
	ref := "artifact://" + uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[ref] = append([]byte(nil), raw...)
	return ref, nil
}

func (s *InMemory) Get(_ context.Context, ref string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	blob, ok := s.blobs[ref]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return append([]byte(nil), blob...), nil
}
