package memory

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/semdoc/internal/core/domain"
	"github.com/custodia-labs/semdoc/internal/core/ports/driven"
)

// Ensure PendingStore implements the interface.
var _ driven.PendingStore = (*PendingStore)(nil)

// PendingStore is an in-memory implementation of driven.PendingStore.
// Entries older than the TTL are treated as absent and dropped lazily.
type PendingStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	uploads map[string]domain.PendingUpload
}

// NewPendingStore creates an in-memory pending store. A ttl of zero
// keeps uploads until they are consumed or cleared.
func NewPendingStore(ttl time.Duration) *PendingStore {
	return &PendingStore{
		ttl:     ttl,
		now:     time.Now,
		uploads: make(map[string]domain.PendingUpload),
	}
}

// Stage creates or replaces the upload for its session key.
func (s *PendingStore) Stage(_ context.Context, upload domain.PendingUpload) error {
	if upload.SessionKey == "" {
		return domain.ErrInvalidRequest
	}
	if upload.CreatedAt.IsZero() {
		upload.CreatedAt = s.now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploads[upload.SessionKey] = upload
	return nil
}

// Peek reads the upload without clearing it.
func (s *PendingStore) Peek(_ context.Context, sessionKey string) (*domain.PendingUpload, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	upload, ok := s.get(sessionKey)
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &upload, nil
}

// Clear removes the upload.
func (s *PendingStore) Clear(_ context.Context, sessionKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.uploads, sessionKey)
	return nil
}

// Len returns the number of live uploads.
func (s *PendingStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for key := range s.uploads {
		if _, ok := s.get(key); ok {
			n++
		}
	}
	return n
}

// get returns a live upload (caller must hold lock).
func (s *PendingStore) get(key string) (domain.PendingUpload, bool) {
	upload, ok := s.uploads[key]
	if !ok {
		return domain.PendingUpload{}, false
	}
	if s.ttl > 0 && s.now().Sub(upload.CreatedAt) > s.ttl {
		delete(s.uploads, key)
		return domain.PendingUpload{}, false
	}
	return upload, true
}
