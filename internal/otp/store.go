package otp

import (
	"context"
	"sync"
	"time"
)

// PendingRegistration is a short-lived record created when a signup is
// initiated and consumed when the emailed code is verified. The code is
// stored hashed, never in the clear.
type PendingRegistration struct {
	CodeHash  string    `json:"code_hash"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (p *PendingRegistration) Expired(now time.Time) bool {
	return now.After(p.ExpiresAt)
}

// Store holds pending registrations keyed by email. Put overwrites any
// prior entry for the same email; Delete removes a consumed entry.
type Store interface {
	Put(ctx context.Context, email string, reg PendingRegistration) error
	Get(ctx context.Context, email string) (*PendingRegistration, error)
	Delete(ctx context.Context, email string) error
}

// MemoryStore keeps pending registrations in process memory. A restart
// drops all pending signups; callers simply re-initiate.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]PendingRegistration
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]PendingRegistration)}
}

func (s *MemoryStore) Put(_ context.Context, email string, reg PendingRegistration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[email] = reg
	return nil
}

func (s *MemoryStore) Get(_ context.Context, email string) (*PendingRegistration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	reg, ok := s.entries[email]
	if !ok {
		return nil, nil
	}
	return &reg, nil
}

func (s *MemoryStore) Delete(_ context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, email)
	return nil
}
