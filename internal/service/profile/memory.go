package profile

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps profiles in process memory. It backs tests and runs
// without Firebase.
type MemoryStore struct {
	mu       sync.RWMutex
	profiles map[string]Profile
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		profiles: make(map[string]Profile),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (m *MemoryStore) Create(ctx context.Context, userID string, params CreateParams) (*Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.profiles[userID]; ok {
		audit(ctx, "create", userID, ErrAlreadyExists)
		return nil, ErrAlreadyExists
	}
	p := newProfile(userID, params, m.now())
	m.profiles[userID] = *p
	audit(ctx, "create", userID, nil)
	return p, nil
}

func (m *MemoryStore) Get(_ context.Context, userID string) (*Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.profiles[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (m *MemoryStore) Update(ctx context.Context, userID string, params UpdateParams) (*Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.profiles[userID]
	if !ok {
		audit(ctx, "update", userID, ErrNotFound)
		return nil, ErrNotFound
	}
	p.apply(params, m.now())
	m.profiles[userID] = p
	audit(ctx, "update", userID, nil)
	return &p, nil
}

func (m *MemoryStore) Delete(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.profiles[userID]; !ok {
		audit(ctx, "delete", userID, ErrNotFound)
		return ErrNotFound
	}
	delete(m.profiles, userID)
	audit(ctx, "delete", userID, nil)
	return nil
}

var _ Store = (*MemoryStore)(nil)
