package repository

import (
	"context"
	"ctchen222/tictactoe-engine/internal/session"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

type memorySessionRepository struct {
	mu       sync.Mutex
	sessions map[string]memoryEntry
	ttl      time.Duration
	now      func() time.Time
}

// NewMemorySessionRepository creates a SessionRepository kept in process
// memory. Sessions are stored encoded, so callers never share state with
// the store.
func NewMemorySessionRepository(ttl time.Duration) SessionRepository {
	return &memorySessionRepository{
		sessions: make(map[string]memoryEntry),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (r *memorySessionRepository) Create(ctx context.Context, s *session.Session) error {
	_, span := tracer.Start(ctx, "MemorySessionRepository.Create")
	defer span.End()

	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.live(s.ID); ok {
		return ErrSessionExists
	}
	r.sessions[s.ID] = r.entry(data)
	return nil
}

func (r *memorySessionRepository) FindByID(ctx context.Context, id string) (*session.Session, error) {
	_, span := tracer.Start(ctx, "MemorySessionRepository.FindByID")
	defer span.End()

	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.live(id)
	if !ok {
		return nil, ErrSessionNotFound
	}
	return decodeSession(e.data)
}

func (r *memorySessionRepository) Update(ctx context.Context, id string, fn func(*session.Session) error) (*session.Session, error) {
	_, span := tracer.Start(ctx, "MemorySessionRepository.Update")
	defer span.End()

	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.live(id)
	if !ok {
		return nil, ErrSessionNotFound
	}
	s, err := decodeSession(e.data)
	if err != nil {
		return nil, err
	}
	if err := fn(s); err != nil {
		return nil, err
	}

	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal updated session: %w", err)
	}
	r.sessions[id] = r.entry(data)
	return s, nil
}

func (r *memorySessionRepository) Delete(ctx context.Context, id string) error {
	_, span := tracer.Start(ctx, "MemorySessionRepository.Delete")
	defer span.End()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.live(id); !ok {
		return ErrSessionNotFound
	}
	delete(r.sessions, id)
	return nil
}

// live returns the entry for id unless it has expired. Callers hold r.mu.
func (r *memorySessionRepository) live(id string) (memoryEntry, bool) {
	e, ok := r.sessions[id]
	if !ok {
		return memoryEntry{}, false
	}
	if r.ttl > 0 && !r.now().Before(e.expiresAt) {
		delete(r.sessions, id)
		return memoryEntry{}, false
	}
	return e, true
}

func (r *memorySessionRepository) entry(data []byte) memoryEntry {
	return memoryEntry{data: data, expiresAt: r.now().Add(r.ttl)}
}
