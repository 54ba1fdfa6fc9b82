package repository

import (
	"context"
	"ctchen222/tictactoe-engine/internal/session"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

//go:generate mockgen -destination=mocks/session_repository_mock.go -package=mocks ctchen222/tictactoe-engine/internal/repository SessionRepository

var tracer = otel.Tracer("repository.session")

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExists   = errors.New("session already exists")
	ErrConflict        = errors.New("session was modified concurrently")
)

// maxUpdateRetries bounds optimistic retries when a WATCHed key changes.
const maxUpdateRetries = 5

// SessionRepository defines the interface for session data operations.
type SessionRepository interface {
	Create(ctx context.Context, s *session.Session) error
	FindByID(ctx context.Context, id string) (*session.Session, error)
	// Update loads the session, applies fn and stores the result. Updates
	// to the same session are serialized; if fn returns an error nothing is
	// stored and the error is returned as is.
	Update(ctx context.Context, id string, fn func(*session.Session) error) (*session.Session, error)
	Delete(ctx context.Context, id string) error
}

type redisSessionRepository struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewSessionRepository creates a new Redis-based SessionRepository. Sessions
// expire ttl after their last update.
func NewSessionRepository(rdb *redis.Client, ttl time.Duration) SessionRepository {
	return &redisSessionRepository{rdb: rdb, ttl: ttl}
}

func sessionKey(id string) string {
	return fmt.Sprintf("session:%s", id)
}

// Create stores a new session.
func (r *redisSessionRepository) Create(ctx context.Context, s *session.Session) error {
	ctx, span := tracer.Start(ctx, "SessionRepository.Create", trace.WithAttributes(attribute.String("session.id", s.ID)))
	defer span.End()

	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	ok, err := r.rdb.SetNX(ctx, sessionKey(s.ID), data, r.ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to create session in redis: %w", err)
	}
	if !ok {
		return ErrSessionExists
	}
	return nil
}

// FindByID retrieves a session from Redis.
func (r *redisSessionRepository) FindByID(ctx context.Context, id string) (*session.Session, error) {
	ctx, span := tracer.Start(ctx, "SessionRepository.FindByID", trace.WithAttributes(attribute.String("session.id", id)))
	defer span.End()

	data, err := r.rdb.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session from redis: %w", err)
	}
	return decodeSession(data)
}

// Update applies fn inside a WATCH transaction and retries when another
// writer got there first.
func (r *redisSessionRepository) Update(ctx context.Context, id string, fn func(*session.Session) error) (*session.Session, error) {
	ctx, span := tracer.Start(ctx, "SessionRepository.Update", trace.WithAttributes(attribute.String("session.id", id)))
	defer span.End()

	key := sessionKey(id)
	var updated *session.Session

	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return ErrSessionNotFound
		}
		if err != nil {
			return err
		}

		s, err := decodeSession(data)
		if err != nil {
			return err
		}
		if err := fn(s); err != nil {
			return err
		}

		newData, err := json.Marshal(s)
		if err != nil {
			return fmt.Errorf("failed to marshal updated session: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, newData, r.ttl)
			return nil
		})
		if err != nil {
			return err
		}
		updated = s
		return nil
	}

	for attempt := 0; attempt < maxUpdateRetries; attempt++ {
		err := r.rdb.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			span.AddEvent("watch conflict", trace.WithAttributes(attribute.Int("attempt", attempt)))
			continue
		}
		if err != nil {
			return nil, err
		}
		return updated, nil
	}
	return nil, ErrConflict
}

// Delete removes a session.
func (r *redisSessionRepository) Delete(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "SessionRepository.Delete", trace.WithAttributes(attribute.String("session.id", id)))
	defer span.End()

	n, err := r.rdb.Del(ctx, sessionKey(id)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	if n == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func decodeSession(data []byte) (*session.Session, error) {
	var s session.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &s, nil
}
