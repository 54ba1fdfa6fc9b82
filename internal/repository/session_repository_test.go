package repository

import (
	"context"
	"ctchen222/tictactoe-engine/internal/bot"
	"ctchen222/tictactoe-engine/internal/game"
	"ctchen222/tictactoe-engine/internal/session"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

var createdAt = time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

func newRedisRepository(t *testing.T, ttl time.Duration) SessionRepository {
	t.Helper()
	if testing.Short() {
		t.Skip("needs a redis container")
	}

	ctx := context.Background()
	ctr, err := tcredis.Run(ctx, "redis:7-alpine")
	testcontainers.CleanupContainer(t, ctr)
	if err != nil {
		t.Skipf("redis container unavailable: %v", err)
	}

	connStr, err := ctr.ConnectionString(ctx)
	require.NoError(t, err)
	opts, err := redis.ParseURL(connStr)
	require.NoError(t, err)

	rdb := redis.NewClient(opts)
	t.Cleanup(func() { _ = rdb.Close() })
	require.NoError(t, rdb.Ping(ctx).Err())

	return NewSessionRepository(rdb, ttl)
}

func TestSessionRepository_Memory(t *testing.T) {
	runSessionRepositoryContract(t, func(t *testing.T) SessionRepository {
		return NewMemorySessionRepository(time.Hour)
	})
}

func TestSessionRepository_Redis(t *testing.T) {
	runSessionRepositoryContract(t, func(t *testing.T) SessionRepository {
		return newRedisRepository(t, time.Hour)
	})
}

func runSessionRepositoryContract(t *testing.T, newRepo func(t *testing.T) SessionRepository) {
	t.Run("Create and FindByID", func(t *testing.T) {
		ctx := context.Background()
		repo := newRepo(t)

		// Given: a session with one move played
		s := session.New("s1", session.ModeAI, bot.Hard, createdAt)
		require.NoError(t, s.Play(1, 1))

		// When: it is stored and loaded again
		require.NoError(t, repo.Create(ctx, s))
		got, err := repo.FindByID(ctx, "s1")

		// Then: the loaded session matches
		require.NoError(t, err)
		assert.Equal(t, s, got)
	})

	t.Run("Create twice", func(t *testing.T) {
		ctx := context.Background()
		repo := newRepo(t)

		s := session.New("s1", session.ModePVP, bot.Easy, createdAt)
		require.NoError(t, repo.Create(ctx, s))
		require.ErrorIs(t, repo.Create(ctx, s), ErrSessionExists)
	})

	t.Run("FindByID not found", func(t *testing.T) {
		repo := newRepo(t)

		got, err := repo.FindByID(context.Background(), "missing")

		require.ErrorIs(t, err, ErrSessionNotFound)
		assert.Nil(t, got)
	})

	t.Run("Update stores the result of fn", func(t *testing.T) {
		ctx := context.Background()
		repo := newRepo(t)
		require.NoError(t, repo.Create(ctx, session.New("s1", session.ModePVP, bot.Hard, createdAt)))

		updated, err := repo.Update(ctx, "s1", func(s *session.Session) error {
			return s.Play(0, 0)
		})
		require.NoError(t, err)
		assert.Equal(t, game.PlayerX, updated.Game.Board[0][0])

		stored, err := repo.FindByID(ctx, "s1")
		require.NoError(t, err)
		assert.Equal(t, updated, stored)
	})

	t.Run("Update error leaves the session untouched", func(t *testing.T) {
		ctx := context.Background()
		repo := newRepo(t)
		require.NoError(t, repo.Create(ctx, session.New("s1", session.ModePVP, bot.Hard, createdAt)))
		boom := errors.New("boom")

		_, err := repo.Update(ctx, "s1", func(s *session.Session) error {
			_ = s.Play(0, 0)
			return boom
		})
		require.ErrorIs(t, err, boom)

		stored, err := repo.FindByID(ctx, "s1")
		require.NoError(t, err)
		assert.Equal(t, game.Board{}, stored.Game.Board)
	})

	t.Run("Update not found", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.Update(context.Background(), "missing", func(*session.Session) error { return nil })
		require.ErrorIs(t, err, ErrSessionNotFound)
	})

	t.Run("Concurrent updates are serialized", func(t *testing.T) {
		ctx := context.Background()
		repo := newRepo(t)
		require.NoError(t, repo.Create(ctx, session.New("s1", session.ModePVP, bot.Hard, createdAt)))

		var wg sync.WaitGroup
		for i := 0; i < 3; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, _ = repo.Update(ctx, "s1", func(s *session.Session) error {
					s.Score.Draw++
					return nil
				})
			}()
		}
		wg.Wait()

		stored, err := repo.FindByID(ctx, "s1")
		require.NoError(t, err)
		assert.Equal(t, 3, stored.Score.Draw)
	})

	t.Run("Delete", func(t *testing.T) {
		ctx := context.Background()
		repo := newRepo(t)
		require.NoError(t, repo.Create(ctx, session.New("s1", session.ModePVP, bot.Hard, createdAt)))

		require.NoError(t, repo.Delete(ctx, "s1"))

		_, err := repo.FindByID(ctx, "s1")
		require.ErrorIs(t, err, ErrSessionNotFound)
		require.ErrorIs(t, repo.Delete(ctx, "s1"), ErrSessionNotFound)
	})
}

func TestMemorySessionRepository_Expiry(t *testing.T) {
	ctx := context.Background()
	clock := createdAt
	repo := &memorySessionRepository{
		sessions: make(map[string]memoryEntry),
		ttl:      time.Minute,
		now:      func() time.Time { return clock },
	}
	require.NoError(t, repo.Create(ctx, session.New("s1", session.ModeAI, bot.Hard, createdAt)))

	clock = clock.Add(30 * time.Second)
	_, err := repo.Update(ctx, "s1", func(s *session.Session) error { return s.Play(0, 0) })
	require.NoError(t, err)

	// Updates push the expiry out again.
	clock = clock.Add(45 * time.Second)
	_, err = repo.FindByID(ctx, "s1")
	require.NoError(t, err)

	clock = clock.Add(time.Minute)
	_, err = repo.FindByID(ctx, "s1")
	require.ErrorIs(t, err, ErrSessionNotFound)
}

func TestMemorySessionRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewMemorySessionRepository(time.Hour)
	s := session.New("s1", session.ModePVP, bot.Hard, createdAt)
	require.NoError(t, repo.Create(ctx, s))

	// Mutating the caller's copy must not reach the store.
	s.Game.Board[0][0] = game.PlayerO

	got, err := repo.FindByID(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, game.None, got.Game.Board[0][0])
}
