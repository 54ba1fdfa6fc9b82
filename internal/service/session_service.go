package service

import (
	"context"
	"ctchen222/tictactoe-engine/internal/bot"
	"ctchen222/tictactoe-engine/internal/game"
	"ctchen222/tictactoe-engine/internal/repository"
	"ctchen222/tictactoe-engine/internal/session"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// MoveCalculator defines the interface for calculating the AI's next move.
type MoveCalculator interface {
	CalculateNextMove(board game.Board, mark game.PlayerMark, difficulty bot.Difficulty) game.Move
}

// SessionService defines the game host operations a client drives.
type SessionService interface {
	Create(ctx context.Context, mode session.Mode, difficulty bot.Difficulty) (*session.Session, error)
	// Get returns the session. A pending AI reply whose Respond was
	// cancelled is applied first.
	Get(ctx context.Context, id string) (*session.Session, error)
	// Play applies the person's move after any pending AI reply. In AI mode
	// the reply to this move comes from Respond.
	Play(ctx context.Context, id string, row, col int) (*session.Session, error)
	// Respond waits the think delay and applies the AI's reply if the AI is
	// to move. Otherwise the session is returned unchanged.
	Respond(ctx context.Context, id string) (*session.Session, error)
	Undo(ctx context.Context, id string) (*session.Session, error)
	Restart(ctx context.Context, id string) (*session.Session, error)
	ChangeMode(ctx context.Context, id string, mode session.Mode) (*session.Session, error)
	SetDifficulty(ctx context.Context, id string, difficulty bot.Difficulty) (*session.Session, error)
}

type sessionService struct {
	repo       repository.SessionRepository
	calculator MoveCalculator
	thinkDelay time.Duration
	metrics    *instruments
	now        func() time.Time
}

// NewSessionService creates a new SessionService.
func NewSessionService(repo repository.SessionRepository, calculator MoveCalculator, thinkDelay time.Duration) SessionService {
	return &sessionService{
		repo:       repo,
		calculator: calculator,
		thinkDelay: thinkDelay,
		metrics:    newInstruments(),
		now:        time.Now,
	}
}

func (s *sessionService) Create(ctx context.Context, mode session.Mode, difficulty bot.Difficulty) (*session.Session, error) {
	ctx, span := tracer.Start(ctx, "SessionService.Create")
	defer span.End()

	sess := session.New(uuid.NewString(), mode, difficulty, s.now().UTC())
	if err := s.repo.Create(ctx, sess); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	span.SetAttributes(attribute.String("session.id", sess.ID))
	slog.InfoContext(ctx, "Session created", "session.id", sess.ID, "session.mode", mode, "session.difficulty", difficulty)
	return sess, nil
}

func (s *sessionService) Get(ctx context.Context, id string) (*session.Session, error) {
	ctx, span := tracer.Start(ctx, "SessionService.Get", trace.WithAttributes(attribute.String("session.id", id)))
	defer span.End()

	sess, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !sess.AwaitingAI() {
		return sess, nil
	}

	// A reply left pending by a cancelled Respond is applied now, without
	// the think delay.
	var r aiReply
	sess, err = s.mutate(ctx, "ApplyAIMove", id, func(sess *session.Session) error {
		return s.reply(sess, &r)
	})
	if err != nil {
		return nil, err
	}
	s.recordReply(ctx, id, r)
	return sess, nil
}

func (s *sessionService) Play(ctx context.Context, id string, row, col int) (*session.Session, error) {
	var (
		r       aiReply
		playErr error
	)
	sess, err := s.mutate(ctx, "Play", id, func(sess *session.Session) error {
		// A reply left pending by a cancelled Respond goes first. It is kept
		// even when the person's move is then rejected.
		if err := s.reply(sess, &r); err != nil {
			return err
		}
		playErr = sess.Play(row, col)
		if r.move.IsNone() {
			return playErr
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.recordReply(ctx, id, r)
	if playErr != nil {
		return nil, playErr
	}
	slog.InfoContext(ctx, "Move played", "session.id", id, "move.row", row, "move.col", col)
	return sess, nil
}

func (s *sessionService) Respond(ctx context.Context, id string) (*session.Session, error) {
	ctx, span := tracer.Start(ctx, "SessionService.Respond", trace.WithAttributes(attribute.String("session.id", id)))
	defer span.End()

	sess, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !sess.AwaitingAI() {
		return sess, nil
	}

	if s.thinkDelay > 0 {
		timer := time.NewTimer(s.thinkDelay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	var r aiReply
	sess, err = s.mutate(ctx, "ApplyAIMove", id, func(sess *session.Session) error {
		// The person may have undone or restarted while the AI was thinking.
		return s.reply(sess, &r)
	})
	if err != nil {
		return nil, err
	}
	s.recordReply(ctx, id, r)
	return sess, nil
}

// aiReply describes the AI move applied inside a repository update.
type aiReply struct {
	move       game.Move
	difficulty bot.Difficulty
	elapsed    time.Duration
}

// reply applies the AI's move when sess is waiting for it. It runs inside
// Update, so r is reset on every attempt.
func (s *sessionService) reply(sess *session.Session, r *aiReply) error {
	*r = aiReply{move: game.NoMove}
	if !sess.AwaitingAI() {
		return nil
	}
	start := time.Now()
	r.difficulty = sess.Difficulty
	r.move = s.calculator.CalculateNextMove(sess.Game.Board, session.AIMark, r.difficulty)
	r.elapsed = time.Since(start)
	return sess.ApplyAIMove(r.move)
}

func (s *sessionService) recordReply(ctx context.Context, id string, r aiReply) {
	if r.move.IsNone() {
		return
	}
	s.metrics.botMoved(ctx, r.difficulty, r.elapsed)
	slog.InfoContext(ctx, "AI moved", "session.id", id, "move.row", r.move.Row, "move.col", r.move.Col, "session.difficulty", r.difficulty)
}

func (s *sessionService) Undo(ctx context.Context, id string) (*session.Session, error) {
	return s.mutate(ctx, "Undo", id, func(sess *session.Session) error {
		return sess.Undo()
	})
}

func (s *sessionService) Restart(ctx context.Context, id string) (*session.Session, error) {
	return s.mutate(ctx, "Restart", id, func(sess *session.Session) error {
		sess.Restart()
		return nil
	})
}

func (s *sessionService) ChangeMode(ctx context.Context, id string, mode session.Mode) (*session.Session, error) {
	return s.mutate(ctx, "ChangeMode", id, func(sess *session.Session) error {
		sess.ChangeMode(mode)
		return nil
	})
}

func (s *sessionService) SetDifficulty(ctx context.Context, id string, difficulty bot.Difficulty) (*session.Session, error) {
	return s.mutate(ctx, "SetDifficulty", id, func(sess *session.Session) error {
		sess.SetDifficulty(difficulty)
		return nil
	})
}

// mutate runs fn through the repository so writers to one session are
// serialized, stamps UpdatedAt and records finished games.
func (s *sessionService) mutate(ctx context.Context, op, id string, fn func(*session.Session) error) (*session.Session, error) {
	ctx, span := tracer.Start(ctx, "SessionService."+op, trace.WithAttributes(attribute.String("session.id", id)))
	defer span.End()

	var finished game.Outcome
	sess, err := s.repo.Update(ctx, id, func(sess *session.Session) error {
		finished = game.Undecided
		wasOver := sess.Game.Outcome.IsOver()
		if err := fn(sess); err != nil {
			return err
		}
		if !wasOver && sess.Game.Outcome.IsOver() {
			finished = sess.Game.Outcome
		}
		sess.UpdatedAt = s.now().UTC()
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	if finished.IsOver() {
		s.metrics.gameFinished(ctx, finished)
		slog.InfoContext(ctx, "Game finished", "session.id", id, "game.outcome", finished, "game.board", sess.Game.Board.String())
	}
	return sess, nil
}
