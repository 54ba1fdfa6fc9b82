package service

import (
	"context"
	"ctchen222/tictactoe-engine/internal/bot"
	"ctchen222/tictactoe-engine/internal/game"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Algorithm selects the search used by EngineService.BestMove.
type Algorithm string

const (
	Minimax   Algorithm = "minimax"
	AlphaBeta Algorithm = "alphabeta"
)

var ErrUnknownAlgorithm = errors.New("unknown search algorithm")

// ParseAlgorithm accepts an algorithm name in any letter case. The empty
// string selects Minimax.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch a := Algorithm(strings.ToLower(strings.TrimSpace(s))); a {
	case Minimax, AlphaBeta:
		return a, nil
	case "":
		return Minimax, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownAlgorithm, s)
	}
}

// EngineService exposes the stateless engine: evaluation and move search
// on a board supplied by the caller.
type EngineService interface {
	Evaluate(ctx context.Context, board game.Board) game.Outcome
	BestMove(ctx context.Context, board game.Board, mark game.PlayerMark, algorithm Algorithm) (bot.Result, error)
	RandomMove(ctx context.Context, board game.Board) game.Move
	// Value scores board for toMove under optimal play by both sides.
	Value(ctx context.Context, board game.Board, toMove game.PlayerMark) (int, error)
}

type engineService struct {
	metrics *instruments
}

// NewEngineService creates a new EngineService.
func NewEngineService() EngineService {
	return &engineService{metrics: newInstruments()}
}

func (e *engineService) Evaluate(ctx context.Context, board game.Board) game.Outcome {
	_, span := tracer.Start(ctx, "EngineService.Evaluate")
	defer span.End()

	outcome := game.Evaluate(board)
	span.SetAttributes(attribute.String("game.outcome", outcome.String()))
	return outcome
}

func (e *engineService) BestMove(ctx context.Context, board game.Board, mark game.PlayerMark, algorithm Algorithm) (bot.Result, error) {
	ctx, span := tracer.Start(ctx, "EngineService.BestMove", trace.WithAttributes(
		attribute.String("bot.algorithm", string(algorithm)),
		attribute.String("bot.mark", string(mark)),
	))
	defer span.End()

	if !mark.Valid() {
		return bot.Result{}, game.ErrInvalidMark
	}

	start := time.Now()
	var res bot.Result
	switch algorithm {
	case AlphaBeta:
		res = bot.SearchAlphaBeta(board, mark)
	case Minimax, "":
		algorithm = Minimax
		res = bot.Search(board, mark)
	default:
		return bot.Result{}, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, algorithm)
	}

	e.metrics.searched(ctx, time.Since(start), metric.WithAttributes(attribute.String("algorithm", string(algorithm))))
	e.metrics.nodesVisited(ctx, res.Nodes, algorithm)
	span.SetAttributes(attribute.Int("bot.search.nodes", res.Nodes), attribute.Int("bot.search.score", res.Score))
	return res, nil
}

func (e *engineService) RandomMove(ctx context.Context, board game.Board) game.Move {
	_, span := tracer.Start(ctx, "EngineService.RandomMove")
	defer span.End()

	return bot.RandomMove(board)
}

func (e *engineService) Value(ctx context.Context, board game.Board, toMove game.PlayerMark) (int, error) {
	_, span := tracer.Start(ctx, "EngineService.Value", trace.WithAttributes(attribute.String("bot.mark", string(toMove))))
	defer span.End()

	if !toMove.Valid() {
		return 0, game.ErrInvalidMark
	}
	return bot.Value(board, toMove), nil
}
