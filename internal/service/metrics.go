package service

import (
	"context"
	"ctchen222/tictactoe-engine/internal/bot"
	"ctchen222/tictactoe-engine/internal/game"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	tracer = otel.Tracer("service")
	meter  = otel.Meter("service")
)

// instruments groups the counters and histograms the services record to.
type instruments struct {
	gamesFinished  metric.Int64Counter
	botMoves       metric.Int64Counter
	searchDuration metric.Float64Histogram
	searchNodes    metric.Int64Histogram
}

func newInstruments() *instruments {
	var (
		in  instruments
		err error
	)
	// Instrument creation only fails on invalid names; a failed instrument
	// falls back to a no-op, so the error is logged and otherwise ignored.
	if in.gamesFinished, err = meter.Int64Counter("session.games_finished",
		metric.WithDescription("Games that reached a win or a draw"),
	); err != nil {
		slog.Warn("failed to create instrument", "instrument", "session.games_finished", "error", err)
	}
	if in.botMoves, err = meter.Int64Counter("bot.moves",
		metric.WithDescription("Moves played by the AI"),
	); err != nil {
		slog.Warn("failed to create instrument", "instrument", "bot.moves", "error", err)
	}
	if in.searchDuration, err = meter.Float64Histogram("bot.search.duration",
		metric.WithDescription("Time spent choosing a move"),
		metric.WithUnit("ms"),
	); err != nil {
		slog.Warn("failed to create instrument", "instrument", "bot.search.duration", "error", err)
	}
	if in.searchNodes, err = meter.Int64Histogram("bot.search.nodes",
		metric.WithDescription("Positions visited by a full search"),
	); err != nil {
		slog.Warn("failed to create instrument", "instrument", "bot.search.nodes", "error", err)
	}
	return &in
}

func (in *instruments) gameFinished(ctx context.Context, outcome game.Outcome) {
	if in.gamesFinished == nil {
		return
	}
	in.gamesFinished.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome.String())))
}

func (in *instruments) botMoved(ctx context.Context, difficulty bot.Difficulty, elapsed time.Duration) {
	attrs := metric.WithAttributes(attribute.String("difficulty", string(difficulty)))
	if in.botMoves != nil {
		in.botMoves.Add(ctx, 1, attrs)
	}
	in.searched(ctx, elapsed, attrs)
}

func (in *instruments) searched(ctx context.Context, elapsed time.Duration, opts ...metric.RecordOption) {
	if in.searchDuration == nil {
		return
	}
	in.searchDuration.Record(ctx, float64(elapsed.Microseconds())/1000, opts...)
}

func (in *instruments) nodesVisited(ctx context.Context, nodes int, algorithm Algorithm) {
	if in.searchNodes == nil {
		return
	}
	in.searchNodes.Record(ctx, int64(nodes), metric.WithAttributes(attribute.String("algorithm", string(algorithm))))
}
