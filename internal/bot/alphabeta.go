package bot

import (
	"ctchen222/tictactoe-engine/internal/game"
	"math"
)

func (s *searcher) alphaBeta(depth int, alpha, beta int, maximizing bool) int {
	if score, done := s.terminal(depth); done {
		return score
	}

	if maximizing {
		best := math.MinInt
		for _, m := range s.board.EmptyCells() {
			best = max(best, s.probe(m, s.mark, func() int {
				return s.alphaBeta(depth+1, alpha, beta, false)
			}))
			alpha = max(alpha, best)
			if alpha >= beta {
				break
			}
		}
		return best
	}

	best := math.MaxInt
	for _, m := range s.board.EmptyCells() {
		best = min(best, s.probe(m, s.opponent, func() int {
			return s.alphaBeta(depth+1, alpha, beta, true)
		}))
		beta = min(beta, best)
		if alpha >= beta {
			break
		}
	}
	return best
}

// SearchAlphaBeta is Search with alpha-beta pruning. Root children are
// searched with a lower bound just below the best score so far, which keeps
// ties exact; the chosen move and its score match Search on every board.
func SearchAlphaBeta(board game.Board, mark game.PlayerMark) Result {
	s := newSearcher(board, mark)
	res := Result{Move: game.NoMove, Score: math.MinInt}

	for _, m := range s.board.EmptyCells() {
		score := s.probe(m, mark, func() int {
			return s.alphaBeta(0, tieBound(res.Score), math.MaxInt, false)
		})
		if score >= res.Score {
			res.Score = score
			res.Move = m
		}
	}

	if res.Move.IsNone() {
		res.Score = 0
	}
	res.Nodes = s.nodes
	return res
}

// BestMoveAlphaBeta returns the same move as BestMove while visiting fewer
// positions.
func BestMoveAlphaBeta(board game.Board, mark game.PlayerMark) game.Move {
	return SearchAlphaBeta(board, mark).Move
}

func tieBound(best int) int {
	if best == math.MinInt {
		return best
	}
	return best - 1
}
