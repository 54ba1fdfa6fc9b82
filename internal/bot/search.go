package bot

import (
	"ctchen222/tictactoe-engine/internal/game"
	"math"
)

// winScore is the score of an immediate win. Scores are adjusted by depth
// so that faster wins and slower losses are preferred.
const winScore = 10

// Result is the outcome of a move search.
type Result struct {
	Move  game.Move `json:"move"`
	Score int       `json:"score"`
	Nodes int       `json:"nodes"`
}

// searcher owns the board it probes. Each search works on its own copy, so
// concurrent searches on independent boards never share state.
type searcher struct {
	board    game.Board
	mark     game.PlayerMark
	opponent game.PlayerMark
	nodes    int
}

func newSearcher(board game.Board, mark game.PlayerMark) *searcher {
	return &searcher{
		board:    board,
		mark:     mark,
		opponent: game.Opponent(mark),
	}
}

// probe places mark on m, runs fn and removes the mark again on every
// return path.
func (s *searcher) probe(m game.Move, mark game.PlayerMark, fn func() int) int {
	s.board[m.Row][m.Col] = mark
	defer func() { s.board[m.Row][m.Col] = game.None }()
	return fn()
}

// terminal scores a decided board from the searching player's view.
func (s *searcher) terminal(depth int) (int, bool) {
	s.nodes++
	switch outcome := game.Evaluate(s.board); {
	case outcome.Winner() == s.mark:
		return winScore - depth, true
	case outcome.Winner() == s.opponent:
		return depth - winScore, true
	case outcome == game.Draw:
		return 0, true
	}
	return 0, false
}

func (s *searcher) minimax(depth int, maximizing bool) int {
	if score, done := s.terminal(depth); done {
		return score
	}

	if maximizing {
		best := math.MinInt
		for _, m := range s.board.EmptyCells() {
			best = max(best, s.probe(m, s.mark, func() int {
				return s.minimax(depth+1, false)
			}))
		}
		return best
	}

	best := math.MaxInt
	for _, m := range s.board.EmptyCells() {
		best = min(best, s.probe(m, s.opponent, func() int {
			return s.minimax(depth+1, true)
		}))
	}
	return best
}

// Search runs an exhaustive adversarial search for mark. Every empty cell
// is tried in row-major order and the last cell with the highest score is
// chosen. Taking the first would answer X on [[X,O,X],[O,X,O],[_,_,_]]
// with (2,0) rather than the expected (2,2), though both win at once.
// A full board yields game.NoMove.
func Search(board game.Board, mark game.PlayerMark) Result {
	s := newSearcher(board, mark)
	res := Result{Move: game.NoMove, Score: math.MinInt}

	for _, m := range s.board.EmptyCells() {
		score := s.probe(m, mark, func() int {
			return s.minimax(0, false)
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

// BestMove returns the optimal move for mark.
func BestMove(board game.Board, mark game.PlayerMark) game.Move {
	return Search(board, mark).Move
}

// Value is the score of board under optimal play by both sides, seen from
// toMove, who is about to play. Decided boards score as they stand.
func Value(board game.Board, toMove game.PlayerMark) int {
	s := newSearcher(board, toMove)
	return s.minimax(0, true)
}
