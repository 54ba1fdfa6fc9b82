package game

import (
	"errors"
)

var ErrGameFinished = errors.New("game already finished")

// Game is a single game between two players on one board. X always moves
// first.
type Game struct {
	Board       Board      `json:"board"`
	CurrentTurn PlayerMark `json:"current_turn"`
	Outcome     Outcome    `json:"outcome"`
}

func NewGame() *Game {
	return &Game{
		CurrentTurn: PlayerX,
		Outcome:     Undecided,
	}
}

// Move places the current player's mark at (row, col), re-evaluates the
// board and hands the turn to the opponent while the game is undecided.
func (g *Game) Move(row, col int) error {
	if g.Outcome.IsOver() {
		return ErrGameFinished
	}

	if err := g.Board.Place(Move{Row: row, Col: col}, g.CurrentTurn); err != nil {
		return err
	}

	g.Outcome = Evaluate(g.Board)
	if !g.Outcome.IsOver() {
		g.CurrentTurn = Opponent(g.CurrentTurn)
	}
	return nil
}

// IsDraw checks if the game is a draw.
func (g *Game) IsDraw() bool {
	return g.Outcome == Draw
}

// Winner returns the winning mark, or None.
func (g *Game) Winner() PlayerMark {
	return g.Outcome.Winner()
}

// Reset clears the board and gives the first move back to X.
func (g *Game) Reset() {
	*g = *NewGame()
}

// Restore replaces the board and turn, recomputing the outcome.
func (g *Game) Restore(b Board, turn PlayerMark) {
	g.Board = b
	g.CurrentTurn = turn
	g.Outcome = Evaluate(b)
}
