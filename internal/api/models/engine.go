package models

import "ctchen222/tictactoe-engine/internal/game"

// BoardRequest carries a board as rows of marks: "X", "O" or "".
type BoardRequest struct {
	Board [][]game.PlayerMark `json:"board" binding:"required"`
}

// EvaluateRequest asks for the outcome of a board. When ToMove is set the
// game-theoretic value for that player is computed as well.
type EvaluateRequest struct {
	Board  [][]game.PlayerMark `json:"board" binding:"required"`
	ToMove string              `json:"toMove"`
}

// BestMoveRequest defines the structure for a move search request.
type BestMoveRequest struct {
	Board     [][]game.PlayerMark `json:"board" binding:"required"`
	Player    string              `json:"player" binding:"required"`
	Algorithm string              `json:"algorithm"`
}

// EvaluateResponse reports the outcome of a board.
type EvaluateResponse struct {
	Outcome game.Outcome    `json:"outcome"`
	Winner  game.PlayerMark `json:"winner,omitempty"`
	Over    bool            `json:"over"`
	Value   *int            `json:"value,omitempty"`
}

// BestMoveResponse reports the chosen move with its score.
type BestMoveResponse struct {
	Move      game.Move `json:"move"`
	Available bool      `json:"available"`
	Score     int       `json:"score"`
	Nodes     int       `json:"nodes"`
}

// MoveResponse reports a move. Available is false on a full board.
type MoveResponse struct {
	Move      game.Move `json:"move"`
	Available bool      `json:"available"`
}
