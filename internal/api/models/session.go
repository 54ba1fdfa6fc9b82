package models

import "ctchen222/tictactoe-engine/pkg/proto"

// CreateSessionRequest defines the structure for starting a session.
type CreateSessionRequest struct {
	Mode       string `json:"mode" binding:"required"`
	Difficulty string `json:"difficulty"`
}

// CreateSessionResponse returns the new session with the token that
// grants access to it.
type CreateSessionResponse struct {
	Token   string              `json:"token"`
	Session *proto.SessionState `json:"session"`
}

// MoveRequest defines the structure for playing a move. Pointers tell a
// missing coordinate apart from zero.
type MoveRequest struct {
	Row *int `json:"row" binding:"required"`
	Col *int `json:"col" binding:"required"`
}

// ModeRequest switches the session between "ai" and "pvp".
type ModeRequest struct {
	Mode string `json:"mode" binding:"required"`
}

// DifficultyRequest sets the AI strength.
type DifficultyRequest struct {
	Difficulty string `json:"difficulty" binding:"required"`
}
