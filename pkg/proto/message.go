package proto

import (
	"ctchen222/tictactoe-engine/internal/game"
	"ctchen222/tictactoe-engine/internal/session"
	"time"
)

// Message types exchanged over the session websocket.
const (
	TypeMove    = "move"
	TypeUndo    = "undo"
	TypeRestart = "restart"
	TypeUpdate  = "update"
	TypeError   = "error"
)

// ClientToServerMessage represents a message from the client to the server.
type ClientToServerMessage struct {
	Type     string `json:"type" validate:"required,oneof=move undo restart"`
	Position []int  `json:"position,omitempty" validate:"omitempty,len=2,dive,cell"`
}

// ServerToClientMessage represents a message from the server to the client.
// Updates carry the session state inline.
type ServerToClientMessage struct {
	Type   string `json:"type" validate:"required"`
	Reason string `json:"reason,omitempty"`
	*SessionState
}

// SessionState is the client's view of a session.
type SessionState struct {
	SessionID  string              `json:"sessionId"`
	Mode       session.Mode        `json:"mode"`
	Difficulty string              `json:"difficulty"`
	Board      [][]game.PlayerMark `json:"board"`
	Next       game.PlayerMark     `json:"next,omitempty"`
	Winner     game.PlayerMark     `json:"winner,omitempty"`
	Outcome    game.Outcome        `json:"outcome,omitempty"`
	Status     string              `json:"status"`
	Score      session.Score       `json:"score"`
	CanUndo    bool                `json:"canUndo"`
	UpdatedAt  time.Time           `json:"updatedAt"`
}

// NewSessionState builds the client view of s. Next is empty once the game
// is over.
func NewSessionState(s *session.Session) *SessionState {
	st := &SessionState{
		SessionID:  s.ID,
		Mode:       s.Mode,
		Difficulty: string(s.Difficulty),
		Board:      s.Game.Board.Rows(),
		Winner:     s.Game.Outcome.Winner(),
		Outcome:    s.Game.Outcome,
		Status:     s.Status(),
		Score:      s.Score,
		CanUndo:    s.CanUndo(),
		UpdatedAt:  s.UpdatedAt,
	}
	if !s.Game.Outcome.IsOver() {
		st.Next = s.Game.CurrentTurn
	}
	return st
}

// NewUpdate wraps the state of s in an update message.
func NewUpdate(s *session.Session) ServerToClientMessage {
	return ServerToClientMessage{Type: TypeUpdate, SessionState: NewSessionState(s)}
}

// NewError builds an error message for the client.
func NewError(reason string) ServerToClientMessage {
	return ServerToClientMessage{Type: TypeError, Reason: reason}
}
