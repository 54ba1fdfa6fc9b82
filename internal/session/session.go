package session

import (
	"ctchen222/tictactoe-engine/internal/bot"
	"ctchen222/tictactoe-engine/internal/game"
	"errors"
	"fmt"
	"time"
)

// Mode selects who plays O.
type Mode string

const (
	ModeAI  Mode = "ai"  // Person vs AI
	ModePVP Mode = "pvp" // Person vs Person on the same device
)

// In AI mode the person always plays X and moves first.
const (
	HumanMark = game.PlayerX
	AIMark    = game.PlayerO
)

var (
	ErrGameOver      = errors.New("game is already over")
	ErrNotYourTurn   = errors.New("it's not your turn")
	ErrNotAITurn     = errors.New("it's not the AI's turn")
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrUnknownMode   = errors.New("unknown game mode")
)

// ParseMode validates a client supplied mode.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeAI, ModePVP:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// Score is the running tally of finished games in a session.
type Score struct {
	X    int `json:"x"`
	O    int `json:"o"`
	Draw int `json:"draw"`
}

// Snapshot is the position before a move, kept for undo.
type Snapshot struct {
	Board game.Board      `json:"board"`
	Turn  game.PlayerMark `json:"turn"`
}

// Session is the state a client device plays against: the current game,
// its undo history and the score across restarts.
type Session struct {
	ID         string         `json:"id"`
	Mode       Mode           `json:"mode"`
	Difficulty bot.Difficulty `json:"difficulty"`
	Game       game.Game      `json:"game"`
	History    []Snapshot     `json:"history"`
	Score      Score          `json:"score"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// New creates a session with an empty board and X to move.
func New(id string, mode Mode, difficulty bot.Difficulty, now time.Time) *Session {
	return &Session{
		ID:         id,
		Mode:       mode,
		Difficulty: difficulty,
		Game:       *game.NewGame(),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Play applies the person's move at (row, col).
func (s *Session) Play(row, col int) error {
	if s.Game.Outcome.IsOver() {
		return ErrGameOver
	}
	if s.Mode == ModeAI && s.Game.CurrentTurn != HumanMark {
		return ErrNotYourTurn
	}
	return s.move(game.Move{Row: row, Col: col})
}

// AwaitingAI reports whether the AI should move next.
func (s *Session) AwaitingAI() bool {
	return s.Mode == ModeAI && !s.Game.Outcome.IsOver() && s.Game.CurrentTurn == AIMark
}

// ApplyAIMove applies the AI's reply. game.NoMove leaves the session as is.
func (s *Session) ApplyAIMove(m game.Move) error {
	if !s.AwaitingAI() {
		return ErrNotAITurn
	}
	if m.IsNone() {
		return nil
	}
	return s.move(m)
}

func (s *Session) move(m game.Move) error {
	before := Snapshot{Board: s.Game.Board, Turn: s.Game.CurrentTurn}
	if err := s.Game.Move(m.Row, m.Col); err != nil {
		return err
	}
	s.History = append(s.History, before)

	switch s.Game.Outcome {
	case game.XWins:
		s.Score.X++
	case game.OWins:
		s.Score.O++
	case game.Draw:
		s.Score.Draw++
	}
	return nil
}

// CanUndo reports whether Undo would succeed.
func (s *Session) CanUndo() bool {
	return !s.Game.Outcome.IsOver() && len(s.History) > 0
}

// Undo takes back the last move. Against the AI it takes back the AI's
// reply together with the person's move, so it is the person's turn again.
func (s *Session) Undo() error {
	if s.Game.Outcome.IsOver() {
		return ErrGameOver
	}
	if len(s.History) == 0 {
		return ErrNothingToUndo
	}

	last := s.pop()
	if s.Mode == ModeAI {
		for last.Turn != HumanMark && len(s.History) > 0 {
			last = s.pop()
		}
	}
	s.Game.Restore(last.Board, last.Turn)
	return nil
}

func (s *Session) pop() Snapshot {
	last := s.History[len(s.History)-1]
	s.History = s.History[:len(s.History)-1]
	return last
}

// Restart clears the board and history. The score is kept.
func (s *Session) Restart() {
	s.Game.Reset()
	s.History = nil
}

// ChangeMode restarts the game in another mode. The score is kept.
func (s *Session) ChangeMode(mode Mode) {
	s.Mode = mode
	s.Restart()
}

// SetDifficulty changes the AI strength for the following AI moves.
func (s *Session) SetDifficulty(d bot.Difficulty) {
	s.Difficulty = d
}

// Status is the line shown above the board.
func (s *Session) Status() string {
	switch s.Game.Outcome {
	case game.Draw:
		return "It's a draw!"
	case game.XWins, game.OWins:
		return fmt.Sprintf("Winner: %s", s.Game.Outcome.Winner())
	}
	if s.Mode == ModeAI {
		if s.Game.CurrentTurn == HumanMark {
			return "Your turn"
		}
		return "AI's turn"
	}
	return fmt.Sprintf("Turn: %s", s.Game.CurrentTurn)
}
