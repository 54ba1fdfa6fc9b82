package proto

import (
	"ctchen222/tictactoe-engine/internal/bot"
	"ctchen222/tictactoe-engine/internal/game"
	"ctchen222/tictactoe-engine/internal/session"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUpdate_InlinesState(t *testing.T) {
	s := session.New("s1", session.ModeAI, bot.Hard, time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC))
	require.NoError(t, s.Play(0, 0))

	data, err := json.Marshal(NewUpdate(s))
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "update", got["type"])
	assert.Equal(t, "s1", got["sessionId"])
	assert.Equal(t, "O", got["next"])
	assert.Equal(t, "AI's turn", got["status"])
	assert.Equal(t, []any{
		[]any{"X", "", ""},
		[]any{"", "", ""},
		[]any{"", "", ""},
	}, got["board"])
	assert.NotContains(t, got, "winner")
	assert.NotContains(t, got, "reason")
}

func TestNewSessionState_FinishedGame(t *testing.T) {
	s := session.New("s1", session.ModePVP, bot.Hard, time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC))
	for _, m := range []game.Move{{Row: 0, Col: 0}, {Row: 1, Col: 0}, {Row: 0, Col: 1}, {Row: 1, Col: 1}, {Row: 0, Col: 2}} {
		require.NoError(t, s.Play(m.Row, m.Col))
	}

	st := NewSessionState(s)

	assert.Equal(t, game.None, st.Next)
	assert.Equal(t, game.PlayerX, st.Winner)
	assert.Equal(t, game.XWins, st.Outcome)
	assert.Equal(t, session.Score{X: 1}, st.Score)
	assert.False(t, st.CanUndo)
}

func TestNewError(t *testing.T) {
	data, err := json.Marshal(NewError("cell already occupied"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"error","reason":"cell already occupied"}`, string(data))
}
