package server

import (
	"bytes"
	"ctchen222/tictactoe-engine/internal/auth"
	"ctchen222/tictactoe-engine/internal/bot"
	"ctchen222/tictactoe-engine/internal/repository"
	"ctchen222/tictactoe-engine/internal/service"
	"ctchen222/tictactoe-engine/pkg/proto"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type created struct {
	Extras struct {
		Token   string             `json:"token"`
		Session proto.SessionState `json:"session"`
	} `json:"extras"`
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	sessions := service.NewSessionService(repository.NewMemorySessionRepository(time.Hour), &bot.Calculator{}, 0)
	srv := NewServer(service.NewEngineService(), sessions, auth.NewTokenIssuer("test-secret", time.Hour))

	ts := httptest.NewServer(srv.Engine())
	t.Cleanup(ts.Close)
	return ts
}

func createSession(t *testing.T, ts *httptest.Server, mode string) created {
	t.Helper()
	resp, err := http.Post(ts.URL+"/api/sessions", "application/json", strings.NewReader(`{"mode":"`+mode+`"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var c created
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&c))
	return c
}

func TestServer_Healthz(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServer_SessionRoutesNeedToken(t *testing.T) {
	ts := newTestServer(t)
	first := createSession(t, ts, "ai")
	second := createSession(t, ts, "pvp")

	get := func(id, token string) int {
		req, err := http.NewRequest(http.MethodGet, ts.URL+"/api/sessions/"+id, nil)
		require.NoError(t, err)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		return resp.StatusCode
	}

	assert.Equal(t, http.StatusOK, get(first.Extras.Session.SessionID, first.Extras.Token))
	assert.Equal(t, http.StatusUnauthorized, get(first.Extras.Session.SessionID, ""))
	assert.Equal(t, http.StatusForbidden, get(second.Extras.Session.SessionID, first.Extras.Token))
}

func TestServer_EngineRoutes(t *testing.T) {
	ts := newTestServer(t)

	body := []byte(`{"board":[["O","O",""],["","X",""],["","","X"]],"player":"X"}`)
	resp, err := http.Post(ts.URL+"/api/engine/best-move", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got struct {
		Extras struct {
			Move struct {
				Row int `json:"row"`
				Col int `json:"col"`
			} `json:"move"`
		} `json:"extras"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, 0, got.Extras.Move.Row)
	assert.Equal(t, 2, got.Extras.Move.Col)
}

func dial(t *testing.T, ts *httptest.Server, id, token string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/sessions/" + id + "?token=" + token
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	resp.Body.Close()
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) proto.ServerToClientMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var msg proto.ServerToClientMessage
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestServer_WebSocketAgainstAI(t *testing.T) {
	ts := newTestServer(t)
	c := createSession(t, ts, "ai")
	conn := dial(t, ts, c.Extras.Session.SessionID, c.Extras.Token)

	// Given: the initial state is pushed on connect
	initial := readMessage(t, conn)
	require.Equal(t, proto.TypeUpdate, initial.Type)
	assert.Equal(t, "Your turn", initial.Status)

	// When: the person plays the center
	require.NoError(t, conn.WriteJSON(proto.ClientToServerMessage{Type: proto.TypeMove, Position: []int{1, 1}}))

	// Then: one update shows the move, a second one the AI's reply
	afterMove := readMessage(t, conn)
	require.Equal(t, proto.TypeUpdate, afterMove.Type)
	assert.Equal(t, "AI's turn", afterMove.Status)
	assert.Equal(t, "X", string(afterMove.Board[1][1]))

	afterReply := readMessage(t, conn)
	require.Equal(t, proto.TypeUpdate, afterReply.Type)
	assert.Equal(t, "Your turn", afterReply.Status)
	assert.True(t, afterReply.CanUndo)

	// When: the person plays the occupied center again
	require.NoError(t, conn.WriteJSON(proto.ClientToServerMessage{Type: proto.TypeMove, Position: []int{1, 1}}))
	rejected := readMessage(t, conn)
	assert.Equal(t, proto.TypeError, rejected.Type)
	assert.Contains(t, rejected.Reason, "occupied")

	// When: the exchange is undone
	require.NoError(t, conn.WriteJSON(proto.ClientToServerMessage{Type: proto.TypeUndo}))
	undone := readMessage(t, conn)
	require.Equal(t, proto.TypeUpdate, undone.Type)
	assert.False(t, undone.CanUndo)
	assert.Equal(t, "", string(undone.Board[1][1]))
}

func TestServer_WebSocketRejectsBadMessages(t *testing.T) {
	ts := newTestServer(t)
	c := createSession(t, ts, "pvp")
	conn := dial(t, ts, c.Extras.Session.SessionID, c.Extras.Token)
	readMessage(t, conn)

	for _, raw := range []string{
		`not json`,
		`{"type":"resign"}`,
		`{"type":"move","position":[3,0]}`,
		`{"type":"move"}`,
	} {
		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(raw)))
		msg := readMessage(t, conn)
		assert.Equal(t, proto.TypeError, msg.Type, raw)
		assert.NotEmpty(t, msg.Reason, raw)
	}

	// The connection stays usable.
	require.NoError(t, conn.WriteJSON(proto.ClientToServerMessage{Type: proto.TypeMove, Position: []int{0, 0}}))
	msg := readMessage(t, conn)
	require.Equal(t, proto.TypeUpdate, msg.Type)
	assert.Equal(t, "Turn: O", msg.Status)
}

func TestServer_WebSocketNeedsToken(t *testing.T) {
	ts := newTestServer(t)
	c := createSession(t, ts, "ai")

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/sessions/" + c.Extras.Session.SessionID
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)

	require.ErrorIs(t, err, websocket.ErrBadHandshake)
	require.NotNil(t, resp)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
