package server

import (
	"context"
	"ctchen222/tictactoe-engine/internal/api/response"
	"ctchen222/tictactoe-engine/internal/repository"
	"ctchen222/tictactoe-engine/internal/session"
	"ctchen222/tictactoe-engine/internal/validator"
	"ctchen222/tictactoe-engine/pkg/proto"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	maxMessageSize = 512
	writeWait      = 10 * time.Second
)

// Connection is the part of a websocket connection the session loop uses.
type Connection interface {
	WriteMessage(messageType int, data []byte) error
	ReadMessage() (int, []byte, error)
	Close() error
}

// handleWebSocket upgrades the connection and plays the session over it
// until the client goes away.
func (s *Server) handleWebSocket(c *gin.Context) {
	id := c.Param("id")
	ctx, span := tracer.Start(c.Request.Context(), "server.handleWebSocket", trace.WithAttributes(
		attribute.String("session.id", id),
	))
	defer span.End()

	// Fail before the upgrade so the client gets a plain HTTP error.
	if _, err := s.sessions.Get(ctx, id); err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			response.ErrorResponse(c, http.StatusNotFound, err.Error())
			return
		}
		slog.ErrorContext(ctx, "failed to load session", "session.id", id, "error", err)
		response.ErrorResponse(c, http.StatusInternalServerError, "internal server error")
		return
	}

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.WarnContext(ctx, "Failed to upgrade connection", "session.id", id, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to upgrade connection")
		return
	}
	conn.SetReadLimit(maxMessageSize)

	s.serveSession(ctx, id, &deadlineConn{Conn: conn})
}

// deadlineConn bounds every write so a stalled client cannot block the loop.
type deadlineConn struct {
	*websocket.Conn
}

func (d *deadlineConn) WriteMessage(messageType int, data []byte) error {
	if err := d.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return d.Conn.WriteMessage(messageType, data)
}

// serveSession reads client messages and answers each with one update, or
// two when the AI replies to a move. Only this loop writes to conn.
func (s *Server) serveSession(ctx context.Context, id string, conn Connection) {
	defer conn.Close()

	sess, err := s.sessions.Get(ctx, id)
	if err != nil {
		s.send(ctx, conn, proto.NewError(err.Error()))
		return
	}
	if !s.send(ctx, conn, proto.NewUpdate(sess)) {
		return
	}

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.WarnContext(ctx, "Session connection error", "session.id", id, "error", err)
			}
			return
		}

		var msg proto.ClientToServerMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			slog.WarnContext(ctx, "error unmarshalling message", "session.id", id, "error", err)
			if !s.send(ctx, conn, proto.NewError("malformed message")) {
				return
			}
			continue
		}
		if err := validator.GetValidator().Struct(msg); err != nil {
			slog.WarnContext(ctx, "invalid message from client", "session.id", id, "error", err)
			if !s.send(ctx, conn, proto.NewError(err.Error())) {
				return
			}
			continue
		}

		if !s.handleMessage(ctx, id, conn, msg) {
			return
		}
	}
}

// handleMessage applies one client message. It returns false once the
// connection can no longer be written to.
func (s *Server) handleMessage(ctx context.Context, id string, conn Connection, msg proto.ClientToServerMessage) bool {
	ctx, span := tracer.Start(ctx, "server.handleMessage", trace.WithAttributes(
		attribute.String("session.id", id),
		attribute.String("message.type", msg.Type),
	))
	defer span.End()

	var (
		sess *session.Session
		err  error
	)
	switch msg.Type {
	case proto.TypeMove:
		if len(msg.Position) != 2 {
			return s.send(ctx, conn, proto.NewError("move needs a position"))
		}
		sess, err = s.sessions.Play(ctx, id, msg.Position[0], msg.Position[1])
	case proto.TypeUndo:
		sess, err = s.sessions.Undo(ctx, id)
	case proto.TypeRestart:
		sess, err = s.sessions.Restart(ctx, id)
	}
	if err != nil {
		span.RecordError(err)
		return s.send(ctx, conn, proto.NewError(err.Error()))
	}
	if !s.send(ctx, conn, proto.NewUpdate(sess)) {
		return false
	}

	if !sess.AwaitingAI() {
		return true
	}
	sess, err = s.sessions.Respond(ctx, id)
	if err != nil {
		span.RecordError(err)
		return s.send(ctx, conn, proto.NewError(err.Error()))
	}
	return s.send(ctx, conn, proto.NewUpdate(sess))
}

func (s *Server) send(ctx context.Context, conn Connection, message proto.ServerToClientMessage) bool {
	data, err := json.Marshal(message)
	if err != nil {
		slog.ErrorContext(ctx, "error marshalling message", "error", err)
		return false
	}
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		slog.WarnContext(ctx, "error writing message to client", "message.type", message.Type, "error", err)
		return false
	}
	return true
}
