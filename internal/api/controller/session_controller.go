package controller

import (
	"ctchen222/tictactoe-engine/internal/api/models"
	"ctchen222/tictactoe-engine/internal/api/response"
	"ctchen222/tictactoe-engine/internal/bot"
	"ctchen222/tictactoe-engine/internal/service"
	"ctchen222/tictactoe-engine/internal/session"
	"ctchen222/tictactoe-engine/pkg/proto"
	"net/http"

	"github.com/gin-gonic/gin"
)

// TokenIssuer issues the token that grants access to one session.
type TokenIssuer interface {
	Issue(sessionID string) (string, error)
}

// SessionController handles session HTTP requests.
type SessionController struct {
	sessions service.SessionService
	tokens   TokenIssuer
}

// NewSessionController creates a new SessionController.
func NewSessionController(sessions service.SessionService, tokens TokenIssuer) *SessionController {
	return &SessionController{
		sessions: sessions,
		tokens:   tokens,
	}
}

// Create starts a session and returns it with its access token.
func (sc *SessionController) Create(c *gin.Context) {
	var req models.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	mode, err := session.ParseMode(req.Mode)
	if err != nil {
		respondError(c, err)
		return
	}
	difficulty, err := bot.ParseDifficulty(req.Difficulty)
	if err != nil {
		respondError(c, err)
		return
	}

	s, err := sc.sessions.Create(c.Request.Context(), mode, difficulty)
	if err != nil {
		respondError(c, err)
		return
	}

	token, err := sc.tokens.Issue(s.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	response.SuccessResponse(c, models.CreateSessionResponse{
		Token:   token,
		Session: proto.NewSessionState(s),
	})
}

// Get returns the current state of a session.
func (sc *SessionController) Get(c *gin.Context) {
	s, err := sc.sessions.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.SuccessResponse(c, proto.NewSessionState(s))
}

// Play applies the person's move. Against the AI the response already
// includes the AI's reply.
func (sc *SessionController) Play(c *gin.Context) {
	var req models.MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	ctx := c.Request.Context()
	id := c.Param("id")
	if _, err := sc.sessions.Play(ctx, id, *req.Row, *req.Col); err != nil {
		respondError(c, err)
		return
	}

	s, err := sc.sessions.Respond(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	response.SuccessResponse(c, proto.NewSessionState(s))
}

// Undo takes back the last move, or the last exchange against the AI.
func (sc *SessionController) Undo(c *gin.Context) {
	s, err := sc.sessions.Undo(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.SuccessResponse(c, proto.NewSessionState(s))
}

// Restart clears the board and keeps the score.
func (sc *SessionController) Restart(c *gin.Context) {
	s, err := sc.sessions.Restart(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.SuccessResponse(c, proto.NewSessionState(s))
}

// ChangeMode switches between AI and PvP play and restarts the game.
func (sc *SessionController) ChangeMode(c *gin.Context) {
	var req models.ModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	mode, err := session.ParseMode(req.Mode)
	if err != nil {
		respondError(c, err)
		return
	}

	s, err := sc.sessions.ChangeMode(c.Request.Context(), c.Param("id"), mode)
	if err != nil {
		respondError(c, err)
		return
	}
	response.SuccessResponse(c, proto.NewSessionState(s))
}

// SetDifficulty changes the AI strength for the following moves.
func (sc *SessionController) SetDifficulty(c *gin.Context) {
	var req models.DifficultyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	difficulty, err := bot.ParseDifficulty(req.Difficulty)
	if err != nil {
		respondError(c, err)
		return
	}

	s, err := sc.sessions.SetDifficulty(c.Request.Context(), c.Param("id"), difficulty)
	if err != nil {
		respondError(c, err)
		return
	}
	response.SuccessResponse(c, proto.NewSessionState(s))
}
