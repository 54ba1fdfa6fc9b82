package controller

import (
	"context"
	"ctchen222/tictactoe-engine/internal/api/response"
	"ctchen222/tictactoe-engine/internal/bot"
	"ctchen222/tictactoe-engine/internal/game"
	"ctchen222/tictactoe-engine/internal/repository"
	"ctchen222/tictactoe-engine/internal/service"
	"ctchen222/tictactoe-engine/internal/session"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// toError maps a domain error onto the HTTP error envelope.
func toError(err error) response.Error {
	switch {
	case errors.Is(err, repository.ErrSessionNotFound):
		return response.NewError(false, http.StatusNotFound, err.Error())
	case errors.Is(err, repository.ErrConflict),
		errors.Is(err, session.ErrGameOver),
		errors.Is(err, session.ErrNotYourTurn),
		errors.Is(err, session.ErrNothingToUndo),
		errors.Is(err, game.ErrCellOccupied):
		return response.NewError(false, http.StatusConflict, err.Error())
	case errors.Is(err, game.ErrOutOfBounds),
		errors.Is(err, game.ErrInvalidBoard),
		errors.Is(err, game.ErrInvalidMark),
		errors.Is(err, session.ErrUnknownMode),
		errors.Is(err, bot.ErrUnknownDifficulty),
		errors.Is(err, service.ErrUnknownAlgorithm):
		return response.NewError(false, http.StatusBadRequest, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return response.NewError(false, http.StatusServiceUnavailable, "request cancelled")
	default:
		return response.NewError(false, http.StatusInternalServerError, "internal server error")
	}
}

func respondError(c *gin.Context, err error) {
	e := toError(err)
	if e.Code == http.StatusInternalServerError {
		slog.ErrorContext(c.Request.Context(), "request failed", "http.route", c.FullPath(), "error", err)
	}
	response.ErrorResponse(c, e.Code, e.Error())
}
