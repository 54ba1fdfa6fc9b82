package controller

import (
	"ctchen222/tictactoe-engine/internal/api/models"
	"ctchen222/tictactoe-engine/internal/api/response"
	"ctchen222/tictactoe-engine/internal/game"
	"ctchen222/tictactoe-engine/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

// EngineController handles stateless engine requests.
type EngineController struct {
	engine service.EngineService
}

// NewEngineController creates a new EngineController.
func NewEngineController(engine service.EngineService) *EngineController {
	return &EngineController{engine: engine}
}

// Evaluate reports the outcome of the posted board.
func (ec *EngineController) Evaluate(c *gin.Context) {
	var req models.EvaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	board, err := game.BoardFromRows(req.Board)
	if err != nil {
		respondError(c, err)
		return
	}

	ctx := c.Request.Context()
	outcome := ec.engine.Evaluate(ctx, board)
	resp := models.EvaluateResponse{
		Outcome: outcome,
		Winner:  outcome.Winner(),
		Over:    outcome.IsOver(),
	}

	if req.ToMove != "" {
		toMove, err := game.ParseMark(req.ToMove)
		if err != nil {
			respondError(c, err)
			return
		}
		value, err := ec.engine.Value(ctx, board, toMove)
		if err != nil {
			respondError(c, err)
			return
		}
		resp.Value = &value
	}

	response.SuccessResponse(c, resp)
}

// BestMove searches the optimal move for the posted player.
func (ec *EngineController) BestMove(c *gin.Context) {
	var req models.BestMoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	board, err := game.BoardFromRows(req.Board)
	if err != nil {
		respondError(c, err)
		return
	}
	mark, err := game.ParseMark(req.Player)
	if err != nil {
		respondError(c, err)
		return
	}
	algorithm, err := service.ParseAlgorithm(req.Algorithm)
	if err != nil {
		respondError(c, err)
		return
	}

	res, err := ec.engine.BestMove(c.Request.Context(), board, mark, algorithm)
	if err != nil {
		respondError(c, err)
		return
	}

	response.SuccessResponse(c, models.BestMoveResponse{
		Move:      res.Move,
		Available: !res.Move.IsNone(),
		Score:     res.Score,
		Nodes:     res.Nodes,
	})
}

// RandomMove picks a uniformly random empty cell.
func (ec *EngineController) RandomMove(c *gin.Context) {
	var req models.BoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	board, err := game.BoardFromRows(req.Board)
	if err != nil {
		respondError(c, err)
		return
	}

	m := ec.engine.RandomMove(c.Request.Context(), board)
	response.SuccessResponse(c, models.MoveResponse{Move: m, Available: !m.IsNone()})
}
