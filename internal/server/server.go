package server

import (
	"ctchen222/tictactoe-engine/internal/api/controller"
	"ctchen222/tictactoe-engine/internal/api/middleware"
	"ctchen222/tictactoe-engine/internal/auth"
	"ctchen222/tictactoe-engine/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("server")

type Server struct {
	engine   *gin.Engine
	sessions service.SessionService
	upgrader websocket.Upgrader
}

// NewServer wires the HTTP routes and the session websocket onto a gin
// engine.
func NewServer(engineSvc service.EngineService, sessions service.SessionService, tokens *auth.TokenIssuer) *Server {
	s := &Server{
		engine:   gin.New(),
		sessions: sessions,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
	s.engine.Use(gin.Recovery())
	s.registerHandlers(
		controller.NewEngineController(engineSvc),
		controller.NewSessionController(sessions, tokens),
		middleware.RequireSessionToken(tokens),
	)
	return s
}

// Engine returns the gin engine serving every route.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerHandlers(ec *controller.EngineController, sc *controller.SessionController, requireToken gin.HandlerFunc) {
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := s.engine.Group("/api")

	engine := api.Group("/engine")
	engine.POST("/evaluate", ec.Evaluate)
	engine.POST("/best-move", ec.BestMove)
	engine.POST("/random-move", ec.RandomMove)

	api.POST("/sessions", sc.Create)
	sessions := api.Group("/sessions/:id", requireToken)
	sessions.GET("", sc.Get)
	sessions.POST("/moves", sc.Play)
	sessions.POST("/undo", sc.Undo)
	sessions.POST("/restart", sc.Restart)
	sessions.POST("/mode", sc.ChangeMode)
	sessions.POST("/difficulty", sc.SetDifficulty)

	s.engine.GET("/ws/sessions/:id", requireToken, s.handleWebSocket)
}
