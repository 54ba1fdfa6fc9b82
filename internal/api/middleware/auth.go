package middleware

import (
	"ctchen222/tictactoe-engine/internal/api/response"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// TokenVerifier returns the session id a token grants access to.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

const sessionIDKey = "session.id"

// RequireSessionToken admits a request only when its token was issued for
// the session named by the :id path parameter. The token is read from the
// Authorization header, or from the token query parameter for websocket
// upgrades, which cannot set headers from a browser.
func RequireSessionToken(tokens TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c.GetHeader("Authorization"))
		if raw == "" {
			raw = c.Query("token")
		}
		if raw == "" {
			response.AbortWithError(c, http.StatusUnauthorized, "missing session token")
			return
		}

		sessionID, err := tokens.Verify(raw)
		if err != nil {
			slog.WarnContext(c.Request.Context(), "rejected session token", "error", err)
			response.AbortWithError(c, http.StatusUnauthorized, "invalid session token")
			return
		}
		if sessionID != c.Param("id") {
			response.AbortWithError(c, http.StatusForbidden, "token does not grant access to this session")
			return
		}

		c.Set(sessionIDKey, sessionID)
		c.Next()
	}
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
