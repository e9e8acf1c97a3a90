package api

import (
	_ "embed"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/satriahrh/gemchat/internal/auth"
	"github.com/satriahrh/gemchat/internal/websocket"
)

// ServiceName is reported by the health check
const ServiceName = "gemchat"

//go:embed static/index.html
var indexHTML []byte

// InitRoutes initializes all routes.
// When issuer is nil the chat socket is open to anyone who can reach it.
func InitRoutes(e *echo.Echo, hub *websocket.Hub, issuer *auth.TokenIssuer, logger *zap.Logger) {
	// Chat widget
	e.GET("/", func(c echo.Context) error {
		return c.HTMLBlob(http.StatusOK, indexHTML)
	})

	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, HealthResponse{
			Status:  "ok",
			Service: ServiceName,
		})
	})

	e.GET("/ws", func(c echo.Context) error {
		if issuer == nil {
			return websocket.HandleWebSocket(hub, c, "", logger)
		}
		return websocketWithAuth(hub, issuer, c, logger)
	})
}

// websocketWithAuth handles WebSocket connections with JWT authentication.
// Browsers cannot set headers on a socket, so the token may also come from the query string.
func websocketWithAuth(hub *websocket.Hub, issuer *auth.TokenIssuer, c echo.Context, logger *zap.Logger) error {
	token := bearerToken(c.Request().Header.Get("Authorization"))
	if token == "" {
		token = c.QueryParam("token")
	}

	if token == "" {
		logger.Warn("WebSocket connection rejected: missing token")
		return c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "missing_token",
			Message: "Access token is required in the Authorization header or the token query parameter",
		})
	}

	claims, err := issuer.ValidateToken(token)
	if errors.Is(err, auth.ErrInvalidRole) {
		logger.Warn("WebSocket connection rejected: invalid role")
		return c.JSON(http.StatusForbidden, ErrorResponse{
			Error:   "invalid_role",
			Message: "Only chat client tokens are allowed for WebSocket connections",
		})
	}
	if err != nil {
		logger.Warn("WebSocket connection rejected: invalid token", zap.Error(err))
		return c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "invalid_token",
			Message: "Invalid or expired access token",
		})
	}

	logger.Info("WebSocket connection authenticated", zap.String("client", claims.ClientName))

	return websocket.HandleWebSocket(hub, c, claims.ClientName, logger)
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}
