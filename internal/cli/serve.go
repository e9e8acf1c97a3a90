package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/satriahrh/gemchat/internal/api"
	"github.com/satriahrh/gemchat/internal/auth"
	"github.com/satriahrh/gemchat/internal/config"
	"github.com/satriahrh/gemchat/internal/render"
	"github.com/satriahrh/gemchat/internal/websocket"
	"github.com/satriahrh/gemchat/usecase"
)

const shutdownTimeout = 10 * time.Second

type ServeCommand struct {
	CobraCommand *cobra.Command
}

func NewServeCommand() *ServeCommand {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the browser chat widget",
		Long: `Serve the chat widget on PORT. Every browser tab gets its own conversation
over a WebSocket. When CHAT_ACCESS_SECRET is set the socket requires a token
minted with "gemchat token".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			logger, err := newLogger(cfg.LogLevel, zapcore.InfoLevel, "json")
			if err != nil {
				return err
			}
			defer logger.Sync()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return serve(ctx, cfg, logger)
		},
	}

	return &ServeCommand{
		CobraCommand: cmd,
	}
}

// serve runs the web surface until ctx is cancelled or the listener fails
func serve(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	model, err := newLargeLanguageModel(cfg, logger)
	if err != nil {
		return err
	}

	var issuer *auth.TokenIssuer
	if cfg.AccessSecret != "" {
		issuer, err = auth.NewTokenIssuer(cfg.AccessSecret)
		if err != nil {
			return err
		}
	}

	manager := usecase.NewSessionManager(model, cfg.RequestTimeout, logger)
	hub := websocket.NewHub(manager, render.NewMarkdown(), logger)

	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	go hub.Run(hubCtx)

	cleanup := websocket.NewSessionCleanupService(hub, cfg.IdleTimeout, logger)
	cleanup.Start()
	defer cleanup.Stop()

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	api.InitRoutes(e, hub, issuer, logger)

	errCh := make(chan error, 1)
	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	logger.Info("Server started",
		zap.String("port", cfg.Port),
		zap.String("provider", cfg.Provider),
		zap.Bool("tokenRequired", issuer != nil))

	select {
	case err := <-errCh:
		logger.Error("Server failed", zap.Error(err))
		return err
	case <-ctx.Done():
	}

	logger.Info("Server is shutting down...")

	// Close the sockets first so in-flight remote calls are abandoned
	stopHub()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
		return err
	}

	logger.Info("Server exited")
	return nil
}
