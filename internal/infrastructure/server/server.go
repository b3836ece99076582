package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	apihttp "github.com/yearboard/core/internal/adapters/http"
	"github.com/yearboard/core/internal/infrastructure/config"
	"github.com/yearboard/core/internal/infrastructure/database"
	"github.com/yearboard/core/internal/infrastructure/logger"
	"github.com/yearboard/core/internal/ports"
)

// CustomValidator wraps validator for echo.
type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// Server is the sync server.
type Server struct {
	echo   *echo.Echo
	config *config.Config
	log    *logger.Logger
	db     *database.DB
}

// New builds the echo instance with middleware and routes.
func New(cfg *config.Config, log *logger.Logger, db *database.DB, auth ports.AuthService, board ports.BoardRepository) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = &CustomValidator{validator: validator.New()}

	s := &Server{echo: e, config: cfg, log: log.WithComponent("server"), db: db}

	s.setupMiddleware()
	s.setupRoutes(auth, board)

	return s
}

func (s *Server) setupRoutes(auth ports.AuthService, board ports.BoardRepository) {
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/ready", s.readinessCheck)
	if s.config.Metrics.Enabled {
		s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	}

	v1 := s.echo.Group("/api/v1")
	authGroup := v1.Group("/auth")
	boardGroup := v1.Group("/board", s.authMiddleware(auth))

	h := apihttp.NewHandler(auth, board, s.log)
	h.Register(authGroup, boardGroup)
	h.RegisterLogout(v1.Group("/auth", s.authMiddleware(auth)))
}

func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": s.config.App.Name,
		"version": s.config.App.Version,
	})
}

func (s *Server) readinessCheck(c echo.Context) error {
	if err := s.db.HealthCheck(); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"reason": "database unreachable",
		})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ready"})
}

// authMiddleware validates the bearer token and stores its claims on the
// request context.
func (s *Server) authMiddleware(auth ports.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, ports.ErrorResponse{Message: "missing bearer token"})
			}
			claims, err := auth.ValidateToken(token)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, ports.ErrorResponse{Message: "invalid token"})
			}
			c.Set("user", claims)
			return next(c)
		}
	}
}

// Start runs the server until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)

	s.echo.Server.ReadTimeout = s.config.Server.ReadTimeout
	s.echo.Server.WriteTimeout = s.config.Server.WriteTimeout
	s.echo.Server.IdleTimeout = s.config.Server.IdleTimeout

	errCh := make(chan error, 1)
	go func() {
		s.log.Infow("server starting", "addr", addr)
		if err := s.echo.Start(addr); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	s.log.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
