// internal/httpcontroller/server.go
package httpcontroller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/birdlog/birding-go/internal/conf"
	"github.com/birdlog/birding-go/internal/datastore"
	"github.com/birdlog/birding-go/internal/httpcontroller/handlers"
	"github.com/birdlog/birding-go/internal/logging"
	"github.com/birdlog/birding-go/internal/security"
)

// Server encapsulates the Echo server and related configuration.
type Server struct {
	Echo     *echo.Echo
	DS       datastore.Interface
	Settings *conf.Settings
	Sessions *security.Manager
	Handlers *handlers.Handlers

	// Structured logger for web operations
	webLogger      *slog.Logger
	webLoggerClose func() error
}

// New initializes a new HTTP server with the given settings and datastore.
func New(settings *conf.Settings, dataStore datastore.Interface) *Server {
	s := &Server{
		Echo:     echo.New(),
		DS:       dataStore,
		Settings: settings,
		Sessions: security.NewManager(settings),
	}

	s.Echo.HideBanner = true

	// Configure an IP extractor
	s.Echo.IPExtractor = echo.ExtractIPFromXFFHeader()

	// Initialize handlers
	s.Handlers = handlers.New(s.DS, s.Settings, s.Sessions, nil)

	s.initializeServer()
	return s
}

// initializeServer configures middleware, logging and routes.
func (s *Server) initializeServer() {
	s.initLogger()
	s.configureMiddleware()
	s.initRoutes()
}

// initLogger sets up the web operations log file.
func (s *Server) initLogger() {
	if !s.Settings.WebServer.Log.Enabled {
		s.webLogger = logging.ForService("webserver")
		return
	}

	logger, closeFn, err := logging.NewFileLogger(s.Settings.WebServer.Log.Path, "webserver", slog.LevelInfo)
	if err != nil {
		logging.Warn("Failed to initialize web log file, falling back to default logger", "error", err)
		s.webLogger = logging.ForService("webserver")
		return
	}
	s.webLogger = logger
	s.webLoggerClose = closeFn
}

// Start begins listening and serving HTTP requests.
func (s *Server) Start() error {
	addr := ":" + s.Settings.WebServer.Port
	if err := s.Echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("HTTP server failed: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server and closes the web log.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.Echo.Shutdown(ctx)
	if s.webLoggerClose != nil {
		if closeErr := s.webLoggerClose(); closeErr != nil && err == nil {
			err = closeErr
		}
	}
	return err
}
