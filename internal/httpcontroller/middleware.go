package httpcontroller

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// configureMiddleware sets up middleware for the server.
func (s *Server) configureMiddleware() {
	// Method override must rewrite the verb before routing happens.
	s.Echo.Pre(s.MethodOverrideMiddleware())

	s.Echo.Use(middleware.Recover())
	s.Echo.Use(s.RequestLoggerMiddleware())
	s.Echo.Use(middleware.Gzip())
}

// MethodOverrideMiddleware lets HTML forms issue PUT and DELETE through a
// _method form field, the verbs the note edit and logout flows use.
func (s *Server) MethodOverrideMiddleware() echo.MiddlewareFunc {
	return middleware.MethodOverrideWithConfig(middleware.MethodOverrideConfig{
		Getter: middleware.MethodFromForm("_method"),
	})
}

// RequestLoggerMiddleware logs each request to the web log with a short
// request id.
func (s *Server) RequestLoggerMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			requestID := c.Request().Header.Get(echo.HeaderXRequestID)
			if requestID == "" {
				requestID = uuid.New().String()[:8]
				c.Request().Header.Set(echo.HeaderXRequestID, requestID)
			}

			start := time.Now()
			err := next(c)

			if s.webLogger != nil {
				s.webLogger.LogAttrs(c.Request().Context(), slog.LevelInfo, "request",
					slog.String("request_id", requestID),
					slog.String("client_ip", c.RealIP()),
					slog.String("method", c.Request().Method),
					slog.String("path", c.Request().URL.Path),
					slog.Int("status", c.Response().Status),
					slog.Duration("duration", time.Since(start)),
				)
			}
			return err
		}
	}
}
