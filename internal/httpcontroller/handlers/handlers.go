package handlers

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/labstack/echo/v4"

	"github.com/birdlog/birding-go/internal/conf"
	"github.com/birdlog/birding-go/internal/datastore"
	"github.com/birdlog/birding-go/internal/errors"
	"github.com/birdlog/birding-go/internal/security"
)

// UserContextKey is the echo context key holding the authenticated identity.
const UserContextKey = "birding-user"

// Handlers contains all the handler functions and their dependencies
type Handlers struct {
	baseHandler
	DS       datastore.Interface
	Settings *conf.Settings
	Sessions *security.Manager
	debug    bool
}

// HandlerError is a custom error type that includes an HTTP status code and a user-friendly message.
type HandlerError struct {
	Err     error
	Message string
	Code    int
}

// Error implements the error interface for HandlerError.
func (e *HandlerError) Error() string {
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

// baseHandler provides common functionality for all handlers.
type baseHandler struct {
	logger *log.Logger
}

// NewHandlerError creates a new HandlerError with the given parameters.
func (bh *baseHandler) NewHandlerError(err error, message string, code int) *HandlerError {
	handlerErr := &HandlerError{
		Err:     err,
		Message: message,
		Code:    code,
	}
	bh.logError(handlerErr)
	return handlerErr
}

// logError logs an error message.
func (bh *baseHandler) logError(err *HandlerError) {
	bh.logger.Printf("Error: %s (Code: %d, Underlying error: %v)", err.Message, err.Code, err.Err)
}

// New creates a new Handlers instance with the given dependencies.
func New(ds datastore.Interface, settings *conf.Settings, sessions *security.Manager, logger *log.Logger) *Handlers {
	if logger == nil {
		logger = log.New(os.Stderr, "ERROR: ", log.Ldate|log.Ltime|log.Lshortfile)
	}

	return &Handlers{
		baseHandler: baseHandler{
			logger: logger,
		},
		DS:       ds,
		Settings: settings,
		Sessions: sessions,
		debug:    settings.Debug,
	}
}

// WithErrorHandling wraps an Echo handler function with error handling.
func (h *Handlers) WithErrorHandling(fn func(echo.Context) error) echo.HandlerFunc {
	return func(c echo.Context) error {
		err := fn(c)
		if err != nil {
			return h.HandleError(err, c)
		}
		return nil
	}
}

// HandleError turns an error into a JSON response. Handler errors carry
// their own status code; datastore errors map through their category.
func (h *Handlers) HandleError(err error, c echo.Context) error {
	var he *HandlerError
	if !errors.As(err, &he) {
		he = h.NewHandlerError(err, httpMessageFor(err), h.mapCategoryToHTTPStatus(errors.Category(err)))
	}

	body := map[string]any{
		"error": he.Message,
	}
	// Underlying errors stay out of responses unless debug mode is on.
	if h.debug && he.Err != nil {
		body["detail"] = he.Err.Error()
	}
	return c.JSON(he.Code, body)
}

// mapCategoryToHTTPStatus maps an error category to an HTTP status code.
// Validation failures respond 404, matching the behavior clients of this
// application already rely on.
func (h *Handlers) mapCategoryToHTTPStatus(category errors.ErrorCategory) int {
	switch category {
	case errors.CategoryValidation:
		return http.StatusNotFound
	case errors.CategoryNotFound:
		return http.StatusNotFound
	case errors.CategoryConflict:
		return http.StatusConflict
	case errors.CategoryDatabase:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// httpMessageFor picks the user-facing message for a datastore error.
func httpMessageFor(err error) string {
	switch errors.Category(err) {
	case errors.CategoryValidation:
		return "Input is invalid!"
	case errors.CategoryNotFound:
		return "Sorry, we cannot find that!"
	case errors.CategoryConflict:
		return "That already exists."
	case errors.CategoryDatabase:
		return "Service temporarily unavailable."
	default:
		return "Something went wrong."
	}
}

// RequireAuth gates a route on a resolved session identity. Unauthenticated
// requests are redirected to the login page, not rejected with an error.
func (h *Handlers) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user := h.Sessions.CurrentUser(c)
		if user == nil {
			return c.Redirect(http.StatusFound, "/login")
		}
		c.Set(UserContextKey, user)
		return next(c)
	}
}

// currentUser returns the identity stored by RequireAuth, falling back to
// resolving the session directly for routes without the middleware.
func (h *Handlers) currentUser(c echo.Context) *security.UserSession {
	if user, ok := c.Get(UserContextKey).(*security.UserSession); ok {
		return user
	}
	return h.Sessions.CurrentUser(c)
}
