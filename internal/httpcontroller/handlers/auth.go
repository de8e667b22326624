package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/birdlog/birding-go/internal/datastore"
	"github.com/birdlog/birding-go/internal/security"
)

// credentialsRequest is shared by signup and login.
type credentialsRequest struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

// Signup handles POST /signup. A fresh account is created and the client
// is sent to the login page.
func (h *Handlers) Signup(c echo.Context) error {
	req := new(credentialsRequest)
	if err := c.Bind(req); err != nil {
		return h.NewHandlerError(err, "Input is invalid!", http.StatusNotFound)
	}

	email := strings.TrimSpace(req.Email)
	if email == "" || req.Password == "" {
		return h.NewHandlerError(nil, "Email and password are required", http.StatusBadRequest)
	}
	if len(req.Password) < security.MinPasswordLength {
		return h.NewHandlerError(nil, "Password is too short", http.StatusBadRequest)
	}

	hash, err := security.HashPassword(req.Password)
	if err != nil {
		return err
	}

	user := datastore.User{Email: email, Password: hash}
	if err := h.DS.CreateUser(&user); err != nil {
		return err
	}

	return c.Redirect(http.StatusFound, "/login")
}

// Login handles POST /login. Credentials are verified against the stored
// bcrypt hash; a valid pair starts a session and redirects home.
func (h *Handlers) Login(c echo.Context) error {
	req := new(credentialsRequest)
	if err := c.Bind(req); err != nil {
		return h.NewHandlerError(err, "Input is invalid!", http.StatusNotFound)
	}

	user, err := h.DS.GetUserByEmail(req.Email)
	if err != nil {
		if datastore.IsNotFound(err) {
			return h.NewHandlerError(err, "Invalid email or password", http.StatusUnauthorized)
		}
		return err
	}

	ok, err := security.VerifyPassword(user.Password, req.Password)
	if err != nil {
		return err
	}
	if !ok {
		return h.NewHandlerError(nil, "Invalid email or password", http.StatusUnauthorized)
	}

	if err := h.Sessions.SignIn(c, user.ID, user.Email); err != nil {
		return err
	}

	return c.Redirect(http.StatusFound, "/")
}

// LoginStatus handles GET /login and reports whether the request carries a
// valid session.
func (h *Handlers) LoginStatus(c echo.Context) error {
	user := h.Sessions.CurrentUser(c)
	if user == nil {
		return c.JSON(http.StatusOK, map[string]any{"loggedIn": false})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"loggedIn": true,
		"id":       user.ID,
		"email":    user.Email,
	})
}

// Logout handles DELETE /logout. The session cookie is cleared even when
// no session was present.
func (h *Handlers) Logout(c echo.Context) error {
	if err := h.Sessions.SignOut(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusFound, "/")
}
