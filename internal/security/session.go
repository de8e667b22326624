// Package security handles session identity and password digests for the
// web server. The identity travels entirely client-side in a signed cookie,
// there is no server-side session table.
package security

import (
	"crypto/sha256"
	"fmt"
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"

	"github.com/birdlog/birding-go/internal/conf"
)

// UserSession is the authenticated identity resolved from the session cookie.
type UserSession struct {
	ID    uint
	Email string
}

// Manager resolves, establishes and clears session identities.
type Manager struct {
	store    sessions.Store
	settings *conf.Settings
}

// NewManager creates a session manager backed by a signed cookie store. The
// cookie payload is authenticated with a key derived from the configured
// session secret, so a client cannot forge an identity by editing it.
func NewManager(settings *conf.Settings) *Manager {
	store := sessions.NewCookieStore(createSessionKey(settings.Security.SessionSecret))

	maxAge := settings.Security.SessionMaxAge
	if maxAge <= 0 {
		maxAge = 86400 * 7 // 7 days
	}
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	return &Manager{
		store:    store,
		settings: settings,
	}
}

// CurrentUser returns the identity carried by the request's session cookie,
// or nil when the request is unauthenticated. An absent, expired or
// tampered cookie is treated as unauthenticated, never as an error.
func (m *Manager) CurrentUser(c echo.Context) *UserSession {
	session, err := m.store.Get(c.Request(), SessionName)
	if err != nil {
		// Undecodable cookie, treat as logged out
		return nil
	}

	userID, ok := session.Values[sessionKeyUserID].(uint)
	if !ok || userID == 0 {
		return nil
	}
	email, _ := session.Values[sessionKeyEmail].(string)

	return &UserSession{
		ID:    userID,
		Email: email,
	}
}

// SignIn establishes a session for the given user on the response.
func (m *Manager) SignIn(c echo.Context, userID uint, email string) error {
	session, err := m.store.Get(c.Request(), SessionName)
	if err != nil {
		// A stale cookie decodes to an error but still yields a fresh session
		session, _ = m.store.New(c.Request(), SessionName)
	}

	session.Values[sessionKeyUserID] = userID
	session.Values[sessionKeyEmail] = email

	if err := session.Save(c.Request(), c.Response()); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// SignOut clears the session cookie on the response.
func (m *Manager) SignOut(c echo.Context) error {
	// An undecodable cookie still yields a fresh session to expire, so the
	// decode error is ignored and the clear proceeds either way.
	session, _ := m.store.Get(c.Request(), SessionName)

	session.Values = make(map[any]any)
	session.Options.MaxAge = -1

	if err := session.Save(c.Request(), c.Response()); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// createSessionKey creates a key of the proper length for the cookie store
// from a seed string. A SHA-256 hash of the seed yields 32 bytes.
func createSessionKey(seed string) []byte {
	hasher := sha256.New()
	hasher.Write([]byte(seed))
	return hasher.Sum(nil)
}
