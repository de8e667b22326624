package security

// Session cookie name and the keys stored inside the session.
const (
	SessionName = "birding-session"

	sessionKeyUserID = "user_id"
	sessionKeyEmail  = "email"
)
