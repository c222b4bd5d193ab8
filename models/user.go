package models

import "time"

// AnonymousUserID is the owner id used for lists created before login.
const AnonymousUserID int64 = 0

// User identifies the owner of a dataset. A zero-valued user represents the
// anonymous, pre-login state.
type User struct {
	ID    int64  `json:"id"`
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
}

// LoggedIn reports whether the user has a server-side identity.
func (u User) LoggedIn() bool {
	return u.ID > AnonymousUserID
}

// Session is the authentication state shared by all requests. It is created
// anonymously at SDK init, replaced on login/logout, and refreshed in place
// when the server signals expiry.
type Session struct {
	Token   string    `json:"token"`
	Expires Timestamp `json:"expires"`
	User    User      `json:"user"`
}

// Expired reports whether the token should be treated as stale. A small
// margin avoids using a token that expires mid-request.
func (s Session) Expired() bool {
	if s.Token == "" {
		return true
	}
	return time.Until(s.Expires.Time) < 30*time.Second
}
