package domain

import (
	"strings"
	"sync"

	"github.com/golang-jwt/jwt"
)

const emailClaim = "email"

// Session is the authenticated identity every scoped operation runs for.
// It's initialized at sign-in and cleared at sign-out.
type Session struct {
	lock  sync.RWMutex
	email string
	token string
}

func NewSession() *Session {
	return &Session{}
}

// Init starts a session for the given access token. The email is read from
// the token claims without verifying the signature, which is the server's
// job.
func (s *Session) Init(accessToken string) error {
	claims := jwt.MapClaims{}
	if _, _, err := new(jwt.Parser).ParseUnverified(accessToken, claims); err != nil {
		return err
	}
	email, _ := claims[emailClaim].(string)
	if email == "" {
		return ErrMissingEmailClaim
	}
	return s.InitWithEmail(email, accessToken)
}

// InitWithEmail starts a session for the given identity.
func (s *Session) InitWithEmail(email, accessToken string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return ErrMissingEmail
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	s.email = email
	s.token = accessToken
	return nil
}

// Clear ends the session.
func (s *Session) Clear() {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.email = ""
	s.token = ""
}

// Email returns the identity of the session or ErrNoActiveSession.
func (s *Session) Email() (string, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	if s.email == "" {
		return "", ErrNoActiveSession
	}
	return s.email, nil
}

// AccessToken returns the bearer token of the session, if any.
func (s *Session) AccessToken() string {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return s.token
}
