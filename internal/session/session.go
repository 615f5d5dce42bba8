// Package session is the admin credential context. The API token lives in the
// signed session cookie and is handed to the API client explicitly.
package session

import (
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"pencilpost/internal/constants"
	"pencilpost/internal/models"
)

// Session is one visitor's admin credential.
type Session struct {
	store    sessions.Session
	Token    string
	Username string
}

// Load reads the session attached to the request.
func Load(c *gin.Context) *Session {
	store := sessions.Default(c)
	s := &Session{store: store}
	if v, ok := store.Get(constants.SessionKeyToken).(string); ok {
		s.Token = v
	}
	if v, ok := store.Get(constants.SessionKeyUser).(string); ok {
		s.Username = v
	}
	return s
}

// Authenticated reports whether a token is stored.
func (s *Session) Authenticated() bool {
	return s.Token != ""
}

// Begin stores a freshly issued token.
func (s *Session) Begin(token string, user models.AdminUser) error {
	s.Token = token
	s.Username = user.Username
	s.store.Set(constants.SessionKeyToken, token)
	s.store.Set(constants.SessionKeyUser, user.Username)
	return s.store.Save()
}

// End forgets the credential.
func (s *Session) End() error {
	s.Token = ""
	s.Username = ""
	s.store.Delete(constants.SessionKeyToken)
	s.store.Delete(constants.SessionKeyUser)
	return s.store.Save()
}

// Expired reports whether the stored token is a JWT whose exp has passed.
func (s *Session) Expired(now time.Time) bool {
	return TokenExpired(s.Token, now)
}

// AddFlash queues a one-shot message for the next page.
func (s *Session) AddFlash(key, message string) error {
	s.store.AddFlash(message, key)
	return s.store.Save()
}

// Flashes pops the queued messages for key.
func (s *Session) Flashes(key string) []string {
	raw := s.store.Flashes(key)
	if len(raw) == 0 {
		return nil
	}
	_ = s.store.Save()
	out := make([]string, 0, len(raw))
	for _, f := range raw {
		if msg, ok := f.(string); ok {
			out = append(out, msg)
		}
	}
	return out
}

// TokenExpired decodes token as a JWT without verifying it and reports
// whether its exp claim is in the past. Tokens that are not JWTs, or carry no
// exp, are left to the API to judge.
func TokenExpired(token string, now time.Time) bool {
	if token == "" {
		return false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !now.Before(exp.Time)
}

// Attach makes s available to downstream handlers.
func Attach(c *gin.Context, s *Session) {
	c.Set(constants.ContextKeySession, s)
}

// FromContext returns the session placed by Attach, or loads it.
func FromContext(c *gin.Context) *Session {
	if v, ok := c.Get(constants.ContextKeySession); ok {
		if s, ok := v.(*Session); ok {
			return s
		}
	}
	return Load(c)
}
