package services

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"pencilpost/internal/apiclient"
	"pencilpost/internal/errs"
	"pencilpost/internal/session"
)

type AuthService struct {
	api AuthAPI
	now func() time.Time
}

func NewAuthService(api AuthAPI) *AuthService {
	return &AuthService{api: api, now: time.Now}
}

// Login exchanges credentials for a token. Blank fields fail locally.
func (s *AuthService) Login(ctx context.Context, username, password string) (*apiclient.LoginResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, errs.Auth("Username and password are required")
	}
	res, err := s.api.Login(ctx, apiclient.Credentials{Username: username, Password: password})
	if err != nil {
		log.Info().Err(err).Str("username", username).Msg("admin login rejected")
		return nil, err
	}
	log.Info().Str("username", username).Msg("admin logged in")
	return res, nil
}

// Check validates a stored token. A JWT whose exp has passed is rejected
// without contacting the API.
func (s *AuthService) Check(ctx context.Context, token string) error {
	if token == "" {
		return errs.Auth("")
	}
	if session.TokenExpired(token, s.now()) {
		return errs.Auth("Session expired")
	}
	return s.api.Verify(ctx, token)
}
