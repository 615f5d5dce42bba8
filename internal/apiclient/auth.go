package apiclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"pencilpost/internal/errs"
	"pencilpost/internal/models"
)

// Credentials is the body of POST /auth/login.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResult is what a successful login yields.
type LoginResult struct {
	Token string
	User  models.AdminUser
}

type loginResponse struct {
	Success bool             `json:"success"`
	Message string           `json:"message"`
	Token   string           `json:"token"`
	User    models.AdminUser `json:"user"`
}

// Login exchanges credentials for a bearer token. Rejected credentials
// surface as errs.ErrAuth carrying the server's message.
func (c *Client) Login(ctx context.Context, creds Credentials) (*LoginResult, error) {
	var resp loginResponse
	err := c.do(ctx, request{method: http.MethodPost, path: "/auth/login", body: creds}, &resp)
	if err != nil {
		var apiErr *errs.APIError
		// A 400 from the login endpoint means bad credentials, not a form problem.
		if errors.As(err, &apiErr) && errors.Is(err, errs.ErrValidation) {
			return nil, errs.Auth(apiErr.Message)
		}
		return nil, fmt.Errorf("login: %w", err)
	}
	if !resp.Success || resp.Token == "" {
		msg := resp.Message
		if msg == "" {
			msg = "Login failed"
		}
		return nil, errs.Auth(msg)
	}
	return &LoginResult{Token: resp.Token, User: resp.User}, nil
}

// Verify checks a token with one round trip to GET /admin/verify.
func (c *Client) Verify(ctx context.Context, token string) error {
	if token == "" {
		return errs.Auth("")
	}
	var env envelope[any]
	if err := c.do(ctx, request{method: http.MethodGet, path: "/admin/verify", token: token}, &env); err != nil {
		return fmt.Errorf("verify token: %w", err)
	}
	if env.Success != nil && !*env.Success {
		return errs.Auth(env.Message)
	}
	return nil
}
