package backend

import (
	"context"
	"net/http"

	"github.com/hongminglow/sg-web/internal/models"
	"github.com/hongminglow/sg-web/internal/models/dto"
	"github.com/hongminglow/sg-web/internal/session"
)

// Register creates an account and stores the issued session token in store.
func (c *Client) Register(ctx context.Context, store session.Store, in dto.RegisterRequest) (models.User, error) {
	return c.authenticate(ctx, store, "auth.register", "/api/v1/auth/register", in)
}

// Login signs in and stores the issued session token in store.
func (c *Client) Login(ctx context.Context, store session.Store, in dto.LoginRequest) (models.User, error) {
	return c.authenticate(ctx, store, "auth.login", "/api/v1/auth/login", in)
}

func (c *Client) authenticate(ctx context.Context, store session.Store, endpoint, path string, body any) (models.User, error) {
	var out dto.AuthResponse
	err := c.do(ctx, store, call{
		endpoint: endpoint,
		method:   http.MethodPost,
		path:     path,
		body:     body,
		capture:  true,
	}, &out)
	if err != nil {
		return models.User{}, err
	}
	return out.User, nil
}

// Logout tells the backend to end the session and always clears the local cookie.
// Backend and network failures are ignored.
func (c *Client) Logout(ctx context.Context, store session.Store) {
	_ = c.do(ctx, store, call{
		endpoint: "auth.logout",
		method:   http.MethodPost,
		path:     "/api/v1/auth/logout",
	}, nil)
	if store != nil {
		store.Clear()
	}
}

// Session returns the signed-in user. Unlike Me it reports why no user is available, so
// callers can tell a refused session from an unreachable backend.
func (c *Client) Session(ctx context.Context, store session.Store) (models.User, error) {
	var out dto.AuthResponse
	err := c.do(ctx, store, call{
		endpoint:    "auth.me",
		method:      http.MethodGet,
		path:        "/api/v1/auth/me",
		requireAuth: true,
	}, &out)
	if err != nil {
		return models.User{}, err
	}
	return out.User, nil
}

// Me returns the signed-in user, or nil when there is no session or the backend cannot
// answer.
func (c *Client) Me(ctx context.Context, store session.Store) *models.User {
	if !hasToken(store) {
		return nil
	}
	user, err := c.Session(ctx, store)
	if err != nil {
		return nil
	}
	return &user
}

// UpdateProfile changes the display name and email.
func (c *Client) UpdateProfile(ctx context.Context, store session.Store, in dto.ProfileUpdate) (models.User, error) {
	var out dto.AuthResponse
	err := c.do(ctx, store, call{
		endpoint:    "auth.profile",
		method:      http.MethodPatch,
		path:        "/api/v1/auth/profile",
		body:        in,
		requireAuth: true,
	}, &out)
	if err != nil {
		return models.User{}, err
	}
	return out.User, nil
}

// ChangePassword replaces the account password.
func (c *Client) ChangePassword(ctx context.Context, store session.Store, in dto.PasswordChange) error {
	return c.do(ctx, store, call{
		endpoint:    "auth.password",
		method:      http.MethodPost,
		path:        "/api/v1/auth/password",
		body:        in,
		requireAuth: true,
	}, nil)
}

// RequestJeweller asks for the account to be upgraded to a jeweller account.
func (c *Client) RequestJeweller(ctx context.Context, store session.Store) (models.User, error) {
	var out dto.AuthResponse
	err := c.do(ctx, store, call{
		endpoint:    "auth.jeweller_request",
		method:      http.MethodPost,
		path:        "/api/v1/auth/jeweller-request",
		requireAuth: true,
	}, &out)
	if err != nil {
		return models.User{}, err
	}
	return out.User, nil
}
