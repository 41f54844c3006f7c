package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/gymdesk/internal/client/models"
	"github.com/dmitrijs2005/gymdesk/internal/common"
)

type AuthAPI struct{ c *Client }

func (a *AuthAPI) Register(ctx context.Context, in models.RegisterRequest) (*models.AuthResponse, error) {
	var out models.AuthResponse
	if err := a.c.do(ctx, request{method: http.MethodPost, path: "/auth/register", body: in}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *AuthAPI) Login(ctx context.Context, in models.LoginRequest) (*models.AuthResponse, error) {
	var out models.AuthResponse
	if err := a.c.do(ctx, request{method: http.MethodPost, path: "/auth/login", body: in}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SessionData exchanges an OAuth session id for a bearer credential.
func (a *AuthAPI) SessionData(ctx context.Context, sessionID string) (*models.SessionData, error) {
	h := http.Header{}
	h.Set(common.SessionIDHeaderName, sessionID)

	var out models.SessionData
	if err := a.c.do(ctx, request{method: http.MethodGet, path: "/auth/session-data", header: h}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *AuthAPI) Me(ctx context.Context) (*models.Identity, error) {
	var out models.Identity
	if err := a.c.do(ctx, request{method: http.MethodGet, path: "/auth/me"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout invalidates the credential server-side. It does not touch local
// state.
func (a *AuthAPI) Logout(ctx context.Context) error {
	return a.c.do(ctx, request{method: http.MethodPost, path: "/auth/logout"}, nil)
}

func (a *AuthAPI) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	q := url.Values{}
	q.Set("old_password", oldPassword)
	q.Set("new_password", newPassword)
	return a.c.do(ctx, request{method: http.MethodPost, path: "/auth/change-password", query: q}, nil)
}
