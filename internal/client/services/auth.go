package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gymdesk/internal/client/api"
	"github.com/dmitrijs2005/gymdesk/internal/client/models"
	"github.com/dmitrijs2005/gymdesk/internal/client/session"
	"github.com/dmitrijs2005/gymdesk/internal/logging"
)

// Validation messages shown by the auth screens.
const (
	MsgMissingLogin      = "Please enter email and password"
	MsgMissingFields     = "Please fill all required fields"
	MsgMissingPasswords  = "Please fill all fields"
	MsgPasswordsMismatch = "New passwords do not match"
	MsgPasswordTooShort  = "Password must be at least 4 characters"
	MsgMissingSessionID  = "OAuth session id is required"
)

// MinPasswordLength applies to password changes.
const MinPasswordLength = 4

// AuthService covers login, registration, OAuth completion, logout and
// password changes.
//
// Login, Register and CompleteOAuth persist the credential before setting
// the identity, so a failed write leaves the session logged out.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*models.Identity, error)
	Register(ctx context.Context, in models.RegisterRequest) (*models.Identity, error)
	CompleteOAuth(ctx context.Context, sessionID string) (*models.Identity, error)
	Me(ctx context.Context) (*models.Identity, error)
	Logout(ctx context.Context) error
	ChangePassword(ctx context.Context, oldPassword, newPassword, confirm string) error
}

type authService struct {
	api     *api.Client
	session *session.Store
	log     logging.Logger
}

func NewAuthService(c *api.Client, s *session.Store, log logging.Logger) AuthService {
	if log == nil {
		log = logging.Discard()
	}
	return &authService{api: c, session: s, log: log}
}

func (a *authService) Login(ctx context.Context, email, password string) (*models.Identity, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, api.Invalid(MsgMissingLogin)
	}

	resp, err := a.api.Auth.Login(ctx, models.LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	return a.adopt(ctx, resp.SessionToken, resp.User)
}

func (a *authService) Register(ctx context.Context, in models.RegisterRequest) (*models.Identity, error) {
	in.Email = strings.TrimSpace(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	if in.Email == "" || in.Password == "" || in.Name == "" {
		return nil, api.Invalid(MsgMissingFields)
	}
	if in.Role == "" {
		in.Role = models.RoleTrainee
	}

	resp, err := a.api.Auth.Register(ctx, in)
	if err != nil {
		return nil, err
	}
	return a.adopt(ctx, resp.SessionToken, resp.User)
}

// CompleteOAuth exchanges an OAuth session id for a credential. It accepts
// either the bare id or the redirect URL carrying "#session_id=".
func (a *authService) CompleteOAuth(ctx context.Context, sessionID string) (*models.Identity, error) {
	sessionID = SessionIDFromRedirect(sessionID)
	if sessionID == "" {
		return nil, api.Invalid(MsgMissingSessionID)
	}

	sd, err := a.api.Auth.SessionData(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return a.adopt(ctx, sd.SessionToken, sd.Identity())
}

func (a *authService) adopt(ctx context.Context, token string, u models.Identity) (*models.Identity, error) {
	if err := a.session.SetSessionToken(ctx, token); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	a.session.SetUser(&u)
	a.log.Info(ctx, "signed in", "user_id", u.ID, "role", u.Role)
	return &u, nil
}

// Me fetches the identity behind the stored credential and adopts it.
func (a *authService) Me(ctx context.Context) (*models.Identity, error) {
	u, err := a.api.Auth.Me(ctx)
	if err != nil {
		return nil, err
	}
	a.session.SetUser(u)
	return u, nil
}

// Logout tells the backend first, ignoring its answer, then clears local
// state.
func (a *authService) Logout(ctx context.Context) error {
	if a.session.State().SessionToken != "" {
		if err := a.api.Auth.Logout(ctx); err != nil {
			a.log.Warn(ctx, "backend logout failed", "err", err)
		}
	}
	return a.session.Logout(ctx)
}

func (a *authService) ChangePassword(ctx context.Context, oldPassword, newPassword, confirm string) error {
	switch {
	case oldPassword == "" || newPassword == "" || confirm == "":
		return api.Invalid(MsgMissingPasswords)
	case newPassword != confirm:
		return api.Invalid(MsgPasswordsMismatch)
	case len(newPassword) < MinPasswordLength:
		return api.Invalid(MsgPasswordTooShort)
	}
	return a.api.Auth.ChangePassword(ctx, oldPassword, newPassword)
}

// SessionIDFromRedirect returns the session id from an OAuth redirect URL,
// or s trimmed when it carries no fragment.
func SessionIDFromRedirect(s string) string {
	s = strings.TrimSpace(s)
	if _, after, ok := strings.Cut(s, "#session_id="); ok {
		return after
	}
	return s
}

// Landing names the dashboard a role lands on.
func Landing(role models.Role) string {
	switch role {
	case models.RoleHeadAdmin:
		return "admin"
	case models.RoleGymManager:
		return "manager"
	case models.RoleTrainer:
		return "trainer"
	default:
		return "trainee"
	}
}
