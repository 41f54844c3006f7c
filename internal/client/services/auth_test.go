package services

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/dmitrijs2005/gymdesk/internal/client/api"
	"github.com/dmitrijs2005/gymdesk/internal/client/apitest"
	"github.com/dmitrijs2005/gymdesk/internal/client/models"
	"github.com/dmitrijs2005/gymdesk/internal/client/securestore"
	"github.com/dmitrijs2005/gymdesk/internal/client/session"
	"github.com/dmitrijs2005/gymdesk/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- helpers ----

type env struct {
	backend *apitest.Backend
	store   *securestore.Memory
	session *session.Store
	api     *api.Client
}

func newEnv(t *testing.T) *env {
	t.Helper()
	b := apitest.New()
	t.Cleanup(b.Close)

	store := securestore.NewMemory()
	s := session.New(store, nil)
	s.Initialize(context.Background())
	return &env{
		backend: b,
		store:   store,
		session: s,
		api:     api.New(b.URL(), store, api.WithHTTPClient(b.Client())),
	}
}

// as stores a credential for a new user with role.
func (e *env) as(t *testing.T, role models.Role, email string) models.Identity {
	t.Helper()
	u := e.backend.AddUser("User "+email, email, "pw", role)
	require.NoError(t, e.store.Set(context.Background(), common.SessionTokenKey, e.backend.IssueToken(u.ID, time.Hour)))
	return u
}

func (e *env) token(t *testing.T) (string, bool) {
	t.Helper()
	v, ok, err := e.store.Get(context.Background(), common.SessionTokenKey)
	require.NoError(t, err)
	return v, ok
}

// ---- tests ----

func TestAuth_LoginValidation(t *testing.T) {
	e := newEnv(t)
	svc := NewAuthService(e.api, e.session, nil)

	_, err := svc.Login(context.Background(), " ", "pw")
	assert.ErrorIs(t, err, api.ErrValidation)
	assert.Equal(t, MsgMissingLogin, api.Message(err, ""))
	assert.Zero(t, e.backend.Hits(""))
}

func TestAuth_LoginPersistsTokenThenUser(t *testing.T) {
	e := newEnv(t)
	svc := NewAuthService(e.api, e.session, nil)
	e.backend.AddUser("Mia", "mia@example.com", "pw", models.RoleGymManager)

	u, err := svc.Login(context.Background(), "mia@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, models.RoleGymManager, u.Role)

	st := e.session.State()
	assert.True(t, st.IsAuthenticated)
	assert.NotEmpty(t, st.SessionToken)
	tok, ok := e.token(t)
	assert.True(t, ok)
	assert.Equal(t, st.SessionToken, tok)
}

func TestAuth_LoginStorageFailureStaysLoggedOut(t *testing.T) {
	e := newEnv(t)
	svc := NewAuthService(e.api, e.session, nil)
	e.backend.AddUser("Mia", "mia@example.com", "pw", models.RoleTrainee)
	e.store.SetErr = errors.New("keyring unavailable")

	_, err := svc.Login(context.Background(), "mia@example.com", "pw")
	require.Error(t, err)
	assert.False(t, e.session.State().IsAuthenticated)
}

func TestAuth_LoginRejected(t *testing.T) {
	e := newEnv(t)
	svc := NewAuthService(e.api, e.session, nil)

	_, err := svc.Login(context.Background(), "ghost@example.com", "pw")
	assert.Equal(t, "Invalid credentials", api.Message(err, ""))
	assert.False(t, e.session.State().IsAuthenticated)
}

func TestAuth_RegisterDefaultsToTrainee(t *testing.T) {
	e := newEnv(t)
	svc := NewAuthService(e.api, e.session, nil)
	ctx := context.Background()

	_, err := svc.Register(ctx, models.RegisterRequest{Email: "a@b.c", Password: "pw"})
	assert.Equal(t, MsgMissingFields, api.Message(err, ""))

	u, err := svc.Register(ctx, models.RegisterRequest{Name: " Lee ", Email: "lee@example.com", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleTrainee, u.Role)
	assert.Equal(t, "Lee", u.Name)
	assert.Equal(t, "trainee", Landing(u.Role))
}

func TestAuth_CompleteOAuth(t *testing.T) {
	e := newEnv(t)
	svc := NewAuthService(e.api, e.session, nil)
	e.backend.AddOAuthSession("abc123", "g@example.com", "Google User", "")

	u, err := svc.CompleteOAuth(context.Background(), "https://app.example/#session_id=abc123")
	require.NoError(t, err)
	assert.Equal(t, models.RoleTrainee, u.Role)
	assert.Equal(t, "g@example.com", e.session.State().User.Email)

	_, err = svc.CompleteOAuth(context.Background(), "  ")
	assert.ErrorIs(t, err, api.ErrValidation)
}

func TestAuth_MeAdoptsIdentity(t *testing.T) {
	e := newEnv(t)
	svc := NewAuthService(e.api, e.session, nil)
	u := e.as(t, models.RoleTrainer, "coach@example.com")

	got, err := svc.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.True(t, e.session.State().IsAuthenticated)
}

func TestAuth_LogoutIgnoresBackendFailure(t *testing.T) {
	e := newEnv(t)
	svc := NewAuthService(e.api, e.session, nil)
	ctx := context.Background()
	e.backend.AddUser("Mia", "mia@example.com", "pw", models.RoleTrainee)
	_, err := svc.Login(ctx, "mia@example.com", "pw")
	require.NoError(t, err)

	e.backend.Fail("POST /api/auth/logout", http.StatusInternalServerError, `{"detail":"boom"}`)
	require.NoError(t, svc.Logout(ctx))
	assert.Equal(t, session.State{}, e.session.State())
	_, ok := e.token(t)
	assert.False(t, ok)

	// Already logged out: nothing is sent.
	hits := e.backend.Hits("POST /api/auth/logout")
	require.NoError(t, svc.Logout(ctx))
	assert.Equal(t, hits, e.backend.Hits("POST /api/auth/logout"))
}

func TestAuth_ChangePassword(t *testing.T) {
	e := newEnv(t)
	svc := NewAuthService(e.api, e.session, nil)
	ctx := context.Background()
	e.as(t, models.RoleGymManager, "mgr@example.com")

	tests := []struct {
		oldPw, newPw, confirm string
		want                  string
	}{
		{"", "abcd", "abcd", MsgMissingPasswords},
		{"pw", "abcd", "abce", MsgPasswordsMismatch},
		{"pw", "abc", "abc", MsgPasswordTooShort},
	}
	for _, tt := range tests {
		err := svc.ChangePassword(ctx, tt.oldPw, tt.newPw, tt.confirm)
		assert.Equal(t, tt.want, api.Message(err, ""))
	}
	assert.Zero(t, e.backend.Hits("POST /api/auth/change-password"))

	require.NoError(t, svc.ChangePassword(ctx, "pw", "abcd", "abcd"))
	assert.Equal(t, "abcd", e.backend.Password("mgr@example.com"))
}

func TestLanding(t *testing.T) {
	assert.Equal(t, "admin", Landing(models.RoleHeadAdmin))
	assert.Equal(t, "manager", Landing(models.RoleGymManager))
	assert.Equal(t, "trainer", Landing(models.RoleTrainer))
	assert.Equal(t, "trainee", Landing(models.RoleTrainee))
	assert.Equal(t, "trainee", Landing(""))
}

func TestSessionIDFromRedirect(t *testing.T) {
	assert.Equal(t, "xyz", SessionIDFromRedirect("myapp://auth#session_id=xyz"))
	assert.Equal(t, "xyz", SessionIDFromRedirect(" xyz "))
	assert.Empty(t, SessionIDFromRedirect(""))
}
