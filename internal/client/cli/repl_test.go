package cli

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/gymdesk/internal/client/models"
	"github.com/dmitrijs2005/gymdesk/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestREPL_GuestHelpAndExit(t *testing.T) {
	h := newHarness(t)
	a := h.app(t, "help\n\nexit\nwhoami\n")

	runREPL(context.Background(), a)

	out := h.out.String()
	assert.Contains(t, out, "login [email]")
	assert.Contains(t, out, "register")
	assert.Contains(t, out, "exit | quit")
	assert.NotContains(t, out, "dashboard")
	assert.Contains(t, out, "Bye!")
	assert.NotContains(t, out, "Please log in first.")
}

func TestREPL_EOFEnds(t *testing.T) {
	h := newHarness(t)
	a := h.app(t, "")

	runREPL(context.Background(), a)
	assert.NotContains(t, h.out.String(), "Bye!")
}

func TestREPL_LoginShowsUserInPrompt(t *testing.T) {
	h := newHarness(t)
	h.backend.AddUser("Mia", "mia@example.com", "pw", models.RoleGymManager)
	a := h.app(t, "login mia@example.com\npw\nexit\n")

	runREPL(context.Background(), a)

	out := h.out.String()
	assert.Contains(t, out, "Welcome, Mia!")
	assert.Contains(t, out, "(Mia gym_manager)> ")
	tok, ok := h.token(t)
	assert.True(t, ok)
	assert.NotEmpty(t, tok)
}

func TestREPL_BadPassword(t *testing.T) {
	h := newHarness(t)
	h.backend.AddUser("Mia", "mia@example.com", "pw", models.RoleTrainee)
	a := h.app(t, "login\nmia@example.com\nwrong\n")

	runREPL(context.Background(), a)

	assert.Contains(t, h.out.String(), "Error: Invalid credentials")
	assert.False(t, a.session.State().IsAuthenticated)
}

func TestREPL_Errors(t *testing.T) {
	tests := []struct {
		name  string
		role  models.Role
		input string
		want  string
	}{
		{"unknown command", "", "dance\n", "Error: unknown command: dance"},
		{"guest runs member command", "", "dashboard\n", "Error: Please log in first."},
		{"signed in runs guest command", models.RoleTrainee, "login\n", "Error: You are already signed in. Log out first."},
		{"wrong role", models.RoleTrainee, "gyms\n", "Error: gyms is not available to trainee accounts"},
		{"missing argument", models.RoleHeadAdmin, "suspend\n", "Error: usage: suspend <gym-id>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			if tt.role != "" {
				h.signIn(t, "Mia", "mia@example.com", tt.role)
			}
			a := h.app(t, tt.input)

			runREPL(context.Background(), a)
			assert.Contains(t, h.out.String(), tt.want)
		})
	}
}

func TestREPL_SameNameDifferentRoles(t *testing.T) {
	h := newHarness(t)
	u := h.signIn(t, "Mia", "mia@example.com", models.RoleGymManager)
	h.backend.AddGym(u.ID, "Iron Temple")
	a := h.app(t, "payments\n")

	runREPL(context.Background(), a)

	assert.Contains(t, h.out.String(), "No payments yet")
	assert.Equal(t, 1, h.backend.Hits("GET /api/payments/gym-payments"))
	assert.Zero(t, h.backend.Hits("GET /api/payments/my-payments"))
}

func TestREPL_SessionEndsOnUnauthorized(t *testing.T) {
	h := newHarness(t)
	h.signIn(t, "Mia", "mia@example.com", models.RoleTrainee)
	h.backend.Fail("GET /api/members/my-profile", 401, `{"detail":"Session expired"}`)
	a := h.app(t, "dashboard\nwhoami\nexit\n")

	runREPL(context.Background(), a)

	out := h.out.String()
	assert.Contains(t, out, "(Mia trainee)> ")
	assert.Contains(t, out, sessionEndedMsg)
	assert.Contains(t, out, "Error: Please log in first.")
	assert.Contains(t, out, "Bye!")

	_, ok := h.token(t)
	assert.False(t, ok)
	assert.Nil(t, a.session.State().User)
}

func TestREPL_Logout(t *testing.T) {
	h := newHarness(t)
	h.signIn(t, "Mia", "mia@example.com", models.RoleTrainee)
	a := h.app(t, "logout\nhelp\n")

	runREPL(context.Background(), a)

	out := h.out.String()
	assert.Contains(t, out, "Logged out.")
	assert.NotContains(t, out, sessionEndedMsg)
	assert.Equal(t, 1, h.backend.Hits("POST /api/auth/logout"))
	_, ok := h.token(t)
	assert.False(t, ok)
}

func TestDispatch(t *testing.T) {
	h := newHarness(t)
	a := h.app(t, "")
	ctx := context.Background()

	err := a.dispatch(ctx, "whoami", nil)
	assert.ErrorIs(t, err, common.ErrNotAuthenticated)

	err = a.dispatch(ctx, "nope", nil)
	assert.ErrorIs(t, err, errUnknownCommand)

	require.NoError(t, a.dispatch(ctx, "status", nil))
	assert.Equal(t, ModeOnline, a.Mode())
}

func TestLookup(t *testing.T) {
	h := newHarness(t)
	a := h.app(t, "")
	trainer := &models.Identity{Name: "Tom", Role: models.RoleTrainer}

	c, ok, err := a.lookup("workout", trainer)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "workout", c.name)

	c, ok, err = a.lookup("dashboard", trainer)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, signedIn, c.access)

	_, _, err = a.lookup("fly", nil)
	assert.ErrorIs(t, err, errUnknownCommand)
}

func TestCommands_UniquePerRole(t *testing.T) {
	h := newHarness(t)
	a := h.app(t, "")

	for _, role := range []models.Role{models.RoleTrainee, models.RoleGymManager, models.RoleTrainer, models.RoleHeadAdmin} {
		u := &models.Identity{Role: role}
		seen := map[string]bool{}
		for _, c := range a.commands() {
			if !c.allowed(u) {
				continue
			}
			assert.False(t, seen[c.name], "%s has two %q commands", role, c.name)
			seen[c.name] = true
		}
	}
}
