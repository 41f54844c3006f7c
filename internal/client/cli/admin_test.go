package cli

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/gymdesk/internal/client/api"
	"github.com/dmitrijs2005/gymdesk/internal/client/models"
	"github.com/dmitrijs2005/gymdesk/internal/client/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (h *harness) admin(t *testing.T) models.Identity {
	t.Helper()
	return h.signIn(t, "Root", "root@example.com", models.RoleHeadAdmin)
}

func TestGyms(t *testing.T) {
	h := newHarness(t)
	h.admin(t)
	a := h.app(t, "")
	ctx := context.Background()

	require.NoError(t, a.Gyms(ctx, nil))
	assert.Contains(t, h.out.String(), "No gyms yet")

	owner := h.backend.AddUser("Max", "max@example.com", "pw", models.RoleGymManager)
	h.backend.AddGym(owner.ID, "Iron Temple")
	second := h.backend.AddGym(owner.ID, "Steel Hall")
	_, err := a.admin.SetStatus(ctx, second.ID, false)
	require.NoError(t, err)

	h.out.Reset()
	require.NoError(t, a.Gyms(ctx, nil))
	out := h.out.String()
	assert.Contains(t, out, "Gyms (2, 1 active)")
	assert.Contains(t, out, "Iron Temple")
	assert.Contains(t, out, "suspended")
}

func TestCreateGym(t *testing.T) {
	h := newHarness(t)
	h.admin(t)
	a := h.app(t, "Iron Temple\n1 Main St\nPune\nMH\n5550100\ngym@example.com\nowner@example.com\ntemp123\n")

	require.NoError(t, a.CreateGym(context.Background(), nil))

	out := h.out.String()
	assert.Contains(t, out, "Gym Created Successfully!")
	assert.Contains(t, out, "owner@example.com")
	assert.Contains(t, out, "temp123")
	assert.Equal(t, "temp123", h.backend.Password("owner@example.com"))
}

func TestCreateGym_MissingPassword(t *testing.T) {
	h := newHarness(t)
	h.admin(t)
	a := h.app(t, "Iron Temple\n\nPune\nMH\n\ngym@example.com\nowner@example.com\n\n")

	err := a.CreateGym(context.Background(), nil)
	assert.Equal(t, services.MsgCreateGymRequired, api.Message(err, ""))
	assert.Zero(t, h.backend.Hits("POST /api/gyms/create"))
}

func TestSuspendAndActivateGym(t *testing.T) {
	h := newHarness(t)
	h.admin(t)
	owner := h.backend.AddUser("Max", "max@example.com", "pw", models.RoleGymManager)
	gym := h.backend.AddGym(owner.ID, "Iron Temple")
	a := h.app(t, "")
	ctx := context.Background()

	require.NoError(t, a.SuspendGym(ctx, []string{gym.ID}))
	got, _ := h.backend.Gym(gym.ID)
	assert.False(t, got.IsActive)

	require.NoError(t, a.ActivateGym(ctx, []string{gym.ID}))
	got, _ = h.backend.Gym(gym.ID)
	assert.True(t, got.IsActive)

	assert.EqualError(t, a.SuspendGym(ctx, nil), "usage: suspend <gym-id>")
}

func TestSubscription(t *testing.T) {
	h := newHarness(t)
	h.admin(t)
	owner := h.backend.AddUser("Max", "max@example.com", "pw", models.RoleGymManager)
	gym := h.backend.AddGym(owner.ID, "Iron Temple")
	a := h.app(t, "")
	ctx := context.Background()

	require.NoError(t, a.Subscription(ctx, []string{gym.ID, "PRO", "90"}))
	assert.Contains(t, h.out.String(), "Subscription updated successfully")
	got, _ := h.backend.Gym(gym.ID)
	assert.Equal(t, "pro", got.SubscriptionPlan)
}

func TestSubscription_Errors(t *testing.T) {
	h := newHarness(t)
	h.admin(t)
	a := h.app(t, "")
	ctx := context.Background()

	err := a.Subscription(ctx, []string{"gym_1", "gold"})
	assert.Equal(t, services.MsgUnknownPlan, api.Message(err, ""))
	assert.Contains(t, h.out.String(), "Plans: basic, pro, premium")

	err = a.Subscription(ctx, []string{"gym_1", "pro", "-3"})
	assert.Equal(t, "Days must be a positive whole number", api.Message(err, ""))

	err = a.Subscription(ctx, []string{"gym_1"})
	assert.EqualError(t, err, "usage: subscription <gym-id> <plan> [days]")
	assert.Zero(t, h.backend.Hits("PUT /api/gyms/gym_1/subscription"))
}

func TestDeleteGym(t *testing.T) {
	h := newHarness(t)
	h.admin(t)
	owner := h.backend.AddUser("Max", "max@example.com", "pw", models.RoleGymManager)
	gym := h.backend.AddGym(owner.ID, "Iron Temple")
	a := h.app(t, "no\ny\n")
	ctx := context.Background()

	require.NoError(t, a.DeleteGym(ctx, []string{gym.ID}))
	_, ok := h.backend.Gym(gym.ID)
	assert.True(t, ok)

	require.NoError(t, a.DeleteGym(ctx, []string{gym.ID}))
	assert.Contains(t, h.out.String(), "Gym deleted")
	_, ok = h.backend.Gym(gym.ID)
	assert.False(t, ok)
}
