package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dmitrijs2005/gymdesk/internal/client/models"
)

type GymsAPI struct{ c *Client }

// Register creates the calling manager's own gym.
func (g *GymsAPI) Register(ctx context.Context, in models.GymInput) (*models.GymCreated, error) {
	var out models.GymCreated
	if err := g.c.do(ctx, request{method: http.MethodPost, path: "/gyms/register", body: in}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Create is the head admin's gym creation. The owner account is created
// with password when ownerEmail is unknown to the backend.
func (g *GymsAPI) Create(ctx context.Context, in models.GymInput, ownerEmail, password string) (*models.GymCreated, error) {
	q := url.Values{}
	q.Set("owner_email", ownerEmail)
	q.Set("password", password)

	var out models.GymCreated
	if err := g.c.do(ctx, request{method: http.MethodPost, path: "/gyms/create", query: q, body: in}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (g *GymsAPI) All(ctx context.Context) ([]models.Gym, error) {
	var out []models.Gym
	if err := g.c.do(ctx, request{method: http.MethodGet, path: "/gyms/all"}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (g *GymsAPI) Mine(ctx context.Context) (*models.Gym, error) {
	var out models.Gym
	if err := g.c.do(ctx, request{method: http.MethodGet, path: "/gyms/my-gym"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (g *GymsAPI) Get(ctx context.Context, id string) (*models.Gym, error) {
	var out models.Gym
	if err := g.c.do(ctx, request{method: http.MethodGet, path: idPath("/gyms", id)}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (g *GymsAPI) Update(ctx context.Context, id string, in models.GymInput) error {
	return g.c.do(ctx, request{method: http.MethodPut, path: idPath("/gyms", id), body: in}, nil)
}

func (g *GymsAPI) UpdateSubscription(ctx context.Context, id, plan string, durationDays int) (*models.Expiry, error) {
	q := url.Values{}
	q.Set("plan", plan)
	q.Set("duration_days", strconv.Itoa(durationDays))

	var out models.Expiry
	if err := g.c.do(ctx, request{method: http.MethodPut, path: idPath("/gyms", id, "subscription"), query: q}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SetStatus activates or suspends a gym and returns the backend's message.
func (g *GymsAPI) SetStatus(ctx context.Context, id string, active bool) (string, error) {
	q := url.Values{}
	q.Set("is_active", strconv.FormatBool(active))

	var out models.Message
	if err := g.c.do(ctx, request{method: http.MethodPut, path: idPath("/gyms", id, "status"), query: q}, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

// Delete removes the gym together with all of its members, attendance,
// plans and payments.
func (g *GymsAPI) Delete(ctx context.Context, id string) error {
	return g.c.do(ctx, request{method: http.MethodDelete, path: idPath("/gyms", id)}, nil)
}
