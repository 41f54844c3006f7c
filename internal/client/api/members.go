package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dmitrijs2005/gymdesk/internal/client/models"
)

type MembersAPI struct{ c *Client }

// List returns the calling manager's members, trainers included.
func (m *MembersAPI) List(ctx context.Context) ([]models.Member, error) {
	var out []models.Member
	if err := m.c.do(ctx, request{method: http.MethodGet, path: "/members"}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (m *MembersAPI) Trainers(ctx context.Context) ([]models.Member, error) {
	var out []models.Member
	if err := m.c.do(ctx, request{method: http.MethodGet, path: "/trainers"}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (m *MembersAPI) Add(ctx context.Context, in models.MemberInput) (*models.MemberCreated, error) {
	var out models.MemberCreated
	if err := m.c.do(ctx, request{method: http.MethodPost, path: "/members", body: in}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (m *MembersAPI) Get(ctx context.Context, id string) (*models.Member, error) {
	var out models.Member
	if err := m.c.do(ctx, request{method: http.MethodGet, path: idPath("/members", id)}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MyProfile returns the trainee's membership. A trainee without one gets a
// Member whose HasMembership is false.
func (m *MembersAPI) MyProfile(ctx context.Context) (*models.Member, error) {
	var out models.Member
	if err := m.c.do(ctx, request{method: http.MethodGet, path: "/members/my-profile"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (m *MembersAPI) Update(ctx context.Context, id string, in models.MemberInput) error {
	return m.c.do(ctx, request{method: http.MethodPut, path: idPath("/members", id), body: in}, nil)
}

func (m *MembersAPI) AssignTrainer(ctx context.Context, memberID, trainerID string) error {
	q := url.Values{}
	q.Set("trainer_id", trainerID)
	return m.c.do(ctx, request{method: http.MethodPut, path: idPath("/members", memberID, "assign-trainer"), query: q}, nil)
}

// Extend pushes the membership expiry out by extraDays.
func (m *MembersAPI) Extend(ctx context.Context, id string, extraDays int) (*models.Expiry, error) {
	q := url.Values{}
	q.Set("extra_days", strconv.Itoa(extraDays))

	var out models.Expiry
	if err := m.c.do(ctx, request{method: http.MethodPut, path: idPath("/members", id, "extend"), query: q}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (m *MembersAPI) Delete(ctx context.Context, id string) error {
	return m.c.do(ctx, request{method: http.MethodDelete, path: idPath("/members", id)}, nil)
}
