package services

import (
	"context"
	"slices"
	"strings"

	"github.com/dmitrijs2005/gymdesk/internal/client/api"
	"github.com/dmitrijs2005/gymdesk/internal/client/models"
	"github.com/dmitrijs2005/gymdesk/internal/logging"
)

const (
	MsgCreateGymRequired = "Please fill all required fields including password"
	MsgUnknownPlan       = "Invalid subscription plan"

	defaultGymAddress = "N/A"
	defaultGymPhone   = "0000000000"
)

// CreateGymForm is the head admin's "create gym" form.
type CreateGymForm struct {
	Gym          models.GymInput
	OwnerEmail   string
	TempPassword string
}

type AdminService struct {
	api *api.Client
	log logging.Logger
}

func NewAdminService(c *api.Client, log logging.Logger) *AdminService {
	if log == nil {
		log = logging.Discard()
	}
	return &AdminService{api: c, log: log}
}

func (s *AdminService) Gyms(ctx context.Context) ([]models.Gym, error) {
	gyms, err := s.api.Gyms.All(ctx)
	if err != nil {
		return nil, err
	}
	return nonNil(gyms), nil
}

// CreateGym requires name, city, state, email, owner email and a temporary
// password. Address and phone get placeholders when blank.
func (s *AdminService) CreateGym(ctx context.Context, f CreateGymForm) (*models.GymCreated, error) {
	g := f.Gym
	if blank(g.Name, g.City, g.State, g.Email, f.OwnerEmail, f.TempPassword) {
		return nil, api.Invalid(MsgCreateGymRequired)
	}
	if strings.TrimSpace(g.Address) == "" {
		g.Address = defaultGymAddress
	}
	if strings.TrimSpace(g.Phone) == "" {
		g.Phone = defaultGymPhone
	}

	created, err := s.api.Gyms.Create(ctx, g, f.OwnerEmail, f.TempPassword)
	if err != nil {
		return nil, err
	}
	s.log.Info(ctx, "gym created", "gym_id", created.GymID, "owner", f.OwnerEmail)
	return created, nil
}

// SetStatus activates or suspends a gym.
func (s *AdminService) SetStatus(ctx context.Context, gymID string, active bool) (string, error) {
	return s.api.Gyms.SetStatus(ctx, gymID, active)
}

// UpdateSubscription checks plan locally before calling the backend.
func (s *AdminService) UpdateSubscription(ctx context.Context, gymID, plan string, days int) (*models.Expiry, error) {
	if !slices.Contains(models.SubscriptionPlans, plan) {
		return nil, api.Invalid(MsgUnknownPlan)
	}
	if days <= 0 {
		days = 30
	}
	return s.api.Gyms.UpdateSubscription(ctx, gymID, plan, days)
}

// DeleteGym removes the gym and everything attached to it.
func (s *AdminService) DeleteGym(ctx context.Context, gymID string) error {
	if err := s.api.Gyms.Delete(ctx, gymID); err != nil {
		return err
	}
	s.log.Warn(ctx, "gym deleted", "gym_id", gymID)
	return nil
}
