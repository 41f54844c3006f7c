package services

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/gymdesk/internal/client/api"
	"github.com/dmitrijs2005/gymdesk/internal/client/models"
)

const MsgPlanRequired = "Please select a member and name the plan"

// PlanService creates workout and diet plans. Managers and trainers use it.
type PlanService struct {
	api *api.Client
}

func NewPlanService(c *api.Client) *PlanService {
	return &PlanService{api: c}
}

// Member looks up one member, e.g. a trainer's client.
func (s *PlanService) Member(ctx context.Context, id string) (*models.Member, error) {
	return s.api.Members.Get(ctx, id)
}

func (s *PlanService) CreateWorkout(ctx context.Context, in models.WorkoutPlanInput) (*models.PlanCreated, error) {
	if blank(in.MemberID, in.PlanName) {
		return nil, api.Invalid(MsgPlanRequired)
	}
	for _, d := range in.WorkoutDays {
		if strings.TrimSpace(d.Day) == "" {
			return nil, api.Invalid("Every workout day needs a name")
		}
	}
	return s.api.Plans.CreateWorkout(ctx, in)
}

func (s *PlanService) CreateDiet(ctx context.Context, in models.DietPlanInput) (*models.PlanCreated, error) {
	if blank(in.MemberID, in.PlanName) {
		return nil, api.Invalid(MsgPlanRequired)
	}
	return s.api.Plans.CreateDiet(ctx, in)
}
