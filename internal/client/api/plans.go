package api

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/gymdesk/internal/client/models"
)

type PlansAPI struct{ c *Client }

func (p *PlansAPI) CreateWorkout(ctx context.Context, in models.WorkoutPlanInput) (*models.PlanCreated, error) {
	var out models.PlanCreated
	if err := p.c.do(ctx, request{method: http.MethodPost, path: "/plans/workout", body: in}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MyWorkout returns nil without error when no plan has been assigned.
func (p *PlansAPI) MyWorkout(ctx context.Context) (*models.WorkoutPlan, error) {
	var out models.WorkoutPlan
	if err := p.c.do(ctx, request{method: http.MethodGet, path: "/plans/workout/my-plan"}, &out); err != nil {
		return nil, err
	}
	if out.ID == "" {
		return nil, nil
	}
	return &out, nil
}

func (p *PlansAPI) CreateDiet(ctx context.Context, in models.DietPlanInput) (*models.PlanCreated, error) {
	var out models.PlanCreated
	if err := p.c.do(ctx, request{method: http.MethodPost, path: "/plans/diet", body: in}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MyDiet returns nil without error when no plan has been assigned.
func (p *PlansAPI) MyDiet(ctx context.Context) (*models.DietPlan, error) {
	var out models.DietPlan
	if err := p.c.do(ctx, request{method: http.MethodGet, path: "/plans/diet/my-plan"}, &out); err != nil {
		return nil, err
	}
	if out.ID == "" {
		return nil, nil
	}
	return &out, nil
}
