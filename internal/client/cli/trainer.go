package cli

import (
	"context"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/gymdesk/internal/client/api"
	"github.com/dmitrijs2005/gymdesk/internal/client/models"
)

const exerciseFormat = "Exercise lines look like: Squat, 4, 10, 90[, notes]"

func (a *App) Member(ctx context.Context, args []string) error {
	if err := needArgs(args, 1, "member", "<member-id>"); err != nil {
		return err
	}
	m, err := a.plans.Member(ctx, args[0])
	if err != nil {
		return err
	}

	name := m.UserName
	if name == "" {
		name = m.ID
	}
	a.println(card(name,
		field("ID", m.ID),
		field("Email", m.UserEmail),
		field("Role", string(m.Role)),
		field("Plan", m.MembershipPlan),
		field("Joined", day(m.JoiningDate)),
		field("Valid till", day(m.MembershipExpiry)),
		field("Status", string(m.Status)),
		field("Goal", m.Goal),
		field("Height (cm)", optFloat(m.Height)),
		field("Weight (kg)", optFloat(m.Weight)),
		field("Age", optInt(m.Age)),
		field("Trainer", m.AssignedTrainerID),
	))
	return nil
}

// parseExercise reads "name, sets, reps, rest[, notes]".
func parseExercise(line string) (models.Exercise, error) {
	parts := strings.SplitN(line, ",", 5)
	if len(parts) < 4 {
		return models.Exercise{}, api.Invalid(exerciseFormat)
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	var (
		e   = models.Exercise{Name: parts[0]}
		err error
	)
	if e.Sets, err = strconv.Atoi(parts[1]); err != nil {
		return models.Exercise{}, api.Invalid(exerciseFormat)
	}
	if e.Reps, err = strconv.Atoi(parts[2]); err != nil {
		return models.Exercise{}, api.Invalid(exerciseFormat)
	}
	if e.RestSeconds, err = strconv.Atoi(parts[3]); err != nil {
		return models.Exercise{}, api.Invalid(exerciseFormat)
	}
	if len(parts) == 5 {
		e.Notes = parts[4]
	}
	return e, nil
}

// CreateWorkout builds a plan day by day. A blank day name ends the plan.
func (a *App) CreateWorkout(ctx context.Context, args []string) error {
	if err := needArgs(args, 1, "workout", "<member-id>"); err != nil {
		return err
	}
	in := models.WorkoutPlanInput{MemberID: args[0]}

	var err error
	if in.PlanName, err = a.text("Plan name"); err != nil {
		return err
	}
	for {
		dayName, err := a.optional("Day (e.g. Monday, blank to finish)", "")
		if err != nil {
			return err
		}
		if dayName == "" {
			break
		}
		lines, err := GetMultiline(a.reader, exerciseFormat, a.out)
		if err != nil {
			return err
		}

		d := models.WorkoutDay{Day: dayName, Exercises: []models.Exercise{}}
		for _, l := range lines {
			e, err := parseExercise(l)
			if err != nil {
				return err
			}
			d.Exercises = append(d.Exercises, e)
		}
		in.WorkoutDays = append(in.WorkoutDays, d)
	}

	created, err := a.plans.CreateWorkout(ctx, in)
	if err != nil {
		return err
	}
	a.ok(created.Message)
	return nil
}

// CreateDiet builds a plan meal by meal. A blank meal time ends the plan.
func (a *App) CreateDiet(ctx context.Context, args []string) error {
	if err := needArgs(args, 1, "diet", "<member-id>"); err != nil {
		return err
	}
	in := models.DietPlanInput{MemberID: args[0], DailyMeals: []models.Meal{}}

	var err error
	if in.PlanName, err = a.text("Plan name"); err != nil {
		return err
	}
	total, err := a.optional("Total calories (optional)", "")
	if err != nil {
		return err
	}
	if in.TotalCalories, err = parseOptInt("Total calories", total); err != nil {
		return err
	}

	for {
		mealTime, err := a.optional("Meal (e.g. Breakfast, blank to finish)", "")
		if err != nil {
			return err
		}
		if mealTime == "" {
			break
		}
		items, err := a.text("Items, comma separated")
		if err != nil {
			return err
		}
		kcal, err := a.optional("Calories (optional)", "")
		if err != nil {
			return err
		}

		m := models.Meal{MealTime: mealTime, Items: []string{}}
		if m.Calories, err = parseOptInt("Calories", kcal); err != nil {
			return err
		}
		for _, it := range strings.Split(items, ",") {
			if it = strings.TrimSpace(it); it != "" {
				m.Items = append(m.Items, it)
			}
		}
		in.DailyMeals = append(in.DailyMeals, m)
	}

	created, err := a.plans.CreateDiet(ctx, in)
	if err != nil {
		return err
	}
	a.ok(created.Message)
	return nil
}
