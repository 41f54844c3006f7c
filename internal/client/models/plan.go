package models

type Exercise struct {
	Name        string `json:"name"`
	Sets        int    `json:"sets"`
	Reps        int    `json:"reps"`
	RestSeconds int    `json:"rest_seconds"`
	Notes       string `json:"notes,omitempty"`
}

type WorkoutDay struct {
	Day       string     `json:"day"`
	Exercises []Exercise `json:"exercises"`
}

type WorkoutPlanInput struct {
	MemberID    string       `json:"member_id"`
	PlanName    string       `json:"plan_name"`
	WorkoutDays []WorkoutDay `json:"workout_days"`
}

type WorkoutPlan struct {
	ID          string       `json:"id"`
	MemberID    string       `json:"member_id"`
	TrainerID   string       `json:"trainer_id"`
	GymID       string       `json:"gym_id"`
	PlanName    string       `json:"plan_name"`
	WorkoutDays []WorkoutDay `json:"workout_days"`
	CreatedAt   string       `json:"created_at,omitempty"`
	UpdatedAt   string       `json:"updated_at,omitempty"`
}

type Meal struct {
	MealTime string   `json:"meal_time"`
	Items    []string `json:"items"`
	Calories *int     `json:"calories,omitempty"`
	Notes    string   `json:"notes,omitempty"`
}

type DietPlanInput struct {
	MemberID      string `json:"member_id"`
	PlanName      string `json:"plan_name"`
	DailyMeals    []Meal `json:"daily_meals"`
	TotalCalories *int   `json:"total_calories,omitempty"`
}

type DietPlan struct {
	ID            string `json:"id"`
	MemberID      string `json:"member_id"`
	TrainerID     string `json:"trainer_id"`
	GymID         string `json:"gym_id"`
	PlanName      string `json:"plan_name"`
	DailyMeals    []Meal `json:"daily_meals"`
	TotalCalories *int   `json:"total_calories,omitempty"`
	CreatedAt     string `json:"created_at,omitempty"`
	UpdatedAt     string `json:"updated_at,omitempty"`
}

type PlanCreated struct {
	Message string `json:"message"`
	PlanID  string `json:"plan_id"`
}
