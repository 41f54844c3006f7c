package models

type ProgressInput struct {
	Weight            *float64           `json:"weight,omitempty"`
	BodyFatPercentage *float64           `json:"body_fat_percentage,omitempty"`
	Measurements      map[string]float64 `json:"measurements,omitempty"`
	Notes             string             `json:"notes,omitempty"`
}

type ProgressLog struct {
	ID                string             `json:"id"`
	MemberID          string             `json:"member_id"`
	GymID             string             `json:"gym_id"`
	Weight            *float64           `json:"weight,omitempty"`
	BodyFatPercentage *float64           `json:"body_fat_percentage,omitempty"`
	Measurements      map[string]float64 `json:"measurements,omitempty"`
	Notes             string             `json:"notes,omitempty"`
	LoggedDate        string             `json:"logged_date,omitempty"`
}

type ProgressLogged struct {
	Message    string `json:"message"`
	ProgressID string `json:"progress_id"`
}
