package models

type MembershipStatus string

const (
	MembershipActive       MembershipStatus = "active"
	MembershipExpiringSoon MembershipStatus = "expiring_soon"
	MembershipExpired      MembershipStatus = "expired"
	MembershipFrozen       MembershipStatus = "frozen"
)

// Member is a trainee or trainer enrolled at a gym. The same shape is used
// for the trainee's own profile, which additionally carries gym details.
type Member struct {
	ID                 string           `json:"id"`
	UserID             string           `json:"user_id"`
	GymID              string           `json:"gym_id"`
	Role               Role             `json:"role,omitempty"`
	Photo              string           `json:"photo,omitempty"`
	ContactInfo        string           `json:"contact_info,omitempty"`
	JoiningDate        string           `json:"joining_date,omitempty"`
	MembershipPlan     string           `json:"membership_plan,omitempty"`
	PlanDurationMonths *int             `json:"plan_duration_months,omitempty"`
	MembershipExpiry   string           `json:"membership_expiry,omitempty"`
	Goal               string           `json:"goal,omitempty"`
	AssignedTrainerID  string           `json:"assigned_trainer_id,omitempty"`
	Status             MembershipStatus `json:"status,omitempty"`
	Height             *float64         `json:"height,omitempty"`
	Weight             *float64         `json:"weight,omitempty"`
	Age                *int             `json:"age,omitempty"`

	UserName  string `json:"user_name,omitempty"`
	UserEmail string `json:"user_email,omitempty"`
	GymName   string `json:"gym_name,omitempty"`
	GymQR     string `json:"gym_qr,omitempty"`
}

// HasMembership is false for the placeholder profile the backend returns to
// trainees that are not enrolled anywhere.
func (m Member) HasMembership() bool {
	return m.ID != ""
}

// MemberInput is the add/update payload. IsTrainer creates a trainer account
// instead of a trainee.
type MemberInput struct {
	Name               string   `json:"name"`
	Email              string   `json:"email"`
	Phone              string   `json:"phone"`
	Password           string   `json:"password"`
	MembershipPlan     string   `json:"membership_plan,omitempty"`
	PlanDurationMonths int      `json:"plan_duration_months,omitempty"`
	Goal               string   `json:"goal,omitempty"`
	AssignedTrainerID  string   `json:"assigned_trainer_id,omitempty"`
	IsTrainer          bool     `json:"is_trainer"`
	Height             *float64 `json:"height,omitempty"`
	Weight             *float64 `json:"weight,omitempty"`
	Age                *int     `json:"age,omitempty"`
	Photo              string   `json:"photo,omitempty"`
}

type MemberCreated struct {
	Message  string `json:"message"`
	MemberID string `json:"member_id"`
	UserID   string `json:"user_id"`
}
