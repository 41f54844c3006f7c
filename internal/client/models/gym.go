package models

// SubscriptionPlans are the plans the backend accepts.
var SubscriptionPlans = []string{"basic", "pro", "premium"}

// GymInput is the create/update payload for a gym.
type GymInput struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
}

type GymStats struct {
	TotalMembers    int `json:"total_members"`
	ActiveMembers   int `json:"active_members"`
	TodayAttendance int `json:"today_attendance"`
}

type Gym struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Address            string    `json:"address"`
	City               string    `json:"city"`
	State              string    `json:"state"`
	OwnerID            string    `json:"owner_id"`
	QRCode             string    `json:"qr_code,omitempty"`
	KYCVerified        bool      `json:"kyc_verified"`
	IsActive           bool      `json:"is_active"`
	Phone              string    `json:"phone"`
	Email              string    `json:"email"`
	RegistrationDate   string    `json:"registration_date,omitempty"`
	SubscriptionPlan   string    `json:"subscription_plan,omitempty"`
	SubscriptionExpiry string    `json:"subscription_expiry,omitempty"`
	Stats              *GymStats `json:"stats,omitempty"`
}

func (g *Gym) UnmarshalJSON(data []byte) error {
	type plain Gym
	return decodeWithDocID(data, (*plain)(g), &g.ID)
}

// GymCreated is returned by gym registration and admin creation.
type GymCreated struct {
	Message    string `json:"message"`
	GymID      string `json:"gym_id"`
	OwnerEmail string `json:"owner_email,omitempty"`
	QRCode     string `json:"qr_code,omitempty"`
}

// Expiry is the {"message", "new_expiry"} acknowledgement of subscription
// and membership extensions.
type Expiry struct {
	Message   string `json:"message"`
	NewExpiry string `json:"new_expiry"`
}
