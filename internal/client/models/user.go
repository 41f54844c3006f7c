package models

// Role selects which dashboard a user lands on.
type Role string

const (
	RoleHeadAdmin  Role = "head_admin"
	RoleGymManager Role = "gym_manager"
	RoleTrainer    Role = "trainer"
	RoleTrainee    Role = "trainee"
)

// Roles lists every role the backend knows.
var Roles = []Role{RoleHeadAdmin, RoleGymManager, RoleTrainer, RoleTrainee}

// Valid reports whether r is one of Roles.
func (r Role) Valid() bool {
	for _, v := range Roles {
		if r == v {
			return true
		}
	}
	return false
}

// Identity is the logged-in user's profile. It lives in memory only.
type Identity struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Role    Role   `json:"role"`
	Picture string `json:"picture,omitempty"`
	Phone   string `json:"phone,omitempty"`
}

// UnmarshalJSON accepts the "_id" key /auth/me uses.
func (i *Identity) UnmarshalJSON(data []byte) error {
	type plain Identity
	return decodeWithDocID(data, (*plain)(i), &i.ID)
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     Role   `json:"role"`
	Phone    string `json:"phone,omitempty"`
}

// AuthResponse is returned by login and registration.
type AuthResponse struct {
	Message      string   `json:"message"`
	SessionToken string   `json:"session_token"`
	User         Identity `json:"user"`
}

// SessionData is returned when an OAuth session id is exchanged for a
// bearer credential.
type SessionData struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	Picture      string `json:"picture,omitempty"`
	Role         Role   `json:"role,omitempty"`
	SessionToken string `json:"session_token"`
}

// Identity converts the OAuth payload. OAuth accounts are created as
// trainees, so a missing role means RoleTrainee.
func (s SessionData) Identity() Identity {
	role := s.Role
	if role == "" {
		role = RoleTrainee
	}
	return Identity{ID: s.ID, Email: s.Email, Name: s.Name, Role: role, Picture: s.Picture}
}

// Message is the generic {"message": ...} acknowledgement.
type Message struct {
	Message string `json:"message"`
}
