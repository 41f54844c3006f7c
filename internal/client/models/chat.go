package models

const (
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

type ChatRequest struct {
	Message     string         `json:"message"`
	UserContext map[string]any `json:"user_context,omitempty"`
}

type ChatReply struct {
	Response  string `json:"response"`
	Timestamp string `json:"timestamp,omitempty"`
}

type ChatMessage struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	Role      string `json:"role"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp,omitempty"`
}

// Health is the backend liveness payload.
type Health struct {
	Status string `json:"status"`
}
