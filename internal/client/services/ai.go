package services

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/gymdesk/internal/client/api"
	"github.com/dmitrijs2005/gymdesk/internal/client/models"
)

// MsgChatFailed replaces the reply when the assistant cannot be reached.
const MsgChatFailed = "Sorry, I couldn't process that. Please try again."

type AssistantService struct {
	api *api.Client
}

func NewAssistantService(c *api.Client) *AssistantService {
	return &AssistantService{api: c}
}

// Send returns the assistant's reply. Blank messages are not sent.
func (s *AssistantService) Send(ctx context.Context, message string) (*models.ChatReply, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, api.Invalid("Message is empty")
	}
	return s.api.AI.Chat(ctx, message)
}

func (s *AssistantService) History(ctx context.Context) ([]models.ChatMessage, error) {
	h, err := s.api.AI.History(ctx)
	if err != nil {
		return nil, err
	}
	return nonNil(h), nil
}
