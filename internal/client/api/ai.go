package api

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/gymdesk/internal/client/models"
)

type AIAPI struct{ c *Client }

func (a *AIAPI) Chat(ctx context.Context, message string) (*models.ChatReply, error) {
	var out models.ChatReply
	body := models.ChatRequest{Message: message}
	if err := a.c.do(ctx, request{method: http.MethodPost, path: "/ai/chat", body: body}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *AIAPI) History(ctx context.Context) ([]models.ChatMessage, error) {
	var out []models.ChatMessage
	if err := a.c.do(ctx, request{method: http.MethodGet, path: "/ai/chat-history"}, &out); err != nil {
		return nil, err
	}
	return out, nil
}
