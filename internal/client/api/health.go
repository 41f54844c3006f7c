package api

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/gymdesk/internal/client/models"
)

// Health calls the unauthenticated liveness endpoint.
func (c *Client) Health(ctx context.Context) (*models.Health, error) {
	var out models.Health
	if err := c.do(ctx, request{method: http.MethodGet, path: "/health"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
