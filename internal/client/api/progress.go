package api

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/gymdesk/internal/client/models"
)

type ProgressAPI struct{ c *Client }

func (p *ProgressAPI) Log(ctx context.Context, in models.ProgressInput) (*models.ProgressLogged, error) {
	var out models.ProgressLogged
	if err := p.c.do(ctx, request{method: http.MethodPost, path: "/progress", body: in}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (p *ProgressAPI) MyHistory(ctx context.Context) ([]models.ProgressLog, error) {
	var out []models.ProgressLog
	if err := p.c.do(ctx, request{method: http.MethodGet, path: "/progress/my-history"}, &out); err != nil {
		return nil, err
	}
	return out, nil
}
