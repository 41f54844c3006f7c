package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/gymdesk/internal/client/models"
)

type AttendanceAPI struct{ c *Client }

// Scan submits a raw QR payload. The backend decides between check-in and
// check-out.
func (a *AttendanceAPI) Scan(ctx context.Context, payload string) (*models.ScanResult, error) {
	var out models.ScanResult
	body := models.ScanRequest{QRCode: payload}
	if err := a.c.do(ctx, request{method: http.MethodPost, path: "/attendance/scan", body: body}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *AttendanceAPI) MyHistory(ctx context.Context) ([]models.AttendanceRecord, error) {
	var out []models.AttendanceRecord
	if err := a.c.do(ctx, request{method: http.MethodGet, path: "/attendance/my-history"}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GymStats returns the manager's attendance for date (YYYY-MM-DD). An empty
// date means today.
func (a *AttendanceAPI) GymStats(ctx context.Context, date string) (*models.AttendanceStats, error) {
	var q url.Values
	if date != "" {
		q = url.Values{"date": {date}}
	}

	var out models.AttendanceStats
	if err := a.c.do(ctx, request{method: http.MethodGet, path: "/attendance/gym-stats", query: q}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *AttendanceAPI) Checkout(ctx context.Context, gymID string) error {
	q := url.Values{"gym_id": {gymID}}
	return a.c.do(ctx, request{method: http.MethodPost, path: "/attendance/checkout", query: q}, nil)
}
