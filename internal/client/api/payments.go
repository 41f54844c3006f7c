package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/gymdesk/internal/client/models"
)

type PaymentsAPI struct{ c *Client }

func (p *PaymentsAPI) CreateOrder(ctx context.Context, in models.PaymentInput) (*models.PaymentOrder, error) {
	var out models.PaymentOrder
	if err := p.c.do(ctx, request{method: http.MethodPost, path: "/payments/create-order", body: in}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (p *PaymentsAPI) Verify(ctx context.Context, in models.PaymentVerification) error {
	q := url.Values{}
	q.Set("payment_id", in.PaymentID)
	q.Set("razorpay_payment_id", in.RazorpayPaymentID)
	q.Set("razorpay_signature", in.RazorpaySignature)
	return p.c.do(ctx, request{method: http.MethodPost, path: "/payments/verify", query: q}, nil)
}

func (p *PaymentsAPI) Mine(ctx context.Context) ([]models.Payment, error) {
	var out []models.Payment
	if err := p.c.do(ctx, request{method: http.MethodGet, path: "/payments/my-payments"}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Gym returns the manager's settled payments, newest first.
func (p *PaymentsAPI) Gym(ctx context.Context) ([]models.Payment, error) {
	var out []models.Payment
	if err := p.c.do(ctx, request{method: http.MethodGet, path: "/payments/gym-payments"}, &out); err != nil {
		return nil, err
	}
	return out, nil
}
