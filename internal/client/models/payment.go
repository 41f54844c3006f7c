package models

type PaymentType string

const (
	PaymentNewMembership    PaymentType = "new_membership"
	PaymentRenewal          PaymentType = "renewal"
	PaymentPersonalTraining PaymentType = "personal_training"
	PaymentDietPlan         PaymentType = "diet_plan"
	PaymentAddOn            PaymentType = "add_on"
)

// PaymentTypes lists every payment type the backend accepts.
var PaymentTypes = []PaymentType{
	PaymentNewMembership, PaymentRenewal, PaymentPersonalTraining, PaymentDietPlan, PaymentAddOn,
}

// Valid reports whether t is one of PaymentTypes.
func (t PaymentType) Valid() bool {
	for _, v := range PaymentTypes {
		if t == v {
			return true
		}
	}
	return false
}

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentSuccess PaymentStatus = "success"
	PaymentFailed  PaymentStatus = "failed"
)

type Payment struct {
	ID                string        `json:"id"`
	MemberID          string        `json:"member_id"`
	GymID             string        `json:"gym_id"`
	Amount            float64       `json:"amount"`
	PaymentType       PaymentType   `json:"payment_type"`
	Status            PaymentStatus `json:"status"`
	RazorpayOrderID   string        `json:"razorpay_order_id,omitempty"`
	RazorpayPaymentID string        `json:"razorpay_payment_id,omitempty"`
	InvoiceNumber     string        `json:"invoice_number,omitempty"`
	CreatedAt         string        `json:"created_at,omitempty"`
	PaymentDate       string        `json:"payment_date,omitempty"`
	MemberName        string        `json:"member_name,omitempty"`
}

type PaymentInput struct {
	MemberID    string      `json:"member_id"`
	Amount      float64     `json:"amount"`
	PaymentType PaymentType `json:"payment_type"`
}

// PaymentOrder is the gateway order created for a payment. Amount is in the
// currency's minor unit.
type PaymentOrder struct {
	OrderID   string  `json:"order_id"`
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	PaymentID string  `json:"payment_id"`
}

// PaymentVerification carries the gateway callback values. The backend
// reads them from the query string.
type PaymentVerification struct {
	PaymentID         string
	RazorpayPaymentID string
	RazorpaySignature string
}

// TotalAmount sums the amounts of payments.
func TotalAmount(payments []Payment) float64 {
	var total float64
	for _, p := range payments {
		total += p.Amount
	}
	return total
}
