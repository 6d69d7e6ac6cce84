package payments

import (
	"context"
	"time"
)

// CaptureMode selects the authorization style: Manual holds funds for a
// later capture (bids), Automatic charges on confirmation (checkout).
type CaptureMode string

const (
	CaptureManual    CaptureMode = "manual"
	CaptureAutomatic CaptureMode = "automatic"
)

type CreateIntentParams struct {
	Amount        int64
	Currency      string
	CustomerID    string
	PaymentMethod *string
	CaptureMode   CaptureMode
	Metadata      map[string]string
}

type Intent struct {
	PaymentID    string
	ClientSecret string
}

type PaymentMethod struct {
	ID   string
	Type string
}

// Gateway is the payment processor contract consumed by the auction
// engine and the checkout orchestrator. Errors are wrapped collaborator
// failures; retrying is the caller's decision.
type Gateway interface {
	CreatePaymentIntent(ctx context.Context, params CreateIntentParams) (*Intent, error)
	CapturePaymentIntent(ctx context.Context, id string) (string, error)
	CancelPaymentIntent(ctx context.Context, id string) (string, error)
	RetrievePaymentMethods(ctx context.Context, customerID string) ([]PaymentMethod, error)
}

// Calls to the processor are blocking I/O with no timeout of their own.
const callTimeout = 10 * time.Second
