package payments

import (
	"context"
	"fmt"
	"log"

	"github.com/stripe/stripe-go/v82"
)

type StripeGateway struct {
	client *stripe.Client
}

func NewStripeGateway(client *stripe.Client) *StripeGateway {
	return &StripeGateway{client: client}
}

func (g *StripeGateway) CreatePaymentIntent(ctx context.Context, params CreateIntentParams) (*Intent, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()
	currency := params.Currency
	if currency == "" {
		currency = "usd"
	}
	createParams := &stripe.PaymentIntentCreateParams{
		Amount:        stripe.Int64(params.Amount),
		Currency:      stripe.String(currency),
		CaptureMethod: stripe.String(string(params.CaptureMode)),
		Metadata:      params.Metadata,
	}
	if params.CustomerID != "" {
		createParams.Customer = stripe.String(params.CustomerID)
	}
	if params.PaymentMethod != nil {
		createParams.PaymentMethod = params.PaymentMethod
	}
	pi, err := g.client.V1PaymentIntents.Create(ctx, createParams)
	if err != nil {
		return nil, fmt.Errorf("stripe: create payment intent: %w", err)
	}
	log.Printf("[PaymentIntent] ID: %s %s\n", pi.ID, pi.Status)
	return &Intent{PaymentID: pi.ID, ClientSecret: pi.ClientSecret}, nil
}

func (g *StripeGateway) CapturePaymentIntent(ctx context.Context, id string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()
	pi, err := g.client.V1PaymentIntents.Capture(ctx, id, &stripe.PaymentIntentCaptureParams{})
	if err != nil {
		return "", fmt.Errorf("stripe: capture payment intent [%s]: %w", id, err)
	}
	return string(pi.Status), nil
}

func (g *StripeGateway) CancelPaymentIntent(ctx context.Context, id string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()
	pi, err := g.client.V1PaymentIntents.Cancel(ctx, id, &stripe.PaymentIntentCancelParams{})
	if err != nil {
		return "", fmt.Errorf("stripe: cancel payment intent [%s]: %w", id, err)
	}
	return string(pi.Status), nil
}

func (g *StripeGateway) RetrievePaymentMethods(ctx context.Context, customerID string) ([]PaymentMethod, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()
	list := g.client.V1PaymentMethods.List(ctx, &stripe.PaymentMethodListParams{
		Customer: stripe.String(customerID),
	})
	paymentMethods := make([]PaymentMethod, 0)
	for pm, err := range list {
		if err != nil {
			return nil, fmt.Errorf("stripe: list payment methods for [%s]: %w", customerID, err)
		}
		paymentMethods = append(paymentMethods, PaymentMethod{ID: pm.ID, Type: string(pm.Type)})
	}
	return paymentMethods, nil
}
