package payments

import (
	"context"
	"net/http"
)

// Gateway event types. The mock provider emits the same names.
const (
	EventCheckoutCompleted   = "checkout.session.completed"
	EventAsyncPaymentSuccess = "checkout.session.async_payment_succeeded"
	EventAsyncPaymentFailed  = "checkout.session.async_payment_failed"
	EventCheckoutExpired     = "checkout.session.expired"
	EventChargeRefunded      = "charge.refunded"
)

type CheckoutRequest struct {
	CampaignID     string
	CampaignTitle  string
	AmountCents    int64
	Currency       string
	CustomerEmail  string
	SuccessURL     string
	CancelURL      string
	Metadata       map[string]string
	IdempotencyKey string
}

type CheckoutSession struct {
	SessionID string
	URL       string
}

type WebhookEvent struct {
	EventID string
	Type    string

	SessionID     string // checkout session events
	PaymentStatus string // checkout.session.completed: "paid" or not yet
	PaymentIntent string
	RefundCents   int64 // charge.refunded: amount_refunded
}

type Provider interface {
	Name() string
	CreateCheckout(ctx context.Context, req CheckoutRequest) (CheckoutSession, error)

	// Webhook: verify signature + parse event
	VerifyAndParseWebhook(headers http.Header, body []byte) (WebhookEvent, error)
}
