package payments_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/skairipa08/FundEd/internal/modules/campaigns"
	"github.com/skairipa08/FundEd/internal/modules/payments"
	"github.com/skairipa08/FundEd/internal/modules/payments/paymentstest"
	"github.com/skairipa08/FundEd/internal/modules/users"
	"github.com/skairipa08/FundEd/internal/shared/apperr"
)

type MockGateway struct {
	CreateCheckoutFunc func(ctx context.Context, req payments.CheckoutRequest) (payments.CheckoutSession, error)
	calls              []payments.CheckoutRequest
}

func (m *MockGateway) Name() string { return "fake" }

func (m *MockGateway) CreateCheckout(ctx context.Context, req payments.CheckoutRequest) (payments.CheckoutSession, error) {
	m.calls = append(m.calls, req)
	if m.CreateCheckoutFunc != nil {
		return m.CreateCheckoutFunc(ctx, req)
	}
	id := "cs_fake_" + string(rune('0'+len(m.calls)))
	return payments.CheckoutSession{SessionID: id, URL: "https://pay.example/" + id}, nil
}

func (m *MockGateway) VerifyAndParseWebhook(_ http.Header, _ []byte) (payments.WebhookEvent, error) {
	return payments.WebhookEvent{}, nil
}

func amount(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func checkoutStore() *paymentstest.Store {
	st := paymentstest.NewStore()
	st.AddCampaign(campaigns.Campaign{ID: "campaign_c", Title: "Books for my final year", TargetCents: 500_00, Status: campaigns.StatusActive})
	st.AddCampaign(campaigns.Campaign{ID: "campaign_s", Title: "Suspended", TargetCents: 500_00, Status: campaigns.StatusSuspended})
	return st
}

func TestCheckout_SameKeyCreatesOneSession(t *testing.T) {
	st := checkoutStore()
	p := &MockGateway{}
	svc := payments.NewCheckoutService(st, p, "usd", quietLogger())
	in := payments.CheckoutInput{
		CampaignID:     "campaign_c",
		Amount:         amount("25.50"),
		OriginURL:      "https://funded.example/",
		IdempotencyKey: "retry-key",
	}

	first, err := svc.Checkout(context.Background(), in)
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	for i := 0; i < 3; i++ {
		again, err := svc.Checkout(context.Background(), in)
		if err != nil {
			t.Fatalf("Checkout retry: %v", err)
		}
		if again.URL != first.URL || again.SessionID != first.SessionID {
			t.Errorf("Expected %s, got %s", first.URL, again.URL)
		}
		if !again.Existing {
			t.Errorf("Expected retry to be flagged existing")
		}
	}

	if len(p.calls) != 1 {
		t.Errorf("Expected 1 gateway call, got %d", len(p.calls))
	}
	if n := len(st.Transactions()); n != 1 {
		t.Errorf("Expected 1 transaction, got %d", n)
	}
}

func TestCheckout_BuildsGatewayRequest(t *testing.T) {
	st := checkoutStore()
	p := &MockGateway{}
	svc := payments.NewCheckoutService(st, p, "USD", quietLogger())
	donor := &users.User{ID: "user_1", Email: "logged@example.com"}

	_, err := svc.Checkout(context.Background(), payments.CheckoutInput{
		CampaignID: "campaign_c",
		Amount:     amount("10"),
		DonorEmail: "typed@example.com",
		Anonymous:  true,
		OriginURL:  "https://funded.example",
		Donor:      donor,
	})
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}

	req := p.calls[0]
	if req.AmountCents != 10_00 || req.Currency != "usd" {
		t.Errorf("Expected 1000 usd, got %d %s", req.AmountCents, req.Currency)
	}
	if req.SuccessURL != "https://funded.example/donate/success?session_id={CHECKOUT_SESSION_ID}&campaign_id=campaign_c" {
		t.Errorf("Unexpected success url %s", req.SuccessURL)
	}
	if req.CancelURL != "https://funded.example/campaign/campaign_c" {
		t.Errorf("Unexpected cancel url %s", req.CancelURL)
	}
	if req.CustomerEmail != "logged@example.com" {
		t.Errorf("Expected session email to win, got %s", req.CustomerEmail)
	}
	if req.Metadata["donor_id"] != "user_1" || req.Metadata["anonymous"] != "true" || req.Metadata["donor_name"] != "Anonymous" {
		t.Errorf("Unexpected metadata %v", req.Metadata)
	}
	if !strings.HasPrefix(req.IdempotencyKey, "campaign_c_1000_") || req.Metadata["idempotency_key"] != req.IdempotencyKey {
		t.Errorf("Unexpected generated key %s", req.IdempotencyKey)
	}

	tx := st.Transactions()[0]
	if tx.PaymentStatus != payments.StatusInitiated || tx.DonorID == nil || *tx.DonorID != "user_1" {
		t.Errorf("Unexpected transaction %+v", tx)
	}
}

func TestCheckout_Errors(t *testing.T) {
	gatewayDown := &MockGateway{CreateCheckoutFunc: func(context.Context, payments.CheckoutRequest) (payments.CheckoutSession, error) {
		return payments.CheckoutSession{}, &payments.GatewayError{Message: "Your card was declined."}
	}}

	tests := []struct {
		name     string
		provider payments.Provider
		in       payments.CheckoutInput
		want     error
		status   int
	}{
		{"missing campaign", &MockGateway{}, payments.CheckoutInput{CampaignID: "nope", Amount: amount("5"), OriginURL: "http://x"}, campaigns.ErrCampaignNotFound, 404},
		{"inactive campaign", &MockGateway{}, payments.CheckoutInput{CampaignID: "campaign_s", Amount: amount("5"), OriginURL: "http://x"}, payments.ErrNotAccepting, 400},
		{"no gateway", nil, payments.CheckoutInput{CampaignID: "campaign_c", Amount: amount("5"), OriginURL: "http://x"}, payments.ErrNotConfigured, 503},
		{"zero amount", &MockGateway{}, payments.CheckoutInput{CampaignID: "campaign_c", Amount: amount("0"), OriginURL: "http://x"}, payments.ErrAmountOutOfRange, 400},
		{"too large", &MockGateway{}, payments.CheckoutInput{CampaignID: "campaign_c", Amount: amount("100000.01"), OriginURL: "http://x"}, payments.ErrAmountOutOfRange, 400},
		{"three decimals", &MockGateway{}, payments.CheckoutInput{CampaignID: "campaign_c", Amount: amount("1.005"), OriginURL: "http://x"}, payments.ErrAmountOutOfRange, 400},
		{"no origin", &MockGateway{}, payments.CheckoutInput{CampaignID: "campaign_c", Amount: amount("5")}, payments.ErrOriginRequired, 400},
		{"gateway error", gatewayDown, payments.CheckoutInput{CampaignID: "campaign_c", Amount: amount("5"), OriginURL: "http://x"}, nil, 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := checkoutStore()
			var svc *payments.CheckoutService
			if tt.provider == nil {
				svc = payments.NewCheckoutService(st, nil, "usd", quietLogger())
			} else {
				svc = payments.NewCheckoutService(st, tt.provider, "usd", quietLogger())
			}

			_, err := svc.Checkout(context.Background(), tt.in)
			if err == nil {
				t.Fatal("Expected error")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
			if got := apperr.HTTPStatus(err); got != tt.status {
				t.Errorf("Expected status %d, got %d", tt.status, got)
			}
			if len(st.Transactions()) != 0 {
				t.Errorf("Expected no transaction persisted")
			}
		})
	}
}

func TestCheckout_GatewayMessageIsSurfaced(t *testing.T) {
	p := &MockGateway{CreateCheckoutFunc: func(context.Context, payments.CheckoutRequest) (payments.CheckoutSession, error) {
		return payments.CheckoutSession{}, &payments.GatewayError{Message: "Invalid API Key provided"}
	}}
	svc := payments.NewCheckoutService(checkoutStore(), p, "usd", quietLogger())

	_, err := svc.Checkout(context.Background(), payments.CheckoutInput{CampaignID: "campaign_c", Amount: amount("5"), OriginURL: "http://x"})
	if got := apperr.PublicMessage(err); got != "Invalid API Key provided" {
		t.Errorf("Expected gateway message, got %q", got)
	}
}

func TestStatus(t *testing.T) {
	st := checkoutStore()
	svc := payments.NewCheckoutService(st, &MockGateway{}, "usd", quietLogger())
	res, err := svc.Checkout(context.Background(), payments.CheckoutInput{CampaignID: "campaign_c", Amount: amount("42"), OriginURL: "http://x"})
	if err != nil {
		t.Fatal(err)
	}

	got, err := svc.Status(context.Background(), res.SessionID)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if got.PaymentStatus != payments.StatusInitiated || got.AmountCents != 42_00 || got.CampaignID != "campaign_c" {
		t.Errorf("Unexpected status %+v", got)
	}

	if _, err := svc.Status(context.Background(), "cs_unknown"); !errors.Is(err, payments.ErrStatusNotFound) {
		t.Errorf("Expected ErrStatusNotFound, got %v", err)
	}
}
