package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/skairipa08/FundEd/internal/modules/campaigns"
	"github.com/skairipa08/FundEd/internal/modules/payments"
	"github.com/skairipa08/FundEd/internal/modules/payments/paymentstest"
	"github.com/skairipa08/FundEd/internal/modules/users"
)

func newDonationFixture(t *testing.T, user *users.User) (*paymentstest.Store, http.Handler) {
	t.Helper()
	st := paymentstest.NewStore()
	st.AddCampaign(campaigns.Campaign{ID: "campaign_a", Title: "Tuition", TargetCents: 1000_00, Status: campaigns.StatusActive})
	st.AddCampaign(campaigns.Campaign{ID: "campaign_s", Title: "Paused", TargetCents: 1000_00, Status: campaigns.StatusSuspended})

	checkout := payments.NewCheckoutService(st, payments.NewMockProvider("", quietLogger()), "usd", quietLogger())
	h := NewDonationHandler(checkout, payments.NewDonationService(st))

	r := newEngine(user)
	r.POST("/api/donations/checkout", h.Checkout)
	r.GET("/api/donations/status/:session_id", h.Status)
	r.GET("/api/donations/my", h.Mine)
	r.GET("/api/donations/campaign/:campaign_id", h.Wall)
	return st, r
}

func TestDonationHandler_CheckoutIsIdempotent(t *testing.T) {
	st, r := newDonationFixture(t, nil)
	body := map[string]any{
		"campaign_id":     "campaign_a",
		"amount":          25.5,
		"donor_name":      "Dana",
		"origin_url":      "https://funded.example",
		"idempotency_key": "retry-1",
	}

	w1 := doJSON(r, http.MethodPost, "/api/donations/checkout", body)
	if w1.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w1.Code, w1.Body.String())
	}
	w2 := doJSON(r, http.MethodPost, "/api/donations/checkout", body)

	d1, _ := decodeBody(t, w1)["data"].(map[string]any)
	d2, _ := decodeBody(t, w2)["data"].(map[string]any)
	if d1["session_id"] == "" || d1["session_id"] != d2["session_id"] || d1["url"] != d2["url"] {
		t.Errorf("Expected the same session for a retried key, got %v and %v", d1, d2)
	}
	txns := st.Transactions()
	if len(txns) != 1 {
		t.Fatalf("Expected 1 transaction, got %d", len(txns))
	}
	if txns[0].AmountCents != 25_50 || txns[0].PaymentStatus != payments.StatusInitiated {
		t.Errorf("Unexpected transaction %+v", txns[0])
	}
}

func TestDonationHandler_CheckoutErrors(t *testing.T) {
	_, r := newDonationFixture(t, nil)
	tests := []struct {
		name string
		body map[string]any
		want int
	}{
		{"missing campaign", map[string]any{"amount": 10, "origin_url": "https://x"}, http.StatusBadRequest},
		{"zero amount", map[string]any{"campaign_id": "campaign_a", "amount": 0, "origin_url": "https://x"}, http.StatusBadRequest},
		{"too large", map[string]any{"campaign_id": "campaign_a", "amount": 100000.01, "origin_url": "https://x"}, http.StatusBadRequest},
		{"three decimals", map[string]any{"campaign_id": "campaign_a", "amount": 1.005, "origin_url": "https://x"}, http.StatusBadRequest},
		{"no origin", map[string]any{"campaign_id": "campaign_a", "amount": 10}, http.StatusBadRequest},
		{"bad email", map[string]any{"campaign_id": "campaign_a", "amount": 10, "origin_url": "https://x", "donor_email": "nope"}, http.StatusBadRequest},
		{"unknown campaign", map[string]any{"campaign_id": "campaign_x", "amount": 10, "origin_url": "https://x"}, http.StatusNotFound},
		{"inactive campaign", map[string]any{"campaign_id": "campaign_s", "amount": 10, "origin_url": "https://x"}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(r, http.MethodPost, "/api/donations/checkout", tt.body)
			if w.Code != tt.want {
				t.Errorf("Expected %d, got %d: %s", tt.want, w.Code, w.Body.String())
			}
		})
	}
}

func TestDonationHandler_CheckoutUnconfigured(t *testing.T) {
	st := paymentstest.NewStore()
	st.AddCampaign(campaigns.Campaign{ID: "campaign_a", Status: campaigns.StatusActive})
	h := NewDonationHandler(payments.NewCheckoutService(st, nil, "usd", quietLogger()), payments.NewDonationService(st))
	r := newEngine(nil)
	r.POST("/api/donations/checkout", h.Checkout)

	w := doJSON(r, http.MethodPost, "/api/donations/checkout",
		map[string]any{"campaign_id": "campaign_a", "amount": 10, "origin_url": "https://x"})
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected 503, got %d", w.Code)
	}
}

func TestDonationHandler_StatusAndWall(t *testing.T) {
	st, r := newDonationFixture(t, nil)
	st.AddTransaction(payments.PaymentTransaction{
		ID: "txn_1", SessionID: "cs_1", IdempotencyKey: "k", CampaignID: "campaign_a",
		AmountCents: 12_34, Currency: "usd", PaymentStatus: payments.StatusPaid,
	})
	st.AddDonation(payments.Donation{
		ID: "donation_1", CampaignID: "campaign_a", DonorName: "Secret", AmountCents: 12_34,
		Anonymous: true, GatewaySessionID: "cs_1", PaymentStatus: payments.DonationPaid, CreatedAt: time.Now(),
	})

	w := doJSON(r, http.MethodGet, "/api/donations/status/cs_1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	data, _ := decodeBody(t, w)["data"].(map[string]any)
	if data["payment_status"] != "paid" || data["amount"] != 12.34 {
		t.Errorf("Unexpected status payload %v", data)
	}

	if w := doJSON(r, http.MethodGet, "/api/donations/status/cs_missing", nil); w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown session, got %d", w.Code)
	}

	w = doJSON(r, http.MethodGet, "/api/donations/campaign/campaign_a", nil)
	wall, _ := decodeBody(t, w)["data"].([]any)
	if len(wall) != 1 {
		t.Fatalf("Expected 1 wall entry, got %d", len(wall))
	}
	if entry := wall[0].(map[string]any); entry["name"] != "Anonymous" {
		t.Errorf("Expected anonymous donor name hidden, got %v", entry["name"])
	}
}

func TestDonationHandler_MineUsesSessionDonor(t *testing.T) {
	donor := &users.User{ID: "user_d", Email: "d@example.com", Role: users.RoleDonor}
	st, r := newDonationFixture(t, donor)
	id := donor.ID
	st.AddDonation(payments.Donation{
		ID: "donation_1", CampaignID: "campaign_a", DonorID: &id, AmountCents: 5_00,
		GatewaySessionID: "cs_1", PaymentStatus: payments.DonationPaid, CreatedAt: time.Now(),
	})
	st.AddDonation(payments.Donation{
		ID: "donation_2", CampaignID: "campaign_a", AmountCents: 7_00,
		GatewaySessionID: "cs_2", PaymentStatus: payments.DonationPaid, CreatedAt: time.Now(),
	})

	w := doJSON(r, http.MethodGet, "/api/donations/my", nil)
	list, _ := decodeBody(t, w)["data"].([]any)
	if len(list) != 1 {
		t.Fatalf("Expected only the donor's donation, got %d", len(list))
	}
	item := list[0].(map[string]any)
	if c, _ := item["campaign"].(map[string]any); c["title"] != "Tuition" {
		t.Errorf("Expected donation enriched with its campaign, got %v", item["campaign"])
	}
}
