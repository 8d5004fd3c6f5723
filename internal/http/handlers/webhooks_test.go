package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/skairipa08/FundEd/internal/modules/campaigns"
	"github.com/skairipa08/FundEd/internal/modules/payments"
	"github.com/skairipa08/FundEd/internal/modules/payments/paymentstest"
)

const testMockSecret = "whsec_test"

type countingRecorder struct {
	events map[string]int
}

func (r *countingRecorder) WebhookEvent(eventType, outcome string) {
	r.events[eventType+"/"+outcome]++
}

type webhookFixture struct {
	store    *paymentstest.Store
	recorder *countingRecorder
	handler  *WebhookHandler
}

func newWebhookFixture(t *testing.T) webhookFixture {
	t.Helper()
	st := paymentstest.NewStore()
	st.AddCampaign(campaigns.Campaign{ID: "campaign_c", Title: "Books", TargetCents: 50_00, Status: campaigns.StatusActive})
	st.AddTransaction(payments.PaymentTransaction{
		ID:             "txn_1",
		Provider:       "mock",
		SessionID:      "cs_mock_1",
		IdempotencyKey: "key_1",
		CampaignID:     "campaign_c",
		DonorName:      "Dana",
		AmountCents:    20_00,
		Currency:       "usd",
		PaymentStatus:  payments.StatusInitiated,
	})

	rec := &countingRecorder{events: map[string]int{}}
	svc := payments.NewWebhookService(st, quietLogger())
	h := NewWebhookHandler(quietLogger(), svc, rec, payments.NewMockProvider(testMockSecret, quietLogger()))
	return webhookFixture{store: st, recorder: rec, handler: h}
}

func (f webhookFixture) post(t *testing.T, provider string, payload payments.MockPayload, sign bool) *httptest.ResponseRecorder {
	t.Helper()
	body, _ := json.Marshal(payload)

	r := newEngine(nil)
	r.POST("/api/webhooks/:provider", f.handler.Handle)

	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/"+provider, bytes.NewReader(body))
	if sign {
		req.Header.Set(payments.MockSignatureHeader,
			payments.MockSignatureValue([]byte(testMockSecret), time.Now().Unix(), body))
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func completedPayload(id string) payments.MockPayload {
	return payments.MockPayload{
		ID:   id,
		Type: payments.EventCheckoutCompleted,
		Data: payments.MockPayloadData{SessionID: "cs_mock_1", PaymentIntent: "pi_1", PaymentStatus: "paid"},
	}
}

func TestWebhookHandler_CompletionAppliedOnce(t *testing.T) {
	f := newWebhookFixture(t)

	w := f.post(t, "mock", completedPayload("evt_1"), true)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	if body["success"] != true || body["event_type"] != payments.EventCheckoutCompleted {
		t.Errorf("Expected success ack with event type, got %v", body)
	}

	// gateway redelivers the same event
	w = f.post(t, "mock", completedPayload("evt_1"), true)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 on redelivery, got %d", w.Code)
	}
	if got := decodeBody(t, w)["outcome"]; got != string(payments.OutcomeDuplicate) {
		t.Errorf("Expected duplicate outcome, got %v", got)
	}

	if n := len(f.store.Donations()); n != 1 {
		t.Errorf("Expected 1 donation, got %d", n)
	}
	if f.recorder.events[payments.EventCheckoutCompleted+"/applied"] != 1 ||
		f.recorder.events[payments.EventCheckoutCompleted+"/duplicate"] != 1 {
		t.Errorf("Expected applied and duplicate to be counted, got %v", f.recorder.events)
	}
}

func TestWebhookHandler_RejectsBadSignature(t *testing.T) {
	f := newWebhookFixture(t)

	w := f.post(t, "mock", completedPayload("evt_1"), false)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", w.Code)
	}
	if decodeBody(t, w)["success"] != false {
		t.Error("Expected success=false")
	}
	if len(f.store.Donations()) != 0 || len(f.store.Events()) != 0 {
		t.Error("Expected nothing persisted for an unsigned delivery")
	}
	if f.recorder.events["/rejected"] != 1 {
		t.Errorf("Expected one rejection counted, got %v", f.recorder.events)
	}
}

func TestWebhookHandler_ProcessingErrorAsksForRetry(t *testing.T) {
	f := newWebhookFixture(t)
	f.store.Fail["AdjustCampaignTotals"] = errors.New("lock wait timeout")

	w := f.post(t, "mock", completedPayload("evt_1"), true)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("Expected 500, got %d", w.Code)
	}
	body := decodeBody(t, w)
	if body["success"] != false || body["error"] != "webhook processing failed" {
		t.Errorf("Unexpected body %v", body)
	}
	if len(f.store.Events()) != 0 {
		t.Error("Expected the event row to roll back so the redelivery is processed")
	}

	delete(f.store.Fail, "AdjustCampaignTotals")
	if w := f.post(t, "mock", completedPayload("evt_1"), true); w.Code != http.StatusOK {
		t.Fatalf("Expected redelivery to succeed, got %d", w.Code)
	}
	if n := len(f.store.Donations()); n != 1 {
		t.Errorf("Expected 1 donation after retry, got %d", n)
	}
}

func TestWebhookHandler_UnknownEventAcknowledged(t *testing.T) {
	f := newWebhookFixture(t)

	w := f.post(t, "mock", payments.MockPayload{ID: "evt_9", Type: "customer.created"}, true)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	if got := decodeBody(t, w)["outcome"]; got != string(payments.OutcomeIgnored) {
		t.Errorf("Expected ignored outcome, got %v", got)
	}
}

func TestWebhookHandler_UnknownProvider(t *testing.T) {
	f := newWebhookFixture(t)

	w := f.post(t, "stripe", completedPayload("evt_1"), true)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for an unconfigured provider, got %d", w.Code)
	}
}
