package payments

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/stripe/stripe-go/v76/webhook"

	"github.com/skairipa08/FundEd/internal/shared/ids"
)

const (
	MockSignatureHeader = "X-Mock-Signature"
	mockTolerance       = 5 * time.Minute
)

// MockPayload is the body the mock gateway posts to /api/webhooks/mock.
type MockPayload struct {
	ID   string          `json:"id"`
	Type string          `json:"type"`
	Data MockPayloadData `json:"data"`
}

type MockPayloadData struct {
	SessionID      string `json:"session_id,omitempty"`
	PaymentIntent  string `json:"payment_intent,omitempty"`
	PaymentStatus  string `json:"payment_status,omitempty"`
	AmountRefunded int64  `json:"amount_refunded,omitempty"`
}

// MockProvider is a local stand-in for the gateway. Checkout sessions are
// minted in-process and webhooks are HMAC-SHA256 signed with a shared secret.
type MockProvider struct {
	secret []byte
	logger *slog.Logger
	now    func() time.Time

	mu       sync.Mutex
	sessions map[string]CheckoutSession // by idempotency key
}

func NewMockProvider(secret string, logger *slog.Logger) *MockProvider {
	return &MockProvider{
		secret:   []byte(secret),
		logger:   logger,
		now:      time.Now,
		sessions: map[string]CheckoutSession{},
	}
}

func (p *MockProvider) Name() string { return "mock" }

func (p *MockProvider) CreateCheckout(_ context.Context, req CheckoutRequest) (CheckoutSession, error) {
	if req.AmountCents <= 0 {
		return CheckoutSession{}, &GatewayError{Message: "Invalid positive integer"}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if s, ok := p.sessions[req.IdempotencyKey]; ok && req.IdempotencyKey != "" {
		return s, nil
	}
	id := "cs_mock_" + ids.Hex(24)
	s := CheckoutSession{
		SessionID: id,
		URL:       strings.ReplaceAll(req.SuccessURL, "{CHECKOUT_SESSION_ID}", id),
	}
	if req.IdempotencyKey != "" {
		p.sessions[req.IdempotencyKey] = s
	}
	return s, nil
}

func (p *MockProvider) VerifyAndParseWebhook(headers http.Header, body []byte) (WebhookEvent, error) {
	if len(p.secret) > 0 {
		if err := p.verify(headers.Get(MockSignatureHeader), body); err != nil {
			return WebhookEvent{}, err
		}
	} else {
		p.logger.Warn("mock webhook secret not set, skipping signature verification")
	}

	var pl MockPayload
	if err := json.Unmarshal(body, &pl); err != nil {
		return WebhookEvent{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if pl.ID == "" || pl.Type == "" {
		return WebhookEvent{}, fmt.Errorf("%w: id and type are required", ErrInvalidPayload)
	}
	return WebhookEvent{
		EventID:       pl.ID,
		Type:          pl.Type,
		SessionID:     pl.Data.SessionID,
		PaymentStatus: pl.Data.PaymentStatus,
		PaymentIntent: pl.Data.PaymentIntent,
		RefundCents:   pl.Data.AmountRefunded,
	}, nil
}

// The header uses the gateway's format, t=<unix>,v1=<hex>, so the stripe
// webhook helpers check the MAC. Tolerance runs on p.now.
func (p *MockProvider) verify(header string, body []byte) error {
	if header == "" {
		return ErrMissingSignature
	}
	ts, ok := signatureTime(header)
	if !ok {
		return ErrInvalidSignature
	}

	age := p.now().Sub(ts)
	if age > mockTolerance || age < -mockTolerance {
		return fmt.Errorf("%w: timestamp outside tolerance", ErrInvalidSignature)
	}

	if err := webhook.ValidatePayloadIgnoringTolerance(body, header, string(p.secret)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	return nil
}

func signatureTime(header string) (time.Time, bool) {
	for _, part := range strings.Split(header, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok || k != "t" {
			continue
		}
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n <= 0 {
			return time.Time{}, false
		}
		return time.Unix(n, 0), true
	}
	return time.Time{}, false
}

// SignMock computes the v1 signature of body at unix time t.
func SignMock(secret []byte, t int64, body []byte) string {
	return hex.EncodeToString(webhook.ComputeSignature(time.Unix(t, 0), body, string(secret)))
}

// MockSignatureValue builds the full X-Mock-Signature header value.
func MockSignatureValue(secret []byte, t int64, body []byte) string {
	return fmt.Sprintf("t=%d,v1=%s", t, SignMock(secret, t, body))
}
