package payments

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/skairipa08/FundEd/internal/modules/users"
	"github.com/skairipa08/FundEd/internal/shared/apperr"
	"github.com/skairipa08/FundEd/internal/shared/ids"
	"github.com/skairipa08/FundEd/internal/shared/money"
)

type CheckoutService struct {
	store    Store
	provider Provider // nil when the gateway is not configured
	currency string
	logger   *slog.Logger
	now      func() time.Time
}

func NewCheckoutService(store Store, p Provider, currency string, logger *slog.Logger) *CheckoutService {
	if currency == "" {
		currency = "usd"
	}
	return &CheckoutService{
		store:    store,
		provider: p,
		currency: strings.ToLower(currency),
		logger:   logger,
		now:      time.Now,
	}
}

type CheckoutInput struct {
	CampaignID     string
	Amount         *decimal.Decimal
	DonorName      string
	DonorEmail     string
	Anonymous      bool
	OriginURL      string
	IdempotencyKey string
	Donor          *users.User // logged-in donor, if any
}

type CheckoutResult struct {
	URL       string
	SessionID string
	Existing  bool
}

// Checkout opens a hosted checkout session. A repeated idempotency key
// returns the session created the first time.
func (s *CheckoutService) Checkout(ctx context.Context, in CheckoutInput) (CheckoutResult, error) {
	amount, err := money.DonationCents(in.Amount)
	if err != nil {
		return CheckoutResult{}, ErrAmountOutOfRange
	}
	origin := strings.TrimRight(strings.TrimSpace(in.OriginURL), "/")
	if origin == "" {
		return CheckoutResult{}, ErrOriginRequired
	}

	key := strings.TrimSpace(in.IdempotencyKey)
	if key == "" {
		key = fmt.Sprintf("%s_%d_%s", in.CampaignID, amount, ids.Hex(16))
	}

	// Phase 1: idempotency + campaign gate
	if t, err := s.store.TransactionByKey(ctx, key); err == nil {
		return CheckoutResult{URL: t.CheckoutURL, SessionID: t.SessionID, Existing: true}, nil
	} else if !errors.Is(err, ErrTransactionNotFound) {
		return CheckoutResult{}, err
	}

	c, err := s.store.Campaign(ctx, in.CampaignID)
	if err != nil {
		return CheckoutResult{}, err
	}
	if !c.IsActive() {
		return CheckoutResult{}, ErrNotAccepting
	}
	if s.provider == nil {
		return CheckoutResult{}, ErrNotConfigured
	}

	donorName := strings.TrimSpace(in.DonorName)
	if donorName == "" {
		donorName = "Anonymous"
	}
	var donorID, donorEmail *string
	if in.DonorEmail != "" {
		e := strings.TrimSpace(in.DonorEmail)
		donorEmail = &e
	}
	if in.Donor != nil {
		id, e := in.Donor.ID, in.Donor.Email
		donorID, donorEmail = &id, &e
	}

	meta := map[string]string{
		"campaign_id":     c.ID,
		"donor_name":      donorName,
		"anonymous":       strconv.FormatBool(in.Anonymous),
		"idempotency_key": key,
	}
	if donorID != nil {
		meta["donor_id"] = *donorID
	}
	email := ""
	if donorEmail != nil {
		email = *donorEmail
	}

	// Phase 2: gateway call, outside any transaction
	sess, err := s.provider.CreateCheckout(ctx, CheckoutRequest{
		CampaignID:     c.ID,
		CampaignTitle:  c.Title,
		AmountCents:    amount,
		Currency:       s.currency,
		CustomerEmail:  email,
		SuccessURL:     origin + "/donate/success?session_id={CHECKOUT_SESSION_ID}&campaign_id=" + url.QueryEscape(c.ID),
		CancelURL:      origin + "/campaign/" + url.PathEscape(c.ID),
		Metadata:       meta,
		IdempotencyKey: key,
	})
	if err != nil {
		var gerr *GatewayError
		if errors.As(err, &gerr) {
			s.logger.ErrorContext(ctx, "checkout session create failed", "campaign_id", c.ID, "err", err)
			return CheckoutResult{}, apperr.UpstreamErr(gerr.Message, err)
		}
		return CheckoutResult{}, err
	}

	// Phase 3: persist the attempt before handing out the URL
	now := s.now()
	t := PaymentTransaction{
		ID:             ids.New("txn"),
		Provider:       s.provider.Name(),
		SessionID:      sess.SessionID,
		IdempotencyKey: key,
		CampaignID:     c.ID,
		DonorID:        donorID,
		DonorName:      donorName,
		DonorEmail:     donorEmail,
		AmountCents:    amount,
		Currency:       s.currency,
		Anonymous:      in.Anonymous,
		CheckoutURL:    sess.URL,
		PaymentStatus:  StatusInitiated,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.store.CreateTransaction(ctx, &t); err != nil {
		if errors.Is(err, ErrDuplicate) {
			// a concurrent request with the same key won
			if prev, perr := s.store.TransactionByKey(ctx, key); perr == nil {
				return CheckoutResult{URL: prev.CheckoutURL, SessionID: prev.SessionID, Existing: true}, nil
			}
		}
		return CheckoutResult{}, err
	}

	s.logger.InfoContext(ctx, "checkout session created",
		"campaign_id", c.ID, "session_id", sess.SessionID, "amount_cents", amount)
	return CheckoutResult{URL: sess.URL, SessionID: sess.SessionID}, nil
}

type TransactionStatus struct {
	SessionID     string
	PaymentStatus string
	AmountCents   int64
	Currency      string
	CampaignID    string
}

func (s *CheckoutService) Status(ctx context.Context, sessionID string) (TransactionStatus, error) {
	t, err := s.store.TransactionBySession(ctx, sessionID)
	if errors.Is(err, ErrTransactionNotFound) {
		return TransactionStatus{}, ErrStatusNotFound
	}
	if err != nil {
		return TransactionStatus{}, err
	}
	return TransactionStatus{
		SessionID:     t.SessionID,
		PaymentStatus: t.PaymentStatus,
		AmountCents:   t.AmountCents,
		Currency:      t.Currency,
		CampaignID:    t.CampaignID,
	}, nil
}

