package payments

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/skairipa08/FundEd/internal/modules/campaigns"
	"github.com/skairipa08/FundEd/internal/shared/ids"
)

// Outcome reports what a delivered webhook event did.
type Outcome string

const (
	OutcomeApplied   Outcome = "applied"
	OutcomeDuplicate Outcome = "duplicate"
	OutcomeIgnored   Outcome = "ignored"
)

// Notifier receives donations after they are committed.
type Notifier interface {
	DonationReceived(ctx context.Context, d Donation, campaignTitle string) error
}

type WebhookService struct {
	store    Store
	logger   *slog.Logger
	notifier Notifier
	now      func() time.Time
}

func NewWebhookService(store Store, logger *slog.Logger) *WebhookService {
	return &WebhookService{store: store, logger: logger, now: time.Now}
}

func (s *WebhookService) SetNotifier(n Notifier) { s.notifier = n }

// errDonationExists aborts the completion transaction when the donation
// insert hits the unique index.
var errDonationExists = errors.New("donation already recorded")

type applied struct {
	outcome  Outcome
	donation *Donation
	campaign string
}

// Handle records the event and applies its effects in one database
// transaction. A returned error means nothing was persisted and the
// gateway should redeliver.
func (s *WebhookService) Handle(ctx context.Context, provider string, ev WebhookEvent, rawBody []byte) (Outcome, error) {
	payload := datatypes.JSON(rawBody)
	if !json.Valid(rawBody) {
		payload = datatypes.JSON(`{}`)
	}

	var res applied
	err := s.store.InTx(ctx, func(tx Store) error {
		now := s.now()
		pe := ProviderEvent{
			ID:          uuid.NewString(),
			Provider:    provider,
			EventID:     ev.EventID,
			EventType:   ev.Type,
			PayloadJSON: payload,
			ReceivedAt:  now,
		}
		if err := tx.RecordEvent(ctx, &pe); err != nil {
			if errors.Is(err, ErrDuplicate) {
				res = applied{outcome: OutcomeDuplicate}
				return nil
			}
			return err
		}

		var err error
		res, err = s.apply(ctx, tx, ev)
		if err != nil {
			return err
		}
		return tx.MarkEventProcessed(ctx, pe.ID, now)
	})

	switch {
	case errors.Is(err, errDonationExists):
		s.logger.InfoContext(ctx, "donation already exists", "session_id", ev.SessionID, "event_id", ev.EventID)
		return OutcomeDuplicate, nil
	case err != nil:
		s.logger.ErrorContext(ctx, "webhook event apply failed",
			"provider", provider, "event_id", ev.EventID, "type", ev.Type, "err", err)
		return "", err
	}

	if res.outcome == OutcomeDuplicate {
		s.logger.InfoContext(ctx, "webhook event deduplicated", "provider", provider, "event_id", ev.EventID, "type", ev.Type)
		return res.outcome, nil
	}
	s.logger.InfoContext(ctx, "webhook event processed",
		"provider", provider, "event_id", ev.EventID, "type", ev.Type, "outcome", string(res.outcome))

	if res.donation != nil {
		s.notify(ctx, *res.donation, res.campaign)
	}
	return res.outcome, nil
}

func (s *WebhookService) apply(ctx context.Context, tx Store, ev WebhookEvent) (applied, error) {
	switch ev.Type {
	case EventCheckoutCompleted:
		if ev.PaymentStatus != StatusPaid {
			s.logger.InfoContext(ctx, "checkout completed without payment", "session_id", ev.SessionID, "payment_status", ev.PaymentStatus)
			return applied{outcome: OutcomeIgnored}, nil
		}
		return s.complete(ctx, tx, ev)
	case EventAsyncPaymentSuccess:
		return s.complete(ctx, tx, ev)
	case EventAsyncPaymentFailed:
		return s.settle(ctx, tx, ev, StatusFailed)
	case EventCheckoutExpired:
		return s.settle(ctx, tx, ev, StatusExpired)
	case EventChargeRefunded:
		return s.refund(ctx, tx, ev)
	default:
		s.logger.InfoContext(ctx, "unhandled webhook event", "type", ev.Type, "event_id", ev.EventID)
		return applied{outcome: OutcomeIgnored}, nil
	}
}

// complete turns a paid checkout session into a donation and credits the
// campaign.
func (s *WebhookService) complete(ctx context.Context, tx Store, ev WebhookEvent) (applied, error) {
	t, err := tx.TransactionBySession(ctx, ev.SessionID)
	if errors.Is(err, ErrTransactionNotFound) {
		s.logger.WarnContext(ctx, "transaction not found for session", "session_id", ev.SessionID)
		return applied{outcome: OutcomeIgnored}, nil
	}
	if err != nil {
		return applied{}, err
	}

	if _, err := tx.DonationBySession(ctx, ev.SessionID); err == nil {
		s.logger.InfoContext(ctx, "donation already exists", "session_id", ev.SessionID)
		return applied{outcome: OutcomeDuplicate}, nil
	} else if !errors.Is(err, ErrDonationNotFound) {
		return applied{}, err
	}

	now := s.now()
	d := Donation{
		ID:               ids.New("donation"),
		CampaignID:       t.CampaignID,
		DonorID:          t.DonorID,
		DonorName:        t.DonorName,
		DonorEmail:       t.DonorEmail,
		AmountCents:      t.AmountCents,
		Currency:         t.Currency,
		Anonymous:        t.Anonymous,
		GatewaySessionID: ev.SessionID,
		PaymentIntent:    optional(ev.PaymentIntent),
		PaymentStatus:    DonationPaid,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := tx.CreateDonation(ctx, &d); err != nil {
		if errors.Is(err, ErrDuplicate) {
			return applied{}, errDonationExists
		}
		return applied{}, err
	}
	if err := tx.SetTransactionStatus(ctx, ev.SessionID, StatusPaid, optional(ev.PaymentIntent)); err != nil {
		return applied{}, err
	}
	if err := tx.AdjustCampaignTotals(ctx, t.CampaignID, t.AmountCents, 1); err != nil {
		return applied{}, err
	}
	completed, err := tx.CompleteIfFunded(ctx, t.CampaignID)
	if err != nil {
		return applied{}, err
	}

	c, err := tx.Campaign(ctx, t.CampaignID)
	if err != nil && !errors.Is(err, campaigns.ErrCampaignNotFound) {
		return applied{}, err
	}
	s.logger.InfoContext(ctx, "donation recorded",
		"donation_id", d.ID, "campaign_id", d.CampaignID, "amount_cents", d.AmountCents, "campaign_completed", completed)
	return applied{outcome: OutcomeApplied, donation: &d, campaign: c.Title}, nil
}

func (s *WebhookService) settle(ctx context.Context, tx Store, ev WebhookEvent, status string) (applied, error) {
	t, err := tx.TransactionBySession(ctx, ev.SessionID)
	if errors.Is(err, ErrTransactionNotFound) {
		s.logger.WarnContext(ctx, "transaction not found for session", "session_id", ev.SessionID)
		return applied{outcome: OutcomeIgnored}, nil
	}
	if err != nil {
		return applied{}, err
	}
	if t.PaymentStatus == StatusPaid {
		s.logger.WarnContext(ctx, "ignoring downgrade of paid transaction", "session_id", ev.SessionID, "status", status)
		return applied{outcome: OutcomeIgnored}, nil
	}
	if err := tx.SetTransactionStatus(ctx, ev.SessionID, status, nil); err != nil {
		return applied{}, err
	}
	return applied{outcome: OutcomeApplied}, nil
}

// refund does not clamp: a second distinct refund event for the same
// payment intent decrements the campaign again.
func (s *WebhookService) refund(ctx context.Context, tx Store, ev WebhookEvent) (applied, error) {
	if ev.PaymentIntent == "" {
		s.logger.WarnContext(ctx, "refund without payment intent", "event_id", ev.EventID)
		return applied{outcome: OutcomeIgnored}, nil
	}
	d, err := tx.DonationByPaymentIntent(ctx, ev.PaymentIntent)
	if errors.Is(err, ErrDonationNotFound) {
		s.logger.WarnContext(ctx, "donation not found for refund", "payment_intent", ev.PaymentIntent)
		return applied{outcome: OutcomeIgnored}, nil
	}
	if err != nil {
		return applied{}, err
	}
	if d.PaymentStatus == DonationRefunded {
		s.logger.WarnContext(ctx, "donation already refunded, applying again",
			"donation_id", d.ID, "payment_intent", ev.PaymentIntent, "refund_cents", ev.RefundCents)
	}

	if err := tx.MarkDonationRefunded(ctx, d.ID, ev.RefundCents, s.now()); err != nil {
		return applied{}, err
	}
	if err := tx.AdjustCampaignTotals(ctx, d.CampaignID, -ev.RefundCents, -1); err != nil {
		return applied{}, err
	}
	s.logger.InfoContext(ctx, "donation refunded", "donation_id", d.ID, "campaign_id", d.CampaignID, "refund_cents", ev.RefundCents)
	return applied{outcome: OutcomeApplied}, nil
}

func (s *WebhookService) notify(ctx context.Context, d Donation, campaignTitle string) {
	if s.notifier == nil || d.DonorEmail == nil || *d.DonorEmail == "" {
		return
	}
	if err := s.notifier.DonationReceived(ctx, d, campaignTitle); err != nil {
		s.logger.WarnContext(ctx, "donation receipt not sent", "donation_id", d.ID, "err", err)
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
