package payments

import (
	"context"
	"time"

	"github.com/skairipa08/FundEd/internal/modules/campaigns"
)

// Store is the persistence surface of the payments module. InTx runs fn
// against a transaction-scoped Store; an error from fn rolls everything back.
type Store interface {
	InTx(ctx context.Context, fn func(tx Store) error) error

	RecordEvent(ctx context.Context, ev *ProviderEvent) error // ErrDuplicate on redelivery
	MarkEventProcessed(ctx context.Context, id string, at time.Time) error

	TransactionByKey(ctx context.Context, key string) (PaymentTransaction, error)
	TransactionBySession(ctx context.Context, sessionID string) (PaymentTransaction, error)
	CreateTransaction(ctx context.Context, t *PaymentTransaction) error // ErrDuplicate on key/session clash
	// SetTransactionStatus never moves a paid transaction to another state.
	SetTransactionStatus(ctx context.Context, sessionID, status string, paymentIntent *string) error

	DonationBySession(ctx context.Context, sessionID string) (Donation, error)
	DonationByPaymentIntent(ctx context.Context, paymentIntent string) (Donation, error)
	CreateDonation(ctx context.Context, d *Donation) error // ErrDuplicate on session clash
	MarkDonationRefunded(ctx context.Context, id string, refundCents int64, at time.Time) error
	PaidDonationsByCampaign(ctx context.Context, campaignID string, limit int) ([]Donation, error)
	PaidDonationsByDonor(ctx context.Context, donorID string, limit int) ([]Donation, error)
	PaidTotals(ctx context.Context) (Totals, error)

	Campaign(ctx context.Context, id string) (campaigns.Campaign, error)
	// AdjustCampaignTotals applies the deltas in a single atomic UPDATE.
	AdjustCampaignTotals(ctx context.Context, campaignID string, deltaCents int64, deltaDonors int) error
	// CompleteIfFunded flips an active campaign to completed once raised >= target.
	CompleteIfFunded(ctx context.Context, campaignID string) (bool, error)
}

type Totals struct {
	Count    int64
	SumCents int64
}
