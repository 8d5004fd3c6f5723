package payments

import (
	"time"

	"gorm.io/datatypes"
)

// PaymentTransaction statuses, one row per checkout attempt.
const (
	StatusInitiated = "initiated"
	StatusPaid      = "paid"
	StatusFailed    = "failed"
	StatusExpired   = "expired"
)

// Donation statuses.
const (
	DonationPaid     = "paid"
	DonationRefunded = "refunded"
)

type PaymentTransaction struct {
	ID             string    `gorm:"type:varchar(32);primaryKey"`
	Provider       string    `gorm:"type:varchar(32);not null"`
	SessionID      string    `gorm:"type:varchar(255);not null;uniqueIndex:ux_payment_transactions_session_id"`
	IdempotencyKey string    `gorm:"type:varchar(191);not null;uniqueIndex:ux_payment_transactions_idempotency_key"`
	CampaignID     string    `gorm:"type:varchar(32);not null;index:ix_payment_transactions_campaign_id"`
	DonorID        *string   `gorm:"type:varchar(32)"`
	DonorName      string    `gorm:"type:varchar(255);not null"`
	DonorEmail     *string   `gorm:"type:varchar(255)"`
	AmountCents    int64     `gorm:"not null"`
	Currency       string    `gorm:"type:char(3);not null"`
	Anonymous      bool      `gorm:"not null;default:false"`
	CheckoutURL    string    `gorm:"type:varchar(2048);not null"`
	PaymentIntent  *string   `gorm:"type:varchar(255)"`
	PaymentStatus  string    `gorm:"type:varchar(16);not null"`
	CreatedAt      time.Time `gorm:"type:datetime(3);not null"`
	UpdatedAt      time.Time `gorm:"type:datetime(3);not null"`
}

func (PaymentTransaction) TableName() string { return "payment_transactions" }

// Donation is money actually received. GatewaySessionID is unique, which is
// what makes completion idempotent.
type Donation struct {
	ID               string     `gorm:"type:varchar(32);primaryKey"`
	CampaignID       string     `gorm:"type:varchar(32);not null;index:ix_donations_campaign_status,priority:1"`
	DonorID          *string    `gorm:"type:varchar(32);index:ix_donations_donor_id"`
	DonorName        string     `gorm:"type:varchar(255);not null"`
	DonorEmail       *string    `gorm:"type:varchar(255)"`
	AmountCents      int64      `gorm:"not null"`
	Currency         string     `gorm:"type:char(3);not null"`
	Anonymous        bool       `gorm:"not null;default:false"`
	GatewaySessionID string     `gorm:"type:varchar(255);not null;uniqueIndex:ux_donations_gateway_session_id"`
	PaymentIntent    *string    `gorm:"type:varchar(255);index:ix_donations_payment_intent"`
	PaymentStatus    string     `gorm:"type:varchar(16);not null;index:ix_donations_campaign_status,priority:2"`
	RefundCents      *int64
	RefundedAt       *time.Time `gorm:"type:datetime(3)"`
	CreatedAt        time.Time  `gorm:"type:datetime(3);not null"`
	UpdatedAt        time.Time  `gorm:"type:datetime(3);not null"`
}

func (Donation) TableName() string { return "donations" }

// DisplayName is the donor wall name.
func (d Donation) DisplayName() string {
	if d.Anonymous || d.DonorName == "" {
		return "Anonymous"
	}
	return d.DonorName
}

type ProviderEvent struct {
	ID          string         `gorm:"type:char(36);primaryKey"`
	Provider    string         `gorm:"type:varchar(64);not null;uniqueIndex:ux_provider_events_provider_event,priority:1"`
	EventID     string         `gorm:"type:varchar(128);not null;uniqueIndex:ux_provider_events_provider_event,priority:2"`
	EventType   string         `gorm:"type:varchar(64);not null"`
	PayloadJSON datatypes.JSON `gorm:"type:json;not null"`

	ReceivedAt  time.Time  `gorm:"type:datetime(3);not null"`
	ProcessedAt *time.Time `gorm:"type:datetime(3)"`
}

func (ProviderEvent) TableName() string { return "provider_events" }
