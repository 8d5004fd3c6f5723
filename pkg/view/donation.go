package view

import (
	"strings"
	"time"

	"github.com/skairipa08/FundEd/internal/modules/payments"
)

type Checkout struct {
	URL       string `json:"url"`
	SessionID string `json:"session_id"`
}

type TransactionStatus struct {
	SessionID     string `json:"session_id"`
	PaymentStatus string `json:"payment_status"`
	Amount        Money  `json:"amount"`
	Currency      string `json:"currency"`
	CampaignID    string `json:"campaign_id"`
}

func NewTransactionStatus(s payments.TransactionStatus) TransactionStatus {
	return TransactionStatus{
		SessionID:     s.SessionID,
		PaymentStatus: s.PaymentStatus,
		Amount:        Money(s.AmountCents),
		Currency:      strings.ToLower(s.Currency),
		CampaignID:    s.CampaignID,
	}
}

type Donation struct {
	DonationID    string     `json:"donation_id"`
	CampaignID    string     `json:"campaign_id"`
	DonorName     string     `json:"donor_name"`
	Amount        Money      `json:"amount"`
	Currency      string     `json:"currency"`
	Anonymous     bool       `json:"anonymous"`
	PaymentStatus string     `json:"payment_status"`
	RefundAmount  *Money     `json:"refund_amount,omitempty"`
	RefundedAt    *time.Time `json:"refunded_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	Campaign      *Campaign  `json:"campaign"`
}

func NewMyDonations(list []payments.DonationWithCampaign) []Donation {
	out := make([]Donation, 0, len(list))
	for _, item := range list {
		d := item.Donation
		v := Donation{
			DonationID:    d.ID,
			CampaignID:    d.CampaignID,
			DonorName:     d.DonorName,
			Amount:        Money(d.AmountCents),
			Currency:      strings.ToLower(d.Currency),
			Anonymous:     d.Anonymous,
			PaymentStatus: d.PaymentStatus,
			RefundAmount:  optionalMoney(d.RefundCents),
			RefundedAt:    d.RefundedAt,
			CreatedAt:     d.CreatedAt,
		}
		if item.Campaign != nil {
			c := NewCampaign(*item.Campaign)
			v.Campaign = &c
		}
		out = append(out, v)
	}
	return out
}
