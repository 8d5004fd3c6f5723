package payments

import (
	"context"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/skairipa08/FundEd/internal/modules/campaigns"
)

// Repo is the MySQL-backed Store.
type Repo struct{ db *gorm.DB }

func NewRepo(db *gorm.DB) *Repo { return &Repo{db: db} }

func (r *Repo) InTx(ctx context.Context, fn func(tx Store) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Repo{db: tx})
	})
}

func (r *Repo) RecordEvent(ctx context.Context, ev *ProviderEvent) error {
	return dupAware(r.db.WithContext(ctx).Create(ev).Error)
}

func (r *Repo) MarkEventProcessed(ctx context.Context, id string, at time.Time) error {
	return r.db.WithContext(ctx).Model(&ProviderEvent{}).
		Where("id = ?", id).
		Update("processed_at", &at).Error
}

func (r *Repo) TransactionByKey(ctx context.Context, key string) (PaymentTransaction, error) {
	return r.firstTransaction(ctx, "idempotency_key = ?", key)
}

func (r *Repo) TransactionBySession(ctx context.Context, sessionID string) (PaymentTransaction, error) {
	return r.firstTransaction(ctx, "session_id = ?", sessionID)
}

func (r *Repo) firstTransaction(ctx context.Context, cond string, arg string) (PaymentTransaction, error) {
	var t PaymentTransaction
	if err := r.db.WithContext(ctx).First(&t, cond, arg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PaymentTransaction{}, ErrTransactionNotFound
		}
		return PaymentTransaction{}, err
	}
	return t, nil
}

func (r *Repo) CreateTransaction(ctx context.Context, t *PaymentTransaction) error {
	return dupAware(r.db.WithContext(ctx).Create(t).Error)
}

func (r *Repo) SetTransactionStatus(ctx context.Context, sessionID, status string, paymentIntent *string) error {
	upd := map[string]any{"payment_status": status, "updated_at": time.Now()}
	if paymentIntent != nil {
		upd["payment_intent"] = *paymentIntent
	}
	return r.db.WithContext(ctx).Model(&PaymentTransaction{}).
		Where("session_id = ? AND payment_status <> ?", sessionID, StatusPaid).
		Updates(upd).Error
}

func (r *Repo) DonationBySession(ctx context.Context, sessionID string) (Donation, error) {
	return firstDonation(r.db.WithContext(ctx), "gateway_session_id = ?", sessionID)
}

// DonationByPaymentIntent locks the row until the surrounding transaction ends.
func (r *Repo) DonationByPaymentIntent(ctx context.Context, paymentIntent string) (Donation, error) {
	q := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate})
	return firstDonation(q, "payment_intent = ?", paymentIntent)
}

func firstDonation(q *gorm.DB, cond string, arg string) (Donation, error) {
	var d Donation
	if err := q.First(&d, cond, arg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Donation{}, ErrDonationNotFound
		}
		return Donation{}, err
	}
	return d, nil
}

func (r *Repo) CreateDonation(ctx context.Context, d *Donation) error {
	return dupAware(r.db.WithContext(ctx).Create(d).Error)
}

func (r *Repo) MarkDonationRefunded(ctx context.Context, id string, refundCents int64, at time.Time) error {
	return r.db.WithContext(ctx).Model(&Donation{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"payment_status": DonationRefunded,
			"refund_cents":   refundCents,
			"refunded_at":    &at,
			"updated_at":     at,
		}).Error
}

func (r *Repo) PaidDonationsByCampaign(ctx context.Context, campaignID string, limit int) ([]Donation, error) {
	var out []Donation
	err := r.db.WithContext(ctx).
		Where("campaign_id = ? AND payment_status = ?", campaignID, DonationPaid).
		Order("created_at DESC").
		Limit(limit).
		Find(&out).Error
	return out, err
}

func (r *Repo) PaidDonationsByDonor(ctx context.Context, donorID string, limit int) ([]Donation, error) {
	var out []Donation
	err := r.db.WithContext(ctx).
		Where("donor_id = ? AND payment_status = ?", donorID, DonationPaid).
		Order("created_at DESC").
		Limit(limit).
		Find(&out).Error
	return out, err
}

func (r *Repo) PaidTotals(ctx context.Context) (Totals, error) {
	var t Totals
	err := r.db.WithContext(ctx).Model(&Donation{}).
		Select("COUNT(*) AS count, COALESCE(SUM(amount_cents), 0) AS sum_cents").
		Where("payment_status = ?", DonationPaid).
		Scan(&t).Error
	return t, err
}

func (r *Repo) Campaign(ctx context.Context, id string) (campaigns.Campaign, error) {
	var c campaigns.Campaign
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return campaigns.Campaign{}, campaigns.ErrCampaignNotFound
		}
		return campaigns.Campaign{}, err
	}
	return c, nil
}

func (r *Repo) AdjustCampaignTotals(ctx context.Context, campaignID string, deltaCents int64, deltaDonors int) error {
	res := r.db.WithContext(ctx).Model(&campaigns.Campaign{}).
		Where("id = ?", campaignID).
		Updates(map[string]any{
			"raised_cents": gorm.Expr("raised_cents + ?", deltaCents),
			"donor_count":  gorm.Expr("donor_count + ?", deltaDonors),
			"updated_at":   time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return campaigns.ErrCampaignNotFound
	}
	return nil
}

func (r *Repo) CompleteIfFunded(ctx context.Context, campaignID string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&campaigns.Campaign{}).
		Where("id = ? AND status = ? AND raised_cents >= target_cents", campaignID, campaigns.StatusActive).
		Updates(map[string]any{"status": campaigns.StatusCompleted, "updated_at": time.Now()})
	return res.RowsAffected > 0, res.Error
}

func dupAware(err error) error {
	if isDup(err) {
		return ErrDuplicate
	}
	return err
}

func isDup(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}
