package payments

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/skairipa08/FundEd/internal/modules/campaigns"
)

func setupRepo(t *testing.T) (*Repo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to create mock DB: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(gormmysql.New(gormmysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open gorm: %v", err)
	}
	return NewRepo(gdb), mock
}

func TestRepo_AdjustCampaignTotalsIsSingleAtomicUpdate(t *testing.T) {
	repo, mock := setupRepo(t)
	mock.ExpectExec("UPDATE `campaigns` SET .*donor_count \\+ \\?.*raised_cents \\+ \\?.*WHERE id = \\?").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.AdjustCampaignTotals(context.Background(), "campaign_1", 2500, 1); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unfulfilled expectations: %v", err)
	}
}

func TestRepo_AdjustCampaignTotalsMissingCampaign(t *testing.T) {
	repo, mock := setupRepo(t)
	mock.ExpectExec("UPDATE `campaigns` SET").WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.AdjustCampaignTotals(context.Background(), "missing", 100, 1)
	if !errors.Is(err, campaigns.ErrCampaignNotFound) {
		t.Errorf("Expected ErrCampaignNotFound, got %v", err)
	}
}

func TestRepo_CompleteIfFundedIsConditional(t *testing.T) {
	repo, mock := setupRepo(t)
	mock.ExpectExec("UPDATE `campaigns` SET .*WHERE .*id = \\? AND status = \\? AND raised_cents >= target_cents").
		WillReturnResult(sqlmock.NewResult(0, 1))

	done, err := repo.CompleteIfFunded(context.Background(), "campaign_1")
	if err != nil || !done {
		t.Errorf("Expected completion, got %v (%v)", done, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unfulfilled expectations: %v", err)
	}
}

func TestRepo_CreateDonationDuplicateKey(t *testing.T) {
	repo, mock := setupRepo(t)
	mock.ExpectExec("INSERT INTO `donations`").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'cs_1' for key 'ux_donations_gateway_session_id'"})

	now := time.Now()
	err := repo.CreateDonation(context.Background(), &Donation{
		ID: "donation_1", CampaignID: "campaign_1", GatewaySessionID: "cs_1",
		AmountCents: 100, Currency: "usd", PaymentStatus: DonationPaid, CreatedAt: now, UpdatedAt: now,
	})
	if !errors.Is(err, ErrDuplicate) {
		t.Errorf("Expected ErrDuplicate, got %v", err)
	}
}

func TestRepo_SetTransactionStatusSkipsPaid(t *testing.T) {
	repo, mock := setupRepo(t)
	mock.ExpectExec("UPDATE `payment_transactions` SET .*WHERE .*session_id = \\? AND payment_status <> \\?").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.SetTransactionStatus(context.Background(), "cs_1", StatusExpired, nil); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unfulfilled expectations: %v", err)
	}
}

func TestRepo_InTxRollsBackOnError(t *testing.T) {
	repo, mock := setupRepo(t)
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `provider_events`").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectRollback()

	boom := errors.New("boom")
	err := repo.InTx(context.Background(), func(tx Store) error {
		if err := tx.RecordEvent(context.Background(), &ProviderEvent{
			ID: "e1", Provider: "mock", EventID: "evt_1", EventType: "x",
			PayloadJSON: []byte(`{}`), ReceivedAt: time.Now(),
		}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Errorf("Expected boom, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unfulfilled expectations: %v", err)
	}
}

func TestRepo_TransactionBySessionNotFound(t *testing.T) {
	repo, mock := setupRepo(t)
	mock.ExpectQuery("SELECT \\* FROM `payment_transactions` WHERE session_id = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	if _, err := repo.TransactionBySession(context.Background(), "cs_x"); !errors.Is(err, ErrTransactionNotFound) {
		t.Errorf("Expected ErrTransactionNotFound, got %v", err)
	}
}

func TestRepo_DonationByPaymentIntentLocksRow(t *testing.T) {
	repo, mock := setupRepo(t)
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `donations` WHERE payment_intent = \\? .*FOR UPDATE").
		WithArgs("pi_1", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "campaign_id", "payment_intent"}).AddRow("donation_1", "campaign_1", "pi_1"))
	mock.ExpectCommit()

	var got Donation
	err := repo.InTx(context.Background(), func(tx Store) error {
		var err error
		got, err = tx.DonationByPaymentIntent(context.Background(), "pi_1")
		return err
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if got.ID != "donation_1" || got.CampaignID != "campaign_1" {
		t.Errorf("Unexpected donation %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unfulfilled expectations: %v", err)
	}
}
