package database

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true}), &gorm.Config{
		DisableAutomaticPing: true,
		Logger:               logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("gorm open: %v", err)
	}
	return db, mock
}

func TestPing(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectPing()

	if err := Ping(context.Background(), db); err != nil {
		t.Errorf("Expected healthy ping, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPingFailure(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectPing().WillReturnError(errors.New("connection refused"))

	if err := Ping(context.Background(), db); err == nil {
		t.Error("Expected ping error")
	}
}

func TestModelsCoverEveryTable(t *testing.T) {
	db, _ := newMockDB(t)
	want := map[string]bool{
		"users": true, "sessions": true, "student_profiles": true, "campaigns": true,
		"payment_transactions": true, "donations": true, "provider_events": true,
	}
	for _, m := range Models() {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(m); err != nil {
			t.Fatalf("parse %T: %v", m, err)
		}
		if !want[stmt.Schema.Table] {
			t.Errorf("unexpected table %s", stmt.Schema.Table)
		}
		delete(want, stmt.Schema.Table)
	}
	if len(want) != 0 {
		t.Errorf("Expected all tables migrated, missing %v", want)
	}
}
