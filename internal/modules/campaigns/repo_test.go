package campaigns

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
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

func TestLikePattern(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Laptop", `%laptop%`},
		{"100%", `%100\%%`},
		{"first_year", `%first\_year%`},
		{`back\slash`, `%back\\slash%`},
		{"%_", `%\%\_%`},
	}
	for _, tt := range tests {
		if got := likePattern(tt.in); got != tt.want {
			t.Errorf("likePattern(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRepo_SearchTreatsWildcardsLiterally(t *testing.T) {
	repo, mock := setupRepo(t)
	want := `%\%\_%`
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM campaigns AS c .*LIKE \\? OR .*LIKE \\?").
		WithArgs(want, want).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery("SELECT c\\.\\*.*LIMIT \\?").
		WithArgs(want, want, 20).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	res, err := repo.Search(context.Background(), SearchParams{Search: " %_ ", Page: 1, Limit: 20})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Total != 0 || len(res.Items) != 0 {
		t.Errorf("Expected empty result, got %+v", res)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unfulfilled expectations: %v", err)
	}
}
