package admin

import (
	"context"

	"github.com/skairipa08/FundEd/internal/modules/campaigns"
	"github.com/skairipa08/FundEd/internal/modules/payments"
	"github.com/skairipa08/FundEd/internal/modules/users"
)

// Accounts is the admin side of *users.Service.
type Accounts interface {
	Stats(ctx context.Context) (users.Stats, error)
	ListUsers(ctx context.Context, in users.ListParams) (users.ListResult, error)
	ChangeRole(ctx context.Context, actor users.User, userID, role string) (users.User, error)
	DeleteUser(ctx context.Context, actor users.User, userID string) error
	CreateProfile(ctx context.Context, userID string, in users.ProfileInput) (users.StudentProfile, error)
	VerifyStudent(ctx context.Context, userID, action, reason string) (users.StudentProfile, error)
	PendingStudents(ctx context.Context) ([]users.PendingStudent, error)
}

type Campaigns interface {
	AdminList(ctx context.Context, status string) (campaigns.SearchResult, error)
	SetStatus(ctx context.Context, id, status, reason string) (campaigns.Campaign, error)
	Counts(ctx context.Context) (campaigns.Counts, error)
}

type DonationTotals interface {
	Totals(ctx context.Context) (payments.Totals, error)
}

type Handler struct {
	accounts  Accounts
	campaigns Campaigns
	donations DonationTotals
}

func NewHandler(accounts Accounts, campaigns Campaigns, donations DonationTotals) *Handler {
	return &Handler{accounts: accounts, campaigns: campaigns, donations: donations}
}
