package view

import (
	"github.com/skairipa08/FundEd/internal/modules/campaigns"
	"github.com/skairipa08/FundEd/internal/modules/payments"
	"github.com/skairipa08/FundEd/internal/modules/users"
)

type UserStats struct {
	Total  int64            `json:"total"`
	ByRole map[string]int64 `json:"by_role"`
}

type VerificationStats struct {
	Pending  int64 `json:"pending"`
	Verified int64 `json:"verified"`
	Rejected int64 `json:"rejected"`
}

type CampaignStats struct {
	Total     int64 `json:"total"`
	Active    int64 `json:"active"`
	Completed int64 `json:"completed"`
}

type DonationStats struct {
	TotalAmount Money `json:"total_amount"`
	Count       int64 `json:"count"`
}

type AdminStats struct {
	Users         UserStats         `json:"users"`
	Verifications VerificationStats `json:"verifications"`
	Campaigns     CampaignStats     `json:"campaigns"`
	Donations     DonationStats     `json:"donations"`
}

func NewAdminStats(u users.Stats, c campaigns.Counts, d payments.Totals) AdminStats {
	byRole := make(map[string]int64, len(users.Roles))
	for _, r := range users.Roles {
		byRole[r] = u.UsersByRole[r]
	}
	return AdminStats{
		Users: UserStats{Total: u.TotalUsers, ByRole: byRole},
		Verifications: VerificationStats{
			Pending:  u.Verifications[users.VerificationPending],
			Verified: u.Verifications[users.VerificationVerified],
			Rejected: u.Verifications[users.VerificationRejected],
		},
		Campaigns: CampaignStats{Total: c.Total, Active: c.Active, Completed: c.Completed},
		Donations: DonationStats{TotalAmount: Money(d.SumCents), Count: d.Count},
	}
}
