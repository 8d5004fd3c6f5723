package payments_test

import (
	"context"
	"testing"
	"time"

	"github.com/skairipa08/FundEd/internal/modules/campaigns"
	"github.com/skairipa08/FundEd/internal/modules/payments"
	"github.com/skairipa08/FundEd/internal/modules/payments/paymentstest"
)

func TestDonationService_MineAndWall(t *testing.T) {
	st := paymentstest.NewStore()
	st.AddCampaign(campaigns.Campaign{ID: "campaign_a", Title: "Tuition"})
	donor := "user_1"
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	st.AddDonation(payments.Donation{ID: "d1", CampaignID: "campaign_a", DonorID: &donor, DonorName: "Ali", AmountCents: 10_00, GatewaySessionID: "cs_1", PaymentStatus: payments.DonationPaid, CreatedAt: base})
	st.AddDonation(payments.Donation{ID: "d2", CampaignID: "campaign_a", DonorID: &donor, DonorName: "Ali", Anonymous: true, AmountCents: 20_00, GatewaySessionID: "cs_2", PaymentStatus: payments.DonationPaid, CreatedAt: base.Add(time.Hour)})
	st.AddDonation(payments.Donation{ID: "d3", CampaignID: "campaign_gone", DonorID: &donor, AmountCents: 5_00, GatewaySessionID: "cs_3", PaymentStatus: payments.DonationPaid, CreatedAt: base.Add(2 * time.Hour)})
	st.AddDonation(payments.Donation{ID: "d4", CampaignID: "campaign_a", DonorID: &donor, AmountCents: 7_00, GatewaySessionID: "cs_4", PaymentStatus: payments.DonationRefunded, CreatedAt: base.Add(3 * time.Hour)})

	svc := payments.NewDonationService(st)
	ctx := context.Background()

	mine, err := svc.Mine(ctx, donor)
	if err != nil {
		t.Fatalf("Mine: %v", err)
	}
	if len(mine) != 3 {
		t.Fatalf("Expected 3 paid donations, got %d", len(mine))
	}
	if mine[0].Donation.ID != "d3" || mine[0].Campaign != nil {
		t.Errorf("Expected newest first with missing campaign nil, got %+v", mine[0])
	}
	if mine[1].Campaign == nil || mine[1].Campaign.Title != "Tuition" {
		t.Errorf("Expected campaign attached, got %+v", mine[1])
	}

	wall, err := svc.Wall(ctx, "campaign_a", 0)
	if err != nil {
		t.Fatalf("Wall: %v", err)
	}
	if len(wall) != 2 {
		t.Fatalf("Expected 2 wall entries, got %d", len(wall))
	}
	if wall[0].DisplayName() != "Anonymous" || wall[1].DisplayName() != "Ali" {
		t.Errorf("Unexpected names %s, %s", wall[0].DisplayName(), wall[1].DisplayName())
	}

	totals, err := svc.Totals(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if totals.Count != 3 || totals.SumCents != 35_00 {
		t.Errorf("Expected 3/3500, got %d/%d", totals.Count, totals.SumCents)
	}
}
