package payments

import (
	"context"
	"errors"

	"github.com/skairipa08/FundEd/internal/modules/campaigns"
)

const (
	myDonationsLimit = 100
	wallLimit        = 100
	// DetailWallLimit is the donor wall size on the campaign detail page.
	DetailWallLimit = 50
)

// DonationService answers read-side questions about received donations.
type DonationService struct {
	store Store
}

func NewDonationService(store Store) *DonationService {
	return &DonationService{store: store}
}

type DonationWithCampaign struct {
	Donation Donation
	Campaign *campaigns.Campaign
}

// Mine lists the donor's paid donations, newest first.
func (s *DonationService) Mine(ctx context.Context, donorID string) ([]DonationWithCampaign, error) {
	list, err := s.store.PaidDonationsByDonor(ctx, donorID, myDonationsLimit)
	if err != nil {
		return nil, err
	}

	seen := map[string]*campaigns.Campaign{}
	out := make([]DonationWithCampaign, 0, len(list))
	for _, d := range list {
		c, ok := seen[d.CampaignID]
		if !ok {
			got, err := s.store.Campaign(ctx, d.CampaignID)
			switch {
			case err == nil:
				c = &got
			case errors.Is(err, campaigns.ErrCampaignNotFound):
			default:
				return nil, err
			}
			seen[d.CampaignID] = c
		}
		out = append(out, DonationWithCampaign{Donation: d, Campaign: c})
	}
	return out, nil
}

// Wall is the public donor list of a campaign.
func (s *DonationService) Wall(ctx context.Context, campaignID string, limit int) ([]Donation, error) {
	if limit < 1 || limit > wallLimit {
		limit = wallLimit
	}
	return s.store.PaidDonationsByCampaign(ctx, campaignID, limit)
}

func (s *DonationService) Totals(ctx context.Context) (Totals, error) {
	return s.store.PaidTotals(ctx)
}
