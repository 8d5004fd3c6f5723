package view

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/skairipa08/FundEd/internal/modules/campaigns"
	"github.com/skairipa08/FundEd/internal/modules/payments"
	"github.com/skairipa08/FundEd/internal/modules/users"
)

func TestMoneyMarshalJSON(t *testing.T) {
	tests := []struct {
		cents int64
		want  string
	}{
		{2500, "25.00"},
		{1, "0.01"},
		{0, "0.00"},
		{-1050, "-10.50"},
		{10000000, "100000.00"},
	}
	for _, tt := range tests {
		b, err := json.Marshal(Money(tt.cents))
		if err != nil {
			t.Fatalf("marshal %d: %v", tt.cents, err)
		}
		if string(b) != tt.want {
			t.Errorf("Expected %s for %d cents, got %s", tt.want, tt.cents, b)
		}
	}
}

func TestNewPagination(t *testing.T) {
	if p := NewPagination(1, 12, 0); p.TotalPages != 0 {
		t.Errorf("Expected 0 pages for empty result, got %d", p.TotalPages)
	}
	if p := NewPagination(2, 12, 25); p.TotalPages != 3 {
		t.Errorf("Expected 3 pages, got %d", p.TotalPages)
	}
	if p := NewPagination(1, 12, 24); p.TotalPages != 2 {
		t.Errorf("Expected 2 pages, got %d", p.TotalPages)
	}
}

func TestNewDonorWallHidesAnonymousNames(t *testing.T) {
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	wall := NewDonorWall([]payments.Donation{
		{DonorName: "Jane", AmountCents: 2500, Anonymous: true, CreatedAt: now},
		{DonorName: "Bob", AmountCents: 1000, CreatedAt: now},
	})
	if wall[0].Name != "Anonymous" || !wall[0].Anonymous {
		t.Errorf("Expected anonymous entry, got %+v", wall[0])
	}
	if wall[1].Name != "Bob" {
		t.Errorf("Expected Bob, got %q", wall[1].Name)
	}

	b, _ := json.Marshal(wall[0])
	want := `{"name":"Anonymous","amount":25.00,"date":"2024-01-02T03:04:05Z","anonymous":true}`
	if string(b) != want {
		t.Errorf("Expected %s, got %s", want, b)
	}
}

func TestNewCampaignDetailWithoutOwner(t *testing.T) {
	d := NewCampaignDetail(campaigns.Detail{Campaign: campaigns.Campaign{ID: "campaign_1", TargetCents: 100000}}, nil)
	if d.Student.Name != "Unknown" {
		t.Errorf("Expected Unknown student, got %q", d.Student.Name)
	}
	if d.Student.VerificationDocuments == nil || d.Donors == nil {
		t.Errorf("Expected empty lists, not nil")
	}
}

func TestNewCampaignDetailWithProfile(t *testing.T) {
	p := users.StudentProfile{ID: "profile_1", UserID: "user_1", Country: "Kenya", VerificationStatus: users.VerificationVerified}
	if err := p.SetDocuments([]users.Document{{Type: "student_id", URL: "https://x/y.png", Verified: true}}); err != nil {
		t.Fatal(err)
	}
	u := users.User{ID: "user_1", Name: "Amina", Email: "amina@example.com"}
	d := NewCampaignDetail(campaigns.Detail{Campaign: campaigns.Campaign{ID: "campaign_1"}, Student: &u, Profile: &p}, nil)

	if d.Student.UserID == nil || *d.Student.UserID != "user_1" {
		t.Errorf("Expected student id user_1, got %v", d.Student.UserID)
	}
	if d.Student.Country == nil || *d.Student.Country != "Kenya" {
		t.Errorf("Expected country Kenya, got %v", d.Student.Country)
	}
	if len(d.Student.VerificationDocuments) != 1 {
		t.Errorf("Expected 1 document, got %d", len(d.Student.VerificationDocuments))
	}
}

func TestNewAdminStatsFillsMissingRoles(t *testing.T) {
	s := NewAdminStats(
		users.Stats{UsersByRole: map[string]int64{"donor": 3}, TotalUsers: 3, Verifications: map[string]int64{"pending": 2}},
		campaigns.Counts{Total: 4, Active: 3, Completed: 1},
		payments.Totals{Count: 2, SumCents: 12345},
	)
	if s.Users.ByRole["admin"] != 0 || len(s.Users.ByRole) != 4 {
		t.Errorf("Expected all four roles, got %v", s.Users.ByRole)
	}
	if s.Verifications.Pending != 2 {
		t.Errorf("Expected 2 pending, got %d", s.Verifications.Pending)
	}
	if s.Donations.TotalAmount != 12345 {
		t.Errorf("Expected 12345 cents, got %d", s.Donations.TotalAmount)
	}
}
