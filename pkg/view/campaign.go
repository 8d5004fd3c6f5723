package view

import (
	"time"

	"github.com/skairipa08/FundEd/internal/modules/campaigns"
	"github.com/skairipa08/FundEd/internal/modules/payments"
	"github.com/skairipa08/FundEd/internal/modules/users"
)

type Campaign struct {
	CampaignID   string    `json:"campaign_id"`
	StudentID    string    `json:"student_id"`
	Title        string    `json:"title"`
	Story        string    `json:"story"`
	Category     string    `json:"category"`
	TargetAmount Money     `json:"target_amount"`
	RaisedAmount Money     `json:"raised_amount"`
	DonorCount   int       `json:"donor_count"`
	Timeline     string    `json:"timeline"`
	ImpactLog    *string   `json:"impact_log"`
	CoverImage   *string   `json:"cover_image"`
	Status       string    `json:"status"`
	StatusReason *string   `json:"status_reason,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func NewCampaign(c campaigns.Campaign) Campaign {
	return Campaign{
		CampaignID:   c.ID,
		StudentID:    c.StudentID,
		Title:        c.Title,
		Story:        c.Story,
		Category:     c.Category,
		TargetAmount: Money(c.TargetCents),
		RaisedAmount: Money(c.RaisedCents),
		DonorCount:   c.DonorCount,
		Timeline:     c.Timeline,
		ImpactLog:    c.ImpactLog,
		CoverImage:   c.CoverImage,
		Status:       c.Status,
		StatusReason: c.StatusReason,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

func NewCampaigns(list []campaigns.Campaign) []Campaign {
	out := make([]Campaign, 0, len(list))
	for _, c := range list {
		out = append(out, NewCampaign(c))
	}
	return out
}

// StudentSummary is the owner block on list rows.
type StudentSummary struct {
	Name               string  `json:"name"`
	Picture            *string `json:"picture"`
	Country            *string `json:"country"`
	FieldOfStudy       *string `json:"field_of_study"`
	University         *string `json:"university"`
	VerificationStatus *string `json:"verification_status"`
}

type CampaignListItem struct {
	Campaign
	Student StudentSummary `json:"student"`
}

func NewCampaignRows(rows []campaigns.Row) []CampaignListItem {
	out := make([]CampaignListItem, 0, len(rows))
	for _, r := range rows {
		name := "Unknown"
		if r.StudentName != nil {
			name = *r.StudentName
		}
		out = append(out, CampaignListItem{
			Campaign: NewCampaign(r.Campaign),
			Student: StudentSummary{
				Name:               name,
				Picture:            r.StudentPicture,
				Country:            r.Country,
				FieldOfStudy:       r.FieldOfStudy,
				University:         r.University,
				VerificationStatus: r.VerificationStatus,
			},
		})
	}
	return out
}

// AdminCampaign is a list row with the owner's email, for moderation.
type AdminCampaign struct {
	CampaignListItem
	StudentEmail *string `json:"student_email"`
}

func NewAdminCampaigns(rows []campaigns.Row) []AdminCampaign {
	items := NewCampaignRows(rows)
	out := make([]AdminCampaign, 0, len(items))
	for i, item := range items {
		out = append(out, AdminCampaign{CampaignListItem: item, StudentEmail: rows[i].StudentEmail})
	}
	return out
}

type StudentDetail struct {
	UserID                *string          `json:"user_id"`
	Name                  string           `json:"name"`
	Email                 *string          `json:"email"`
	Picture               *string          `json:"picture"`
	Country               *string          `json:"country"`
	FieldOfStudy          *string          `json:"field_of_study"`
	University            *string          `json:"university"`
	VerificationStatus    *string          `json:"verification_status"`
	VerificationDocuments []users.Document `json:"verification_documents"`
}

type DonorWallEntry struct {
	Name      string    `json:"name"`
	Amount    Money     `json:"amount"`
	Date      time.Time `json:"date"`
	Anonymous bool      `json:"anonymous"`
}

func NewDonorWall(list []payments.Donation) []DonorWallEntry {
	out := make([]DonorWallEntry, 0, len(list))
	for _, d := range list {
		out = append(out, DonorWallEntry{
			Name:      d.DisplayName(),
			Amount:    Money(d.AmountCents),
			Date:      d.CreatedAt,
			Anonymous: d.Anonymous,
		})
	}
	return out
}

type CampaignDetail struct {
	Campaign
	Student StudentDetail    `json:"student"`
	Donors  []DonorWallEntry `json:"donors"`
}

func NewCampaignDetail(d campaigns.Detail, wall []payments.Donation) CampaignDetail {
	sd := StudentDetail{Name: "Unknown", VerificationDocuments: []users.Document{}}
	if u := d.Student; u != nil {
		sd.UserID = &u.ID
		sd.Name = u.Name
		sd.Email = &u.Email
		sd.Picture = u.Picture
	}
	if p := d.Profile; p != nil {
		sp := NewStudentProfile(*p)
		sd.Country = &sp.Country
		sd.FieldOfStudy = &sp.FieldOfStudy
		sd.University = &sp.University
		sd.VerificationStatus = &sp.VerificationStatus
		sd.VerificationDocuments = sp.VerificationDocuments
	}
	return CampaignDetail{
		Campaign: NewCampaign(d.Campaign),
		Student:  sd,
		Donors:   NewDonorWall(wall),
	}
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
}

func NewPagination(page, limit int, total int64) Pagination {
	p := Pagination{Page: page, Limit: limit, Total: total}
	if total > 0 && limit > 0 {
		p.TotalPages = (total + int64(limit) - 1) / int64(limit)
	}
	return p
}
