package campaigns

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
)

type Repo struct{ db *gorm.DB }

func NewRepo(db *gorm.DB) *Repo { return &Repo{db: db} }

func (r *Repo) Create(ctx context.Context, c *Campaign) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *Repo) ByID(ctx context.Context, id string) (Campaign, error) {
	var c Campaign
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Campaign{}, ErrCampaignNotFound
		}
		return Campaign{}, err
	}
	return c, nil
}

func (r *Repo) Update(ctx context.Context, id string, fields map[string]any) error {
	fields["updated_at"] = time.Now()
	res := r.db.WithContext(ctx).Model(&Campaign{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrCampaignNotFound
	}
	return nil
}

func (r *Repo) ByStudent(ctx context.Context, studentID string, limit int) ([]Campaign, error) {
	var out []Campaign
	err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("created_at DESC").
		Limit(limit).
		Find(&out).Error
	return out, err
}

type SearchParams struct {
	Status       string
	Category     string
	Search       string
	Country      string
	FieldOfStudy string
	Page         int
	Limit        int
}

// Row is a campaign joined with its owner's account and student profile.
type Row struct {
	Campaign           `gorm:"embedded"`
	StudentName        *string
	StudentEmail       *string
	StudentPicture     *string
	Country            *string
	FieldOfStudy       *string
	University         *string
	VerificationStatus *string
}

type SearchResult struct {
	Items []Row
	Total int64
	Page  int
	Limit int
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// likePattern matches q as a literal substring under MySQL's default '\'
// LIKE escape.
func likePattern(q string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(q)) + "%"
}

func (r *Repo) Search(ctx context.Context, in SearchParams) (SearchResult, error) {
	base := r.db.WithContext(ctx).
		Table("campaigns AS c").
		Joins("LEFT JOIN users u ON u.id = c.student_id").
		Joins("LEFT JOIN student_profiles p ON p.user_id = c.student_id")

	if in.Status != "" {
		base = base.Where("c.status = ?", in.Status)
	}
	if in.Category != "" {
		base = base.Where("c.category = ?", in.Category)
	}
	if q := strings.TrimSpace(in.Search); q != "" {
		like := likePattern(q)
		base = base.Where("(LOWER(c.title) LIKE ? OR LOWER(c.story) LIKE ?)", like, like)
	}
	if in.Country != "" {
		base = base.Where("p.country = ?", in.Country)
	}
	if in.FieldOfStudy != "" {
		base = base.Where("p.field_of_study = ?", in.FieldOfStudy)
	}
	base = base.Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return SearchResult{}, err
	}

	var rows []Row
	if err := base.
		Select("c.*, u.name AS student_name, u.email AS student_email, u.picture AS student_picture, " +
			"p.country, p.field_of_study, p.university, p.verification_status").
		Order("c.created_at DESC").
		Limit(in.Limit).
		Offset((in.Page - 1) * in.Limit).
		Scan(&rows).Error; err != nil {
		return SearchResult{}, err
	}
	return SearchResult{Items: rows, Total: total, Page: in.Page, Limit: in.Limit}, nil
}

type Counts struct {
	Total     int64
	Active    int64
	Completed int64
}

func (r *Repo) Counts(ctx context.Context) (Counts, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	if err := r.db.WithContext(ctx).Model(&Campaign{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return Counts{}, err
	}
	var out Counts
	for _, row := range rows {
		out.Total += row.Count
		switch row.Status {
		case StatusActive:
			out.Active = row.Count
		case StatusCompleted:
			out.Completed = row.Count
		}
	}
	return out, nil
}
