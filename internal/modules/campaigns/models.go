package campaigns

import "time"

const (
	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusSuspended = "suspended"
	StatusCancelled = "cancelled"
)

// ModerationStatuses are the states an admin may set directly.
var ModerationStatuses = []string{StatusActive, StatusSuspended, StatusCancelled}

// Campaign holds a student's fundraising goal. RaisedCents and DonorCount are
// accumulators owned by payment reconciliation.
type Campaign struct {
	ID           string    `gorm:"type:varchar(32);primaryKey"`
	StudentID    string    `gorm:"type:varchar(32);not null;index:ix_campaigns_student_id"`
	Title        string    `gorm:"type:varchar(200);not null"`
	Story        string    `gorm:"type:text;not null"`
	Category     string    `gorm:"type:varchar(32);not null;index:ix_campaigns_status_category,priority:2"`
	TargetCents  int64     `gorm:"not null"`
	RaisedCents  int64     `gorm:"not null;default:0"`
	DonorCount   int       `gorm:"not null;default:0"`
	Timeline     string    `gorm:"type:varchar(255);not null"`
	ImpactLog    *string   `gorm:"type:text"`
	CoverImage   *string   `gorm:"type:varchar(1024)"`
	Status       string    `gorm:"type:varchar(16);not null;index:ix_campaigns_status_category,priority:1"`
	StatusReason *string   `gorm:"type:varchar(512)"`
	CreatedAt    time.Time `gorm:"type:datetime(3);not null"`
	UpdatedAt    time.Time `gorm:"type:datetime(3);not null"`
}

func (Campaign) TableName() string { return "campaigns" }

func (c Campaign) IsActive() bool { return c.Status == StatusActive }
