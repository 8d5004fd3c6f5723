package users

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

const (
	RoleDonor       = "donor"
	RoleStudent     = "student"
	RoleAdmin       = "admin"
	RoleInstitution = "institution"
)

var Roles = []string{RoleDonor, RoleStudent, RoleAdmin, RoleInstitution}

func ValidRole(r string) bool {
	for _, v := range Roles {
		if v == r {
			return true
		}
	}
	return false
}

const (
	VerificationPending  = "pending"
	VerificationVerified = "verified"
	VerificationRejected = "rejected"
)

type User struct {
	ID        string     `gorm:"type:varchar(32);primaryKey"`
	Email     string     `gorm:"type:varchar(255);not null;uniqueIndex:ux_users_email"`
	Name      string     `gorm:"type:varchar(255);not null"`
	Picture   *string    `gorm:"type:varchar(1024)"`
	Role      string     `gorm:"type:varchar(16);not null;index:ix_users_role"`
	Deleted   bool       `gorm:"not null;default:false"`
	DeletedAt *time.Time `gorm:"type:datetime(3)"`
	CreatedAt time.Time  `gorm:"type:datetime(3);not null"`
	UpdatedAt time.Time  `gorm:"type:datetime(3);not null"`
}

func (User) TableName() string { return "users" }

func (u User) IsAdmin() bool { return u.Role == RoleAdmin }

// Session is an opaque login token. Expiry is checked on lookup and swept
// periodically.
type Session struct {
	ID        string    `gorm:"type:varchar(32);primaryKey"`
	Token     string    `gorm:"type:varchar(128);not null;uniqueIndex:ux_sessions_token"`
	UserID    string    `gorm:"type:varchar(32);not null;index:ix_sessions_user_id"`
	ExpiresAt time.Time `gorm:"type:datetime(3);not null;index:ix_sessions_expires_at"`
	CreatedAt time.Time `gorm:"type:datetime(3);not null"`
}

func (Session) TableName() string { return "sessions" }

type Document struct {
	Type     string `json:"type"`
	URL      string `json:"url"`
	PublicID string `json:"public_id,omitempty"`
	Verified bool   `json:"verified"`
}

type StudentProfile struct {
	ID                 string         `gorm:"type:varchar(32);primaryKey"`
	UserID             string         `gorm:"type:varchar(32);not null;uniqueIndex:ux_student_profiles_user_id"`
	Country            string         `gorm:"type:varchar(128);not null"`
	FieldOfStudy       string         `gorm:"type:varchar(128);not null"`
	University         string         `gorm:"type:varchar(255);not null"`
	VerificationStatus string         `gorm:"type:varchar(16);not null;index:ix_student_profiles_status"`
	Documents          datatypes.JSON `gorm:"column:verification_documents;type:json"`
	VerifiedAt         *time.Time     `gorm:"type:datetime(3)"`
	RejectionReason    *string        `gorm:"type:varchar(512)"`
	CreatedAt          time.Time      `gorm:"type:datetime(3);not null"`
	UpdatedAt          time.Time      `gorm:"type:datetime(3);not null"`
}

func (StudentProfile) TableName() string { return "student_profiles" }

func (p StudentProfile) DocumentList() ([]Document, error) {
	if len(p.Documents) == 0 {
		return []Document{}, nil
	}
	var docs []Document
	if err := json.Unmarshal(p.Documents, &docs); err != nil {
		return nil, err
	}
	if docs == nil {
		docs = []Document{}
	}
	return docs, nil
}

func (p *StudentProfile) SetDocuments(docs []Document) error {
	if docs == nil {
		docs = []Document{}
	}
	b, err := json.Marshal(docs)
	if err != nil {
		return err
	}
	p.Documents = datatypes.JSON(b)
	return nil
}
