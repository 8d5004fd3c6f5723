package view

import (
	"time"

	"github.com/skairipa08/FundEd/internal/modules/users"
)

type User struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Picture   *string   `json:"picture"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func NewUser(u users.User) User {
	return User{
		UserID:    u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Picture:   u.Picture,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

func NewUsers(list []users.User) []User {
	out := make([]User, 0, len(list))
	for _, u := range list {
		out = append(out, NewUser(u))
	}
	return out
}

type StudentProfile struct {
	ProfileID             string           `json:"profile_id"`
	UserID                string           `json:"user_id"`
	Country               string           `json:"country"`
	FieldOfStudy          string           `json:"field_of_study"`
	University            string           `json:"university"`
	VerificationStatus    string           `json:"verification_status"`
	VerificationDocuments []users.Document `json:"verification_documents"`
	VerifiedAt            *time.Time       `json:"verified_at"`
	RejectionReason       *string          `json:"rejection_reason"`
	CreatedAt             time.Time        `json:"created_at"`
}

// NewStudentProfile renders p. A malformed documents column renders as an
// empty list.
func NewStudentProfile(p users.StudentProfile) StudentProfile {
	docs, err := p.DocumentList()
	if err != nil {
		docs = []users.Document{}
	}
	return StudentProfile{
		ProfileID:             p.ID,
		UserID:                p.UserID,
		Country:               p.Country,
		FieldOfStudy:          p.FieldOfStudy,
		University:            p.University,
		VerificationStatus:    p.VerificationStatus,
		VerificationDocuments: docs,
		VerifiedAt:            p.VerifiedAt,
		RejectionReason:       p.RejectionReason,
		CreatedAt:             p.CreatedAt,
	}
}

// Me is the /auth/me payload.
type Me struct {
	User
	StudentProfile *StudentProfile `json:"student_profile,omitempty"`
}

func NewMe(u users.User, p *users.StudentProfile) Me {
	me := Me{User: NewUser(u)}
	if p != nil {
		sp := NewStudentProfile(*p)
		me.StudentProfile = &sp
	}
	return me
}

type PendingStudent struct {
	StudentProfile
	User *User `json:"user"`
}

func NewPendingStudents(list []users.PendingStudent) []PendingStudent {
	out := make([]PendingStudent, 0, len(list))
	for _, ps := range list {
		item := PendingStudent{StudentProfile: NewStudentProfile(ps.Profile)}
		if ps.User != nil {
			u := NewUser(*ps.User)
			item.User = &u
		}
		out = append(out, item)
	}
	return out
}
