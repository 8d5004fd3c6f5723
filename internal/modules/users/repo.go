package users

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type Repo struct{ db *gorm.DB }

func NewRepo(db *gorm.DB) *Repo { return &Repo{db: db} }

func (r *Repo) UserByID(ctx context.Context, id string) (User, error) {
	var u User
	if err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return User{}, ErrUserNotFound
		}
		return User{}, err
	}
	return u, nil
}

func (r *Repo) UserByEmail(ctx context.Context, email string) (User, error) {
	var u User
	if err := r.db.WithContext(ctx).First(&u, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return User{}, ErrUserNotFound
		}
		return User{}, err
	}
	return u, nil
}

func (r *Repo) UsersByIDs(ctx context.Context, ids []string) (map[string]User, error) {
	out := make(map[string]User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var list []User
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&list).Error; err != nil {
		return nil, err
	}
	for _, u := range list {
		out[u.ID] = u
	}
	return out, nil
}

func (r *Repo) CreateUser(ctx context.Context, u *User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *Repo) UpdateUser(ctx context.Context, id string, fields map[string]any) error {
	fields["updated_at"] = time.Now()
	res := r.db.WithContext(ctx).Model(&User{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

type ListParams struct {
	Role  string
	Page  int
	Limit int
}

type ListResult struct {
	Items []User
	Total int64
	Page  int
	Limit int
}

func (r *Repo) ListUsers(ctx context.Context, in ListParams) (ListResult, error) {
	page := in.Page
	if page < 1 {
		page = 1
	}
	size := in.Limit
	if size < 1 || size > 100 {
		size = 50
	}

	base := r.db.WithContext(ctx).Model(&User{}).Where("deleted = ?", false)
	if in.Role != "" {
		base = base.Where("role = ?", in.Role)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return ListResult{}, err
	}

	var items []User
	if err := base.
		Order("created_at DESC").
		Limit(size).
		Offset((page - 1) * size).
		Find(&items).Error; err != nil {
		return ListResult{}, err
	}
	return ListResult{Items: items, Total: total, Page: page, Limit: size}, nil
}

type groupCount struct {
	Key   string
	Count int64
}

func (r *Repo) CountUsersByRole(ctx context.Context) (map[string]int64, error) {
	var rows []groupCount
	if err := r.db.WithContext(ctx).Model(&User{}).
		Select("role AS `key`, COUNT(*) AS count").
		Where("deleted = ?", false).
		Group("role").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return toCountMap(rows), nil
}

func (r *Repo) CountProfilesByStatus(ctx context.Context) (map[string]int64, error) {
	var rows []groupCount
	if err := r.db.WithContext(ctx).Model(&StudentProfile{}).
		Select("verification_status AS `key`, COUNT(*) AS count").
		Group("verification_status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return toCountMap(rows), nil
}

func toCountMap(rows []groupCount) map[string]int64 {
	out := make(map[string]int64, len(rows))
	for _, r := range rows {
		out[r.Key] = r.Count
	}
	return out
}

// Sessions

func (r *Repo) SessionByToken(ctx context.Context, token string) (Session, error) {
	var s Session
	if err := r.db.WithContext(ctx).First(&s, "token = ?", token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Session{}, ErrNoSession
		}
		return Session{}, err
	}
	return s, nil
}

func (r *Repo) ReplaceSessions(ctx context.Context, s *Session) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&Session{}, "user_id = ?", s.UserID).Error; err != nil {
			return err
		}
		return tx.Create(s).Error
	})
}

func (r *Repo) DeleteSession(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&Session{}, "id = ?", id).Error
}

func (r *Repo) DeleteUserSessions(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Delete(&Session{}, "user_id = ?", userID).Error
}

func (r *Repo) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&Session{}, "expires_at <= ?", now)
	return res.RowsAffected, res.Error
}

// Student profiles

func (r *Repo) ProfileByUser(ctx context.Context, userID string) (StudentProfile, error) {
	var p StudentProfile
	if err := r.db.WithContext(ctx).First(&p, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return StudentProfile{}, ErrProfileNotFound
		}
		return StudentProfile{}, err
	}
	return p, nil
}

func (r *Repo) ProfilesByUsers(ctx context.Context, userIDs []string) (map[string]StudentProfile, error) {
	out := make(map[string]StudentProfile, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}
	var list []StudentProfile
	if err := r.db.WithContext(ctx).Where("user_id IN ?", userIDs).Find(&list).Error; err != nil {
		return nil, err
	}
	for _, p := range list {
		out[p.UserID] = p
	}
	return out, nil
}

// CreateProfile inserts the profile and promotes the owner to student in one
// transaction.
func (r *Repo) CreateProfile(ctx context.Context, p *StudentProfile) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(p).Error; err != nil {
			return err
		}
		return tx.Model(&User{}).
			Where("id = ?", p.UserID).
			Updates(map[string]any{"role": RoleStudent, "updated_at": time.Now()}).Error
	})
}

func (r *Repo) SaveProfileDecision(ctx context.Context, p StudentProfile) error {
	return r.db.WithContext(ctx).Model(&StudentProfile{}).
		Where("id = ?", p.ID).
		Updates(map[string]any{
			"verification_status":    p.VerificationStatus,
			"verified_at":            p.VerifiedAt,
			"rejection_reason":       p.RejectionReason,
			"verification_documents": p.Documents,
			"updated_at":             p.UpdatedAt,
		}).Error
}

func (r *Repo) ProfilesByStatus(ctx context.Context, status string, limit int) ([]StudentProfile, error) {
	var out []StudentProfile
	err := r.db.WithContext(ctx).
		Where("verification_status = ?", status).
		Order("created_at ASC").
		Limit(limit).
		Find(&out).Error
	return out, err
}
