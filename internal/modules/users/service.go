package users

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/skairipa08/FundEd/internal/shared/ids"
)

// Repository is the persistence surface the service needs. *Repo implements it.
type Repository interface {
	UserByID(ctx context.Context, id string) (User, error)
	UserByEmail(ctx context.Context, email string) (User, error)
	UsersByIDs(ctx context.Context, ids []string) (map[string]User, error)
	CreateUser(ctx context.Context, u *User) error
	UpdateUser(ctx context.Context, id string, fields map[string]any) error
	ListUsers(ctx context.Context, in ListParams) (ListResult, error)
	CountUsersByRole(ctx context.Context) (map[string]int64, error)
	CountProfilesByStatus(ctx context.Context) (map[string]int64, error)

	SessionByToken(ctx context.Context, token string) (Session, error)
	// ReplaceSessions deletes the user's sessions and stores s in one transaction.
	ReplaceSessions(ctx context.Context, s *Session) error
	DeleteSession(ctx context.Context, id string) error
	DeleteUserSessions(ctx context.Context, userID string) error
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)

	ProfileByUser(ctx context.Context, userID string) (StudentProfile, error)
	ProfilesByUsers(ctx context.Context, userIDs []string) (map[string]StudentProfile, error)
	CreateProfile(ctx context.Context, p *StudentProfile) error
	SaveProfileDecision(ctx context.Context, p StudentProfile) error
	ProfilesByStatus(ctx context.Context, status string, limit int) ([]StudentProfile, error)
}

// Notifier receives verification decisions. Delivery is best-effort.
type Notifier interface {
	VerificationDecided(ctx context.Context, u User, p StudentProfile) error
}

type Options struct {
	SessionTTL        time.Duration
	InitialAdminEmail string
}

type Service struct {
	repo     Repository
	logger   *slog.Logger
	notifier Notifier
	opts     Options
	now      func() time.Time
}

func NewService(repo Repository, logger *slog.Logger, opts Options) *Service {
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 7 * 24 * time.Hour
	}
	opts.InitialAdminEmail = strings.ToLower(strings.TrimSpace(opts.InitialAdminEmail))
	return &Service{repo: repo, logger: logger, opts: opts, now: time.Now}
}

func (s *Service) SetNotifier(n Notifier) { s.notifier = n }

func (s *Service) SessionTTL() time.Duration { return s.opts.SessionTTL }

// ResolveSession returns the non-deleted owner of token. Expired sessions are
// deleted and reported as ErrNoSession.
func (s *Service) ResolveSession(ctx context.Context, token string) (User, error) {
	if token == "" {
		return User{}, ErrNoSession
	}
	sess, err := s.repo.SessionByToken(ctx, token)
	if err != nil {
		return User{}, err
	}
	if !sess.ExpiresAt.After(s.now()) {
		if err := s.repo.DeleteSession(ctx, sess.ID); err != nil {
			s.logger.WarnContext(ctx, "failed to delete expired session", "session_id", sess.ID, "err", err)
		}
		return User{}, ErrNoSession
	}

	u, err := s.repo.UserByID(ctx, sess.UserID)
	if errors.Is(err, ErrUserNotFound) {
		return User{}, ErrNoSession
	}
	if err != nil {
		return User{}, err
	}
	if u.Deleted {
		return User{}, ErrNoSession
	}
	return u, nil
}

// StartSession replaces every existing session of the user with a new one.
func (s *Service) StartSession(ctx context.Context, userID string) (Session, error) {
	token, err := newSessionToken()
	if err != nil {
		return Session{}, err
	}
	now := s.now()
	sess := Session{
		ID:        ids.New("sess"),
		Token:     token,
		UserID:    userID,
		ExpiresAt: now.Add(s.opts.SessionTTL),
		CreatedAt: now,
	}
	if err := s.repo.ReplaceSessions(ctx, &sess); err != nil {
		return Session{}, err
	}
	return sess, nil
}

func (s *Service) EndSessions(ctx context.Context, userID string) error {
	return s.repo.DeleteUserSessions(ctx, userID)
}

// SweepExpiredSessions removes sessions past their expiry.
func (s *Service) SweepExpiredSessions(ctx context.Context) (int64, error) {
	return s.repo.DeleteExpiredSessions(ctx, s.now())
}

// RunSessionSweeper sweeps on every tick until ctx is cancelled.
func (s *Service) RunSessionSweeper(ctx context.Context, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n, err := s.SweepExpiredSessions(ctx)
			if err != nil {
				s.logger.ErrorContext(ctx, "session sweep failed", "err", err)
				continue
			}
			if n > 0 {
				s.logger.InfoContext(ctx, "expired sessions removed", "count", n)
			}
		}
	}
}

type OAuthProfile struct {
	Email   string
	Name    string
	Picture string
}

// UpsertOAuthUser refreshes name and picture of a known user or creates a new
// donor (admin when the email matches the configured initial admin).
func (s *Service) UpsertOAuthUser(ctx context.Context, in OAuthProfile) (User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	picture := optional(in.Picture)

	u, err := s.repo.UserByEmail(ctx, email)
	switch {
	case err == nil:
		if u.Deleted {
			return User{}, ErrAccountDisabled
		}
		if err := s.repo.UpdateUser(ctx, u.ID, map[string]any{"name": in.Name, "picture": picture}); err != nil {
			return User{}, err
		}
		u.Name = in.Name
		u.Picture = picture
		return u, nil
	case !errors.Is(err, ErrUserNotFound):
		return User{}, err
	}

	role := RoleDonor
	if s.opts.InitialAdminEmail != "" && email == s.opts.InitialAdminEmail {
		role = RoleAdmin
	}
	now := s.now()
	u = User{
		ID:        ids.New("user"),
		Email:     email,
		Name:      in.Name,
		Picture:   picture,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.CreateUser(ctx, &u); err != nil {
		return User{}, err
	}
	s.logger.InfoContext(ctx, "user created", "user_id", u.ID, "role", u.Role)
	return u, nil
}

// Profile returns the user's student profile, or nil when there is none.
func (s *Service) Profile(ctx context.Context, userID string) (*StudentProfile, error) {
	p, err := s.repo.ProfileByUser(ctx, userID)
	if errors.Is(err, ErrProfileNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

type ProfileInput struct {
	Country      string
	FieldOfStudy string
	University   string
	Documents    []Document
}

// CreateProfile registers a pending student profile and makes the user a student.
func (s *Service) CreateProfile(ctx context.Context, userID string, in ProfileInput) (StudentProfile, error) {
	if _, err := s.repo.ProfileByUser(ctx, userID); err == nil {
		return StudentProfile{}, ErrProfileExists
	} else if !errors.Is(err, ErrProfileNotFound) {
		return StudentProfile{}, err
	}

	docs := make([]Document, 0, len(in.Documents))
	for _, d := range in.Documents {
		d.Verified = false
		docs = append(docs, d)
	}

	now := s.now()
	p := StudentProfile{
		ID:                 ids.New("profile"),
		UserID:             userID,
		Country:            in.Country,
		FieldOfStudy:       in.FieldOfStudy,
		University:         in.University,
		VerificationStatus: VerificationPending,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := p.SetDocuments(docs); err != nil {
		return StudentProfile{}, err
	}
	if err := s.repo.CreateProfile(ctx, &p); err != nil {
		return StudentProfile{}, err
	}
	s.logger.InfoContext(ctx, "student profile created", "user_id", userID, "profile_id", p.ID)
	return p, nil
}

const (
	ActionApprove = "approve"
	ActionReject  = "reject"
)

// VerifyStudent moves a profile to verified or rejected. Approval stamps
// verified_at and marks every document verified; rejection records reason.
func (s *Service) VerifyStudent(ctx context.Context, userID, action, reason string) (StudentProfile, error) {
	if action != ActionApprove && action != ActionReject {
		return StudentProfile{}, ErrInvalidAction
	}
	p, err := s.repo.ProfileByUser(ctx, userID)
	if err != nil {
		return StudentProfile{}, err
	}

	now := s.now()
	p.UpdatedAt = now
	if action == ActionApprove {
		docs, err := p.DocumentList()
		if err != nil {
			return StudentProfile{}, err
		}
		for i := range docs {
			docs[i].Verified = true
		}
		if err := p.SetDocuments(docs); err != nil {
			return StudentProfile{}, err
		}
		p.VerificationStatus = VerificationVerified
		p.VerifiedAt = &now
		p.RejectionReason = nil
	} else {
		p.VerificationStatus = VerificationRejected
		p.VerifiedAt = nil
		p.RejectionReason = optional(reason)
	}

	if err := s.repo.SaveProfileDecision(ctx, p); err != nil {
		return StudentProfile{}, err
	}
	s.logger.InfoContext(ctx, "student verification decided", "user_id", userID, "status", p.VerificationStatus)

	if s.notifier != nil {
		if u, err := s.repo.UserByID(ctx, userID); err == nil {
			if err := s.notifier.VerificationDecided(ctx, u, p); err != nil {
				s.logger.WarnContext(ctx, "verification notification failed", "user_id", userID, "err", err)
			}
		}
	}
	return p, nil
}

type PendingStudent struct {
	Profile StudentProfile
	User    *User
}

func (s *Service) PendingStudents(ctx context.Context) ([]PendingStudent, error) {
	profiles, err := s.repo.ProfilesByStatus(ctx, VerificationPending, 100)
	if err != nil {
		return nil, err
	}
	userIDs := make([]string, 0, len(profiles))
	for _, p := range profiles {
		userIDs = append(userIDs, p.UserID)
	}
	byID, err := s.repo.UsersByIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}

	out := make([]PendingStudent, 0, len(profiles))
	for _, p := range profiles {
		ps := PendingStudent{Profile: p}
		if u, ok := byID[p.UserID]; ok {
			ps.User = &u
		}
		out = append(out, ps)
	}
	return out, nil
}

func (s *Service) ListUsers(ctx context.Context, in ListParams) (ListResult, error) {
	return s.repo.ListUsers(ctx, in)
}

func (s *Service) ChangeRole(ctx context.Context, actor User, userID, role string) (User, error) {
	if !ValidRole(role) {
		return User{}, ErrInvalidRole
	}
	if actor.ID == userID && role != RoleAdmin {
		return User{}, ErrDemoteSelf
	}
	u, err := s.repo.UserByID(ctx, userID)
	if err != nil {
		return User{}, err
	}
	if err := s.repo.UpdateUser(ctx, userID, map[string]any{"role": role}); err != nil {
		return User{}, err
	}
	u.Role = role
	s.logger.InfoContext(ctx, "user role changed", "user_id", userID, "role", role, "actor_id", actor.ID)
	return u, nil
}

// DeleteUser soft-deletes the account and revokes its sessions.
func (s *Service) DeleteUser(ctx context.Context, actor User, userID string) error {
	if actor.ID == userID {
		return ErrDeleteSelf
	}
	if _, err := s.repo.UserByID(ctx, userID); err != nil {
		return err
	}
	now := s.now()
	if err := s.repo.UpdateUser(ctx, userID, map[string]any{"deleted": true, "deleted_at": &now}); err != nil {
		return err
	}
	if err := s.repo.DeleteUserSessions(ctx, userID); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "user deleted", "user_id", userID, "actor_id", actor.ID)
	return nil
}

type Stats struct {
	UsersByRole   map[string]int64
	TotalUsers    int64
	Verifications map[string]int64
}

func (s *Service) Stats(ctx context.Context) (Stats, error) {
	byRole, err := s.repo.CountUsersByRole(ctx)
	if err != nil {
		return Stats{}, err
	}
	byStatus, err := s.repo.CountProfilesByStatus(ctx)
	if err != nil {
		return Stats{}, err
	}
	var total int64
	for _, n := range byRole {
		total += n
	}
	return Stats{UsersByRole: byRole, TotalUsers: total, Verifications: byStatus}, nil
}

func newSessionToken() (string, error) {
	b := make([]byte, 64)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
