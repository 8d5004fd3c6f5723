package campaigns

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/skairipa08/FundEd/internal/modules/users"
	"github.com/skairipa08/FundEd/internal/shared/ids"
)

type Repository interface {
	Create(ctx context.Context, c *Campaign) error
	ByID(ctx context.Context, id string) (Campaign, error)
	Update(ctx context.Context, id string, fields map[string]any) error
	ByStudent(ctx context.Context, studentID string, limit int) ([]Campaign, error)
	Search(ctx context.Context, in SearchParams) (SearchResult, error)
	Counts(ctx context.Context) (Counts, error)
}

// Students resolves campaign owners. *users.Repo implements it.
type Students interface {
	UserByID(ctx context.Context, id string) (users.User, error)
	ProfileByUser(ctx context.Context, userID string) (users.StudentProfile, error)
}

type Service struct {
	repo     Repository
	students Students
	logger   *slog.Logger
	now      func() time.Time
}

func NewService(repo Repository, students Students, logger *slog.Logger) *Service {
	return &Service{repo: repo, students: students, logger: logger, now: time.Now}
}

type ListParams struct {
	Category     string
	Search       string
	Country      string
	FieldOfStudy string
	Page         int
	Limit        int
}

// List returns active campaigns, newest first.
func (s *Service) List(ctx context.Context, in ListParams) (SearchResult, error) {
	page := in.Page
	if page < 1 {
		page = 1
	}
	limit := in.Limit
	if limit < 1 {
		limit = 12
	}
	if limit > 50 {
		limit = 50
	}
	return s.repo.Search(ctx, SearchParams{
		Status:       StatusActive,
		Category:     in.Category,
		Search:       in.Search,
		Country:      in.Country,
		FieldOfStudy: in.FieldOfStudy,
		Page:         page,
		Limit:        limit,
	})
}

func (s *Service) AdminList(ctx context.Context, status string) (SearchResult, error) {
	return s.repo.Search(ctx, SearchParams{Status: status, Page: 1, Limit: 100})
}

type Detail struct {
	Campaign Campaign
	Student  *users.User
	Profile  *users.StudentProfile
}

func (s *Service) Get(ctx context.Context, id string) (Detail, error) {
	c, err := s.repo.ByID(ctx, id)
	if err != nil {
		return Detail{}, err
	}
	d := Detail{Campaign: c}

	if u, err := s.students.UserByID(ctx, c.StudentID); err == nil {
		d.Student = &u
	} else if !errors.Is(err, users.ErrUserNotFound) {
		return Detail{}, err
	}
	if p, err := s.students.ProfileByUser(ctx, c.StudentID); err == nil {
		d.Profile = &p
	} else if !errors.Is(err, users.ErrProfileNotFound) {
		return Detail{}, err
	}
	return d, nil
}

func (s *Service) Mine(ctx context.Context, actor users.User) ([]Campaign, error) {
	return s.repo.ByStudent(ctx, actor.ID, 100)
}

type CreateInput struct {
	Title       string
	Story       string
	Category    string
	TargetCents int64
	Timeline    string
	ImpactLog   *string
	CoverImage  *string
}

// Create opens a campaign for a verified student.
func (s *Service) Create(ctx context.Context, actor users.User, in CreateInput) (Campaign, error) {
	p, err := s.students.ProfileByUser(ctx, actor.ID)
	if errors.Is(err, users.ErrProfileNotFound) {
		return Campaign{}, ErrNoProfile
	}
	if err != nil {
		return Campaign{}, err
	}
	if p.VerificationStatus != users.VerificationVerified {
		return Campaign{}, ErrNotVerified
	}
	if !ValidCategory(in.Category) {
		return Campaign{}, ErrInvalidCategory
	}
	if in.TargetCents <= 0 {
		return Campaign{}, ErrInvalidTarget
	}

	now := s.now()
	c := Campaign{
		ID:          ids.New("campaign"),
		StudentID:   actor.ID,
		Title:       strings.TrimSpace(in.Title),
		Story:       in.Story,
		Category:    in.Category,
		TargetCents: in.TargetCents,
		Timeline:    in.Timeline,
		ImpactLog:   in.ImpactLog,
		CoverImage:  in.CoverImage,
		Status:      StatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, &c); err != nil {
		return Campaign{}, err
	}
	s.logger.InfoContext(ctx, "campaign created", "campaign_id", c.ID, "student_id", actor.ID)
	return c, nil
}

// UpdateInput carries the editable fields; nil leaves a field unchanged.
// Accumulators and status are not editable here.
type UpdateInput struct {
	Title       *string
	Story       *string
	Category    *string
	TargetCents *int64
	Timeline    *string
	ImpactLog   *string
	CoverImage  *string
}

func (s *Service) Update(ctx context.Context, actor users.User, id string, in UpdateInput) (Campaign, error) {
	c, err := s.owned(ctx, actor, id)
	if err != nil {
		return Campaign{}, err
	}

	fields := map[string]any{}
	if in.Title != nil {
		fields["title"] = strings.TrimSpace(*in.Title)
	}
	if in.Story != nil {
		fields["story"] = *in.Story
	}
	if in.Category != nil {
		if !ValidCategory(*in.Category) {
			return Campaign{}, ErrInvalidCategory
		}
		fields["category"] = *in.Category
	}
	if in.TargetCents != nil {
		if *in.TargetCents <= 0 {
			return Campaign{}, ErrInvalidTarget
		}
		fields["target_cents"] = *in.TargetCents
	}
	if in.Timeline != nil {
		fields["timeline"] = *in.Timeline
	}
	if in.ImpactLog != nil {
		fields["impact_log"] = *in.ImpactLog
	}
	if in.CoverImage != nil {
		fields["cover_image"] = *in.CoverImage
	}
	if len(fields) == 0 {
		return c, nil
	}

	if err := s.repo.Update(ctx, id, fields); err != nil {
		return Campaign{}, err
	}
	return s.repo.ByID(ctx, id)
}

// Cancel marks the campaign cancelled. Only the owner or an admin may do it.
func (s *Service) Cancel(ctx context.Context, actor users.User, id string) error {
	if _, err := s.owned(ctx, actor, id); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, id, map[string]any{"status": StatusCancelled}); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "campaign cancelled", "campaign_id", id, "actor_id", actor.ID)
	return nil
}

// SetStatus is the admin moderation transition.
func (s *Service) SetStatus(ctx context.Context, id, status, reason string) (Campaign, error) {
	valid := false
	for _, st := range ModerationStatuses {
		if st == status {
			valid = true
			break
		}
	}
	if !valid {
		return Campaign{}, ErrInvalidStatus
	}
	if _, err := s.repo.ByID(ctx, id); err != nil {
		return Campaign{}, err
	}

	var reasonPtr *string
	if r := strings.TrimSpace(reason); r != "" {
		reasonPtr = &r
	}
	if err := s.repo.Update(ctx, id, map[string]any{"status": status, "status_reason": reasonPtr}); err != nil {
		return Campaign{}, err
	}
	s.logger.InfoContext(ctx, "campaign status changed", "campaign_id", id, "status", status)
	return s.repo.ByID(ctx, id)
}

func (s *Service) Counts(ctx context.Context) (Counts, error) {
	return s.repo.Counts(ctx)
}

func (s *Service) owned(ctx context.Context, actor users.User, id string) (Campaign, error) {
	c, err := s.repo.ByID(ctx, id)
	if err != nil {
		return Campaign{}, err
	}
	if c.StudentID != actor.ID && !actor.IsAdmin() {
		return Campaign{}, ErrNotOwner
	}
	return c, nil
}
