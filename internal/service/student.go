package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"unify-backend/internal/domain"
	"unify-backend/internal/logger"
	"unify-backend/internal/repository"
)

type studentService struct {
	store *repository.Store
	opts  options
}

func NewStudentService(store *repository.Store, opts ...Option) StudentService {
	return &studentService{store: store, opts: buildOptions(opts)}
}

// ListChapters returns active chapters sorted by name, open or not.
func (s *studentService) ListChapters(ctx context.Context) ([]domain.Chapter, error) {
	chapters, err := s.store.Chapters.List(ctx)
	if err != nil {
		return nil, err
	}
	active := make([]domain.Chapter, 0, len(chapters))
	for _, c := range chapters {
		if c.IsActive() {
			active = append(active, c)
		}
	}
	sortByName(active)
	return active, nil
}

// user returns (nil, nil) for a caller who has no profile yet.
func (s *studentService) user(ctx context.Context, caller domain.Identity) (*domain.User, error) {
	u, err := s.store.Users.GetByEmail(ctx, caller.Email)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	return u, err
}

func (s *studentService) requests(ctx context.Context, caller domain.Identity) ([]domain.RegistrationRequest, error) {
	u, err := s.user(ctx, caller)
	if err != nil || u == nil {
		return []domain.RegistrationRequest{}, err
	}
	reqs, err := s.store.Registrations.ListByUser(ctx, u.UserID)
	if err != nil {
		return nil, err
	}
	if reqs == nil {
		reqs = []domain.RegistrationRequest{}
	}
	return reqs, nil
}

// MyChapters derives membership from approved requests rather than from the
// user's registeredChapters, which can drift.
func (s *studentService) MyChapters(ctx context.Context, caller domain.Identity) ([]domain.Chapter, error) {
	reqs, err := s.requests(ctx, caller)
	if err != nil {
		return nil, err
	}

	chapters := []domain.Chapter{}
	seen := make(map[string]bool)
	for _, r := range reqs {
		if r.Status != domain.RegistrationStatusApproved || seen[r.ChapterID] {
			continue
		}
		seen[r.ChapterID] = true
		c, err := s.store.Chapters.GetByID(ctx, r.ChapterID)
		if errors.Is(err, domain.ErrNotFound) {
			logger.WarnContext(ctx, "Approved registration points at a missing chapter",
				"registrationID", r.RegistrationID, "chapterID", r.ChapterID)
			continue
		}
		if err != nil {
			return nil, err
		}
		chapters = append(chapters, *c)
	}
	sortByName(chapters)
	return chapters, nil
}

func (s *studentService) Dashboard(ctx context.Context, caller domain.Identity) (*StudentDashboard, error) {
	reqs, err := s.requests(ctx, caller)
	if err != nil {
		return nil, err
	}
	chapters, err := s.ListChapters(ctx)
	if err != nil {
		return nil, err
	}

	d := &StudentDashboard{Counts: countStatuses(reqs)}
	d.Memberships = d.Counts.Approved
	for _, c := range chapters {
		if c.RegistrationOpen {
			d.OpenChapters++
		}
	}
	return d, nil
}

// MyRegistrations returns every request of the caller, newest first.
func (s *studentService) MyRegistrations(ctx context.Context, caller domain.Identity) ([]domain.RegistrationRequest, error) {
	reqs, err := s.requests(ctx, caller)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(reqs, func(i, j int) bool { return reqs[i].AppliedAt.After(reqs[j].AppliedAt) })
	return reqs, nil
}

func (s *studentService) GetProfile(ctx context.Context, caller domain.Identity) (*domain.User, error) {
	return s.store.Users.GetByEmail(ctx, caller.Email)
}

// UpsertProfile creates the caller's user record on first use and updates
// name, sapId and year afterwards. Email and registeredChapters are not
// editable here.
func (s *studentService) UpsertProfile(ctx context.Context, caller domain.Identity, in ProfileInput) (*domain.User, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("name is required: %w", domain.ErrInvalidInput)
	}

	u, err := s.user(ctx, caller)
	if err != nil {
		return nil, err
	}
	if u == nil {
		u = &domain.User{
			UserID:             uuid.NewString(),
			Name:               name,
			Email:              domain.NormalizeEmail(caller.Email),
			SapID:              strings.TrimSpace(in.SapID),
			Year:               strings.TrimSpace(in.Year),
			RegisteredChapters: []string{},
			CreatedAt:          s.opts.now(),
		}
		if err := s.store.Users.Create(ctx, u); err != nil {
			return nil, err
		}
		logger.InfoContext(ctx, "Created user profile", "userID", u.UserID, "email", u.Email)
		return u, nil
	}

	u.Name = name
	u.SapID = strings.TrimSpace(in.SapID)
	u.Year = strings.TrimSpace(in.Year)
	if err := s.store.Users.UpdateProfile(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func sortByName(chapters []domain.Chapter) {
	sort.SliceStable(chapters, func(i, j int) bool {
		return strings.ToLower(chapters[i].ChapterName) < strings.ToLower(chapters[j].ChapterName)
	})
}
