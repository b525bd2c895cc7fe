package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"unify-backend/internal/domain"
	"unify-backend/internal/logger"
	"unify-backend/internal/metrics"
	"unify-backend/internal/repository"
)

const (
	defaultActivityLimit = 10
	maxActivityLimit     = 100
	dashboardActivities  = 5
)

type chapterHeadService struct {
	store   *repository.Store
	effects sideEffects
	opts    options
}

func NewChapterHeadService(store *repository.Store, m *metrics.Metrics, opts ...Option) ChapterHeadService {
	return &chapterHeadService{
		store:   store,
		effects: sideEffects{metrics: m},
		opts:    buildOptions(opts),
	}
}

// Resolve maps the caller to their chapter. A chapterId found by scanning is
// written back to the head record so later calls take the direct path.
func (s *chapterHeadService) Resolve(ctx context.Context, caller domain.Identity) (*HeadContext, error) {
	if !caller.HasRole(domain.RoleChapterHead) {
		return nil, fmt.Errorf("chapter head role required: %w", domain.ErrForbidden)
	}

	head, err := s.store.ChapterHeads.GetByEmail(ctx, caller.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%s is not registered as a chapter head: %w", caller.Email, domain.ErrForbidden)
		}
		return nil, err
	}

	chapter, err := resolveChapter(ctx, s.store.Chapters, head)
	if err != nil {
		return nil, err
	}

	if head.ChapterID == "" {
		logger.InfoContext(ctx, "Resolved chapter head by scan", "email", head.Email, "chapterID", chapter.ChapterID)
		s.effects.run(ctx, stepPersistChapterID, func() error {
			return s.store.ChapterHeads.SetChapterID(ctx, head.Email, chapter.ChapterID)
		}, "email", head.Email)
		head.ChapterID = chapter.ChapterID
	}
	return &HeadContext{Head: head, Chapter: chapter}, nil
}

// resolveChapter tries, in order: the explicit chapterId, a lookup by
// chapterName, then the first legacy entry as an id and then as a name.
func resolveChapter(ctx context.Context, chapters repository.ChapterRepository, head *domain.ChapterHead) (*domain.Chapter, error) {
	if head.ChapterID != "" {
		c, err := found(chapters.GetByID(ctx, head.ChapterID))
		if c == nil && err == nil {
			return nil, notLinked(head.Email)
		}
		return c, err
	}

	if head.ChapterName != "" {
		c, err := found(chapters.GetByName(ctx, head.ChapterName))
		if c != nil || err != nil {
			return c, err
		}
	}

	if len(head.Chapters) > 0 && head.Chapters[0] != "" {
		first := head.Chapters[0]
		c, err := found(chapters.GetByID(ctx, first))
		if c != nil || err != nil {
			return c, err
		}
		c, err = found(chapters.GetByName(ctx, first))
		if c != nil || err != nil {
			return c, err
		}
	}

	return nil, notLinked(head.Email)
}

// found turns a not-found lookup into (nil, nil).
func found(c *domain.Chapter, err error) (*domain.Chapter, error) {
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	return c, err
}

func notLinked(email string) error {
	return fmt.Errorf("%w: no chapter could be resolved for %s; set chapterId on the chapter head record or reassign the head via POST /admin/chapter-heads",
		domain.ErrChapterNotLinked, email)
}

func (s *chapterHeadService) MyChapter(ctx context.Context, caller domain.Identity) (*domain.Chapter, error) {
	hc, err := s.Resolve(ctx, caller)
	if err != nil {
		return nil, err
	}
	return hc.Chapter, nil
}

// Dashboard counts by scanning the chapter's requests on every call.
func (s *chapterHeadService) Dashboard(ctx context.Context, caller domain.Identity) (*HeadDashboard, error) {
	hc, err := s.Resolve(ctx, caller)
	if err != nil {
		return nil, err
	}
	reqs, err := s.store.Registrations.ListByChapter(ctx, hc.Chapter.ChapterID)
	if err != nil {
		return nil, err
	}
	recent, err := s.recentActivities(ctx, hc.Chapter.ChapterID, dashboardActivities)
	if err != nil {
		return nil, err
	}
	return &HeadDashboard{
		Chapter:          hc.Chapter,
		Counts:           countStatuses(reqs),
		RecentActivities: recent,
	}, nil
}

// checkScope rejects a chapterId that is not the caller's own.
func checkScope(hc *HeadContext, chapterID string) error {
	if chapterID != "" && chapterID != hc.Chapter.ChapterID {
		return fmt.Errorf("chapter %s is not managed by %s: %w", chapterID, hc.Head.Email, domain.ErrForbidden)
	}
	return nil
}

func (s *chapterHeadService) Registrations(ctx context.Context, caller domain.Identity, chapterID string, status domain.RegistrationStatus) ([]domain.RegistrationRequest, error) {
	if status != "" && !status.Valid() {
		return nil, fmt.Errorf("unknown status %q: %w", status, domain.ErrInvalidInput)
	}
	hc, err := s.Resolve(ctx, caller)
	if err != nil {
		return nil, err
	}
	if err := checkScope(hc, chapterID); err != nil {
		return nil, err
	}

	reqs, err := s.store.Registrations.ListByChapter(ctx, hc.Chapter.ChapterID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.RegistrationRequest, 0, len(reqs))
	for _, r := range reqs {
		if status == "" || r.Status == status {
			out = append(out, r)
		}
	}
	return out, nil
}

// ToggleRegistration sets registrationOpen to open, or flips it when open is nil.
func (s *chapterHeadService) ToggleRegistration(ctx context.Context, caller domain.Identity, chapterID string, open *bool) (*domain.Chapter, error) {
	logger.EnterMethod("chapterHeadService.ToggleRegistration", "caller", caller.Email, "chapterID", chapterID)

	hc, err := s.Resolve(ctx, caller)
	if err != nil {
		logger.ExitMethodWithError("chapterHeadService.ToggleRegistration", err)
		return nil, err
	}
	if err := checkScope(hc, chapterID); err != nil {
		logger.ExitMethodWithError("chapterHeadService.ToggleRegistration", err)
		return nil, err
	}

	chapter := hc.Chapter
	value := !chapter.RegistrationOpen
	if open != nil {
		value = *open
	}
	now := s.opts.now()
	if err := s.store.Chapters.SetRegistrationOpen(ctx, chapter.ChapterID, value, now); err != nil {
		logger.ExitMethodWithError("chapterHeadService.ToggleRegistration", err)
		return nil, err
	}
	chapter.RegistrationOpen = value
	chapter.UpdatedAt = now

	verb := "closed"
	if value {
		verb = "opened"
	}
	s.effects.appendActivity(ctx, s.store.Activities, &domain.Activity{
		ActivityID: domain.NewActivityID(now),
		Type:       domain.ActivityRegistrationToggled,
		Message:    fmt.Sprintf("Registration %s for %s", verb, chapter.ChapterName),
		Timestamp:  now,
		ChapterID:  chapter.ChapterID,
		Metadata: map[string]any{
			"registrationOpen": value,
			"toggledBy":        hc.Head.Email,
		},
	})

	logger.ExitMethod("chapterHeadService.ToggleRegistration", "chapterID", chapter.ChapterID, "registrationOpen", value)
	return chapter, nil
}

func (s *chapterHeadService) CheckMembership(ctx context.Context, caller domain.Identity, q MembershipQuery) (*MembershipStatus, error) {
	if q.Email == "" && q.UserID == "" {
		return nil, fmt.Errorf("email or userId is required: %w", domain.ErrInvalidInput)
	}
	hc, err := s.Resolve(ctx, caller)
	if err != nil {
		return nil, err
	}

	userID := q.UserID
	if userID == "" {
		user, err := s.store.Users.GetByEmail(ctx, q.Email)
		if err != nil {
			return nil, fmt.Errorf("student: %w", err)
		}
		userID = user.UserID
	}

	status := &MembershipStatus{UserID: userID, ChapterID: hc.Chapter.ChapterID}
	req, err := s.store.Registrations.FindByUserAndChapter(ctx, userID, hc.Chapter.ChapterID, domain.RegistrationStatusApproved)
	switch {
	case err == nil:
		status.IsMember = true
		status.Registration = req
	case !errors.Is(err, domain.ErrNotFound):
		return nil, err
	}
	return status, nil
}

// Activities reads every activity of the chapter, then sorts and truncates.
func (s *chapterHeadService) Activities(ctx context.Context, caller domain.Identity, limit int) ([]domain.Activity, error) {
	hc, err := s.Resolve(ctx, caller)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultActivityLimit
	}
	if limit > maxActivityLimit {
		limit = maxActivityLimit
	}
	return s.recentActivities(ctx, hc.Chapter.ChapterID, limit)
}

func (s *chapterHeadService) recentActivities(ctx context.Context, chapterID string, limit int) ([]domain.Activity, error) {
	activities, err := s.store.Activities.ListByChapter(ctx, chapterID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(activities, func(i, j int) bool {
		return activities[i].Timestamp.After(activities[j].Timestamp)
	})
	if len(activities) > limit {
		activities = activities[:limit]
	}
	if activities == nil {
		activities = []domain.Activity{}
	}
	return activities, nil
}
