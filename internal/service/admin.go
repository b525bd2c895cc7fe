package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"unify-backend/internal/domain"
	"unify-backend/internal/logger"
	"unify-backend/internal/metrics"
	"unify-backend/internal/repository"
)

type adminService struct {
	store   *repository.Store
	effects sideEffects
	opts    options
}

func NewAdminService(store *repository.Store, m *metrics.Metrics, opts ...Option) AdminService {
	return &adminService{
		store:   store,
		effects: sideEffects{metrics: m},
		opts:    buildOptions(opts),
	}
}

func requireAdmin(caller domain.Identity) error {
	if !caller.HasRole(domain.RoleAdmin) {
		return fmt.Errorf("admin role required: %w", domain.ErrForbidden)
	}
	return nil
}

func (s *adminService) CreateChapter(ctx context.Context, caller domain.Identity, in CreateChapterInput) (*domain.Chapter, error) {
	logger.EnterMethod("adminService.CreateChapter", "caller", caller.Email, "chapterName", in.ChapterName)

	if err := requireAdmin(caller); err != nil {
		logger.ExitMethodWithError("adminService.CreateChapter", err)
		return nil, err
	}
	name := strings.TrimSpace(in.ChapterName)
	if name == "" {
		return nil, fmt.Errorf("chapterName is required: %w", domain.ErrInvalidInput)
	}

	_, err := s.store.Chapters.GetByName(ctx, name)
	switch {
	case err == nil:
		err = fmt.Errorf("chapter %q already exists: %w", name, domain.ErrConflict)
		logger.ExitMethodWithError("adminService.CreateChapter", err)
		return nil, err
	case !errors.Is(err, domain.ErrNotFound):
		logger.ExitMethodWithError("adminService.CreateChapter", err)
		return nil, err
	}

	now := s.opts.now()
	chapter := &domain.Chapter{
		ChapterID:        uuid.NewString(),
		ChapterName:      name,
		Description:      strings.TrimSpace(in.Description),
		HeadEmail:        domain.NormalizeEmail(in.HeadEmail),
		HeadName:         strings.TrimSpace(in.HeadName),
		Status:           domain.ChapterStatusActive,
		RegistrationOpen: in.RegistrationOpen,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.store.Chapters.Create(ctx, chapter); err != nil {
		logger.ExitMethodWithError("adminService.CreateChapter", err)
		return nil, err
	}

	if chapter.HeadEmail != "" {
		head := &domain.ChapterHead{
			Email:       chapter.HeadEmail,
			Name:        chapter.HeadName,
			ChapterID:   chapter.ChapterID,
			ChapterName: chapter.ChapterName,
		}
		if err := s.store.ChapterHeads.Save(ctx, head); err != nil {
			logger.ExitMethodWithError("adminService.CreateChapter", err, "reason", "save chapter head")
			return nil, err
		}
	}

	s.effects.appendActivity(ctx, s.store.Activities, &domain.Activity{
		ActivityID: domain.NewActivityID(now),
		Type:       domain.ActivityChapterCreated,
		Message:    fmt.Sprintf("Chapter %s created", chapter.ChapterName),
		Timestamp:  now,
		ChapterID:  chapter.ChapterID,
		Metadata:   map[string]any{"createdBy": domain.NormalizeEmail(caller.Email)},
	})

	logger.ExitMethod("adminService.CreateChapter", "chapterID", chapter.ChapterID)
	return chapter, nil
}

func (s *adminService) ListChapters(ctx context.Context, caller domain.Identity) ([]domain.Chapter, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	chapters, err := s.store.Chapters.List(ctx)
	if err != nil {
		return nil, err
	}
	if chapters == nil {
		chapters = []domain.Chapter{}
	}
	sortByName(chapters)
	return chapters, nil
}

// AssignChapterHead links a head to a chapter with the chapterId already
// resolved, so the head never goes through scan-based resolution.
func (s *adminService) AssignChapterHead(ctx context.Context, caller domain.Identity, in AssignHeadInput) (*domain.ChapterHead, error) {
	logger.EnterMethod("adminService.AssignChapterHead", "caller", caller.Email, "email", in.Email)

	if err := requireAdmin(caller); err != nil {
		logger.ExitMethodWithError("adminService.AssignChapterHead", err)
		return nil, err
	}
	email := domain.NormalizeEmail(in.Email)
	if email == "" {
		return nil, fmt.Errorf("email is required: %w", domain.ErrInvalidInput)
	}

	chapter, err := resolveChapter(ctx, s.store.Chapters, &domain.ChapterHead{
		Email:       email,
		ChapterID:   strings.TrimSpace(in.ChapterID),
		ChapterName: strings.TrimSpace(in.ChapterName),
	})
	if err != nil {
		if errors.Is(err, domain.ErrChapterNotLinked) {
			err = fmt.Errorf("chapter %q: %w", firstNonEmpty(in.ChapterID, in.ChapterName), domain.ErrNotFound)
		}
		logger.ExitMethodWithError("adminService.AssignChapterHead", err)
		return nil, err
	}

	head := &domain.ChapterHead{
		Email:       email,
		Name:        strings.TrimSpace(in.Name),
		ChapterID:   chapter.ChapterID,
		ChapterName: chapter.ChapterName,
	}
	if err := s.store.ChapterHeads.Save(ctx, head); err != nil {
		logger.ExitMethodWithError("adminService.AssignChapterHead", err)
		return nil, err
	}
	if err := s.store.Chapters.SetHead(ctx, chapter.ChapterID, head.Email, head.Name, s.opts.now()); err != nil {
		logger.ExitMethodWithError("adminService.AssignChapterHead", err, "reason", "update chapter")
		return nil, err
	}

	logger.ExitMethod("adminService.AssignChapterHead", "email", email, "chapterID", chapter.ChapterID)
	return head, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
