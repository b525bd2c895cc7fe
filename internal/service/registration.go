package service

import (
	"context"
	"errors"
	"fmt"

	"unify-backend/internal/domain"
	"unify-backend/internal/logger"
	"unify-backend/internal/metrics"
	"unify-backend/internal/repository"
)

type registrationService struct {
	store    *repository.Store
	heads    ChapterHeadService
	notifier Notifier
	metrics  *metrics.Metrics
	effects  sideEffects
	opts     options
}

func NewRegistrationService(store *repository.Store, heads ChapterHeadService, notifier Notifier, m *metrics.Metrics, opts ...Option) RegistrationService {
	if notifier == nil {
		notifier = NewLogNotifier()
	}
	return &registrationService{
		store:    store,
		heads:    heads,
		notifier: notifier,
		metrics:  m,
		effects:  sideEffects{metrics: m},
		opts:     buildOptions(opts),
	}
}

// Apply creates a pending request. The duplicate check and the insert are
// separate store calls, so two concurrent applications can both pass.
func (s *registrationService) Apply(ctx context.Context, caller domain.Identity, in ApplyInput) (*ApplyResult, error) {
	logger.EnterMethod("registrationService.Apply", "caller", caller.Email, "chapterName", in.ChapterName)

	studentEmail := domain.NormalizeEmail(in.StudentEmail)
	if domain.NormalizeEmail(caller.Email) != studentEmail {
		err := fmt.Errorf("cannot apply on behalf of %s: %w", studentEmail, domain.ErrForbidden)
		logger.ExitMethodWithError("registrationService.Apply", err)
		return nil, err
	}

	user, err := s.store.Users.GetByEmail(ctx, studentEmail)
	if err != nil {
		logger.ExitMethodWithError("registrationService.Apply", err, "reason", "student lookup")
		return nil, fmt.Errorf("student: %w", err)
	}

	chapter, err := s.store.Chapters.GetByName(ctx, in.ChapterName)
	if err != nil {
		logger.ExitMethodWithError("registrationService.Apply", err, "reason", "chapter lookup")
		return nil, err
	}
	if !chapter.RegistrationOpen {
		err := fmt.Errorf("%s: %w", chapter.ChapterName, domain.ErrRegistrationClosed)
		logger.ExitMethodWithError("registrationService.Apply", err)
		return nil, err
	}

	existing, err := s.store.Registrations.FindByUserAndChapter(ctx, user.UserID, chapter.ChapterID,
		domain.RegistrationStatusPending, domain.RegistrationStatusApproved)
	switch {
	case err == nil:
		dup := &domain.DuplicateRegistrationError{RegistrationID: existing.RegistrationID, Status: existing.Status}
		logger.ExitMethodWithError("registrationService.Apply", dup, "registrationID", existing.RegistrationID)
		return nil, dup
	case !errors.Is(err, domain.ErrNotFound):
		logger.ExitMethodWithError("registrationService.Apply", err, "reason", "duplicate check")
		return nil, err
	}

	now := s.opts.now()
	req := &domain.RegistrationRequest{
		RegistrationID: domain.NewRegistrationID(user.UserID, chapter.ChapterID, now),
		UserID:         user.UserID,
		StudentName:    user.Name,
		StudentEmail:   studentEmail,
		ChapterID:      chapter.ChapterID,
		ChapterName:    chapter.ChapterName,
		Status:         domain.RegistrationStatusPending,
		AppliedAt:      now,
		SapID:          user.SapID,
		Year:           user.Year,
	}
	if err := s.store.Registrations.Create(ctx, req); err != nil {
		logger.ExitMethodWithError("registrationService.Apply", err, "reason", "insert")
		return nil, err
	}
	s.metrics.IncrementTransition(string(req.Status))

	s.effects.appendActivity(ctx, s.store.Activities, &domain.Activity{
		ActivityID: domain.NewActivityID(now),
		Type:       domain.ActivityRegistration,
		Message:    fmt.Sprintf("%s applied to join %s", displayName(user.Name, studentEmail), chapter.ChapterName),
		Timestamp:  now,
		ChapterID:  chapter.ChapterID,
		UserID:     user.UserID,
		Metadata: map[string]any{
			"registrationId": req.RegistrationID,
			"studentEmail":   studentEmail,
		},
	})

	logger.ExitMethod("registrationService.Apply", "registrationID", req.RegistrationID)
	return &ApplyResult{
		RegistrationID: req.RegistrationID,
		ChapterID:      chapter.ChapterID,
		ChapterName:    chapter.ChapterName,
		StudentEmail:   studentEmail,
		Status:         req.Status,
	}, nil
}

// Decide approves or rejects a request. Any linked chapter head may decide
// any request: ownership of the request's chapter is not checked and neither
// is the current status, so a second approve counts the member twice.
func (s *registrationService) Decide(ctx context.Context, head domain.Identity, registrationID string, status domain.RegistrationStatus, notes *string) (*DecideResult, error) {
	logger.EnterMethod("registrationService.Decide", "registrationID", registrationID, "status", status)

	if status != domain.RegistrationStatusApproved && status != domain.RegistrationStatusRejected {
		err := fmt.Errorf("status must be approved or rejected, got %q: %w", status, domain.ErrInvalidInput)
		logger.ExitMethodWithError("registrationService.Decide", err)
		return nil, err
	}
	if _, err := s.heads.Resolve(ctx, head); err != nil {
		logger.ExitMethodWithError("registrationService.Decide", err, "reason", "head resolution")
		return nil, err
	}
	if _, err := s.store.Registrations.GetByID(ctx, registrationID); err != nil {
		logger.ExitMethodWithError("registrationService.Decide", err, "registrationID", registrationID)
		return nil, err
	}

	updated, err := s.store.Registrations.UpdateStatus(ctx, registrationID, domain.StatusUpdate{
		Status:      status,
		ProcessedAt: s.opts.now(),
		ProcessedBy: domain.NormalizeEmail(head.Email),
		Notes:       notes,
	})
	if err != nil {
		logger.ExitMethodWithError("registrationService.Decide", err, "registrationID", registrationID)
		return nil, err
	}
	s.metrics.IncrementTransition(string(status))

	if status == domain.RegistrationStatusApproved {
		s.effects.run(ctx, stepAddRegisteredChapter, func() error {
			return s.store.Users.AddRegisteredChapter(ctx, updated.UserID, updated.ChapterName)
		}, "userID", updated.UserID, "chapter", updated.ChapterName)
		s.effects.run(ctx, stepIncrementMemberCount, func() error {
			return s.store.Chapters.IncrementMemberCount(ctx, updated.ChapterID)
		}, "chapterID", updated.ChapterID)
	}

	s.effects.run(ctx, stepNotify, func() error {
		return s.notifier.SendRegistrationDecision(ctx, updated.StudentEmail, updated.StudentName,
			updated.ChapterName, status, updated.Notes)
	}, "registrationID", registrationID)

	logger.ExitMethod("registrationService.Decide", "registrationID", registrationID, "status", status)
	return &DecideResult{
		Message:      fmt.Sprintf("Registration %s successfully", status),
		Registration: updated,
	}, nil
}

// Kick removes an approved member from the head's chapter. Only the status
// write can fail the call.
func (s *registrationService) Kick(ctx context.Context, head domain.Identity, studentEmail, reason string) (*RemovalResult, error) {
	logger.EnterMethod("registrationService.Kick", "head", head.Email, "student", studentEmail)

	hc, err := s.heads.Resolve(ctx, head)
	if err != nil {
		logger.ExitMethodWithError("registrationService.Kick", err, "reason", "head resolution")
		return nil, err
	}
	chapter := hc.Chapter

	user, err := s.store.Users.GetByEmail(ctx, studentEmail)
	if err != nil {
		logger.ExitMethodWithError("registrationService.Kick", err, "reason", "student lookup")
		return nil, fmt.Errorf("student: %w", err)
	}

	req, err := s.store.Registrations.FindByUserAndChapter(ctx, user.UserID, chapter.ChapterID, domain.RegistrationStatusApproved)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			err = fmt.Errorf("%s in %s: %w", user.Email, chapter.ChapterName, domain.ErrNotMember)
		}
		logger.ExitMethodWithError("registrationService.Kick", err)
		return nil, err
	}

	s.effects.run(ctx, stepRemoveRegisteredChapter, func() error {
		return s.store.Users.RemoveRegisteredChapter(ctx, user.UserID, chapter.ChapterName)
	}, "userID", user.UserID, "chapter", chapter.ChapterName)

	now := s.opts.now()
	update := domain.StatusUpdate{
		Status:      domain.RegistrationStatusKicked,
		ProcessedAt: now,
		ProcessedBy: domain.NormalizeEmail(head.Email),
	}
	if reason != "" {
		update.Notes = &reason
	}
	if _, err := s.store.Registrations.UpdateStatus(ctx, req.RegistrationID, update); err != nil {
		logger.ExitMethodWithError("registrationService.Kick", err, "registrationID", req.RegistrationID)
		return nil, err
	}
	s.metrics.IncrementTransition(string(domain.RegistrationStatusKicked))

	s.effects.decrementMemberCount(ctx, s.store.Chapters, chapter.ChapterID)

	name := displayName(user.Name, user.Email)
	s.effects.appendActivity(ctx, s.store.Activities, &domain.Activity{
		ActivityID: domain.NewActivityID(now),
		Type:       domain.ActivityStudentRemoved,
		Message:    fmt.Sprintf("%s was removed from %s", name, chapter.ChapterName),
		Timestamp:  now,
		ChapterID:  chapter.ChapterID,
		UserID:     user.UserID,
		Metadata: map[string]any{
			"registrationId": req.RegistrationID,
			"removedBy":      update.ProcessedBy,
			"reason":         reason,
		},
	})

	s.effects.run(ctx, stepNotify, func() error {
		return s.notifier.SendRemovalNotice(ctx, user.Email, user.Name, chapter.ChapterName, reason)
	}, "registrationID", req.RegistrationID)

	logger.ExitMethod("registrationService.Kick", "registrationID", req.RegistrationID)
	return &RemovalResult{
		Message:      fmt.Sprintf("%s has been removed from %s", name, chapter.ChapterName),
		StudentEmail: user.Email,
		ChapterID:    chapter.ChapterID,
		ChapterName:  chapter.ChapterName,
	}, nil
}

// Leave is the student-initiated counterpart of Kick.
func (s *registrationService) Leave(ctx context.Context, caller domain.Identity, chapterID string) (*RemovalResult, error) {
	logger.EnterMethod("registrationService.Leave", "caller", caller.Email, "chapterID", chapterID)

	user, err := s.store.Users.GetByEmail(ctx, caller.Email)
	if err != nil {
		logger.ExitMethodWithError("registrationService.Leave", err, "reason", "student lookup")
		return nil, fmt.Errorf("student: %w", err)
	}

	req, err := s.store.Registrations.FindByUserAndChapter(ctx, user.UserID, chapterID, domain.RegistrationStatusApproved)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			err = fmt.Errorf("%s in chapter %s: %w", user.Email, chapterID, domain.ErrNotMember)
		}
		logger.ExitMethodWithError("registrationService.Leave", err)
		return nil, err
	}

	now := s.opts.now()
	if _, err := s.store.Registrations.UpdateStatus(ctx, req.RegistrationID, domain.StatusUpdate{
		Status:      domain.RegistrationStatusLeft,
		ProcessedAt: now,
		ProcessedBy: domain.NormalizeEmail(caller.Email),
	}); err != nil {
		logger.ExitMethodWithError("registrationService.Leave", err, "registrationID", req.RegistrationID)
		return nil, err
	}
	s.metrics.IncrementTransition(string(domain.RegistrationStatusLeft))

	s.effects.run(ctx, stepRemoveRegisteredChapter, func() error {
		return s.store.Users.RemoveRegisteredChapter(ctx, user.UserID, req.ChapterName)
	}, "userID", user.UserID, "chapter", req.ChapterName)

	s.effects.decrementMemberCount(ctx, s.store.Chapters, chapterID)

	name := displayName(user.Name, user.Email)
	s.effects.appendActivity(ctx, s.store.Activities, &domain.Activity{
		ActivityID: domain.NewActivityID(now),
		Type:       domain.ActivityMemberLeft,
		Message:    fmt.Sprintf("%s left %s", name, req.ChapterName),
		Timestamp:  now,
		ChapterID:  chapterID,
		UserID:     user.UserID,
		Metadata:   map[string]any{"registrationId": req.RegistrationID},
	})

	logger.ExitMethod("registrationService.Leave", "registrationID", req.RegistrationID)
	return &RemovalResult{
		Message:      fmt.Sprintf("You have left %s", req.ChapterName),
		StudentEmail: user.Email,
		ChapterID:    chapterID,
		ChapterName:  req.ChapterName,
	}, nil
}

func displayName(name, email string) string {
	if name != "" {
		return name
	}
	return email
}
