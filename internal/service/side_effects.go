package service

import (
	"context"
	"errors"

	"unify-backend/internal/domain"
	"unify-backend/internal/logger"
	"unify-backend/internal/metrics"
	"unify-backend/internal/repository"
)

// Steps name the best-effort writes for logs and the failure counter.
const (
	stepAddRegisteredChapter    = "add_registered_chapter"
	stepRemoveRegisteredChapter = "remove_registered_chapter"
	stepIncrementMemberCount    = "increment_member_count"
	stepDecrementMemberCount    = "decrement_member_count"
	stepAppendActivity          = "append_activity"
	stepNotify                  = "notify"
	stepPersistChapterID        = "persist_chapter_id"
)

// sideEffects runs writes whose failure is logged and counted but never
// returned. Earlier writes are not rolled back.
type sideEffects struct {
	metrics *metrics.Metrics
}

func (s sideEffects) run(ctx context.Context, step string, fn func() error, fields ...any) bool {
	err := fn()
	if err == nil {
		return true
	}
	args := append([]any{"step", step, "error", err}, fields...)
	logger.WarnContext(ctx, "Side effect failed", args...)
	s.metrics.IncrementSideEffectFailure(step)
	return false
}

func (s sideEffects) appendActivity(ctx context.Context, activities repository.ActivityRepository, a *domain.Activity) {
	s.run(ctx, stepAppendActivity, func() error {
		return activities.Create(ctx, a)
	}, "type", a.Type, "chapterID", a.ChapterID)
}

// decrementMemberCount never takes the count below zero: a failed guard
// resets the count to exactly zero.
func (s sideEffects) decrementMemberCount(ctx context.Context, chapters repository.ChapterRepository, chapterID string) {
	s.run(ctx, stepDecrementMemberCount, func() error {
		err := chapters.DecrementMemberCount(ctx, chapterID)
		if errors.Is(err, domain.ErrConditionFailed) {
			logger.InfoContext(ctx, "Member count already at zero, resetting", "chapterID", chapterID)
			return chapters.SetMemberCount(ctx, chapterID, 0)
		}
		return err
	}, "chapterID", chapterID)
}
