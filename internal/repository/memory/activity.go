package memory

import (
	"context"
	"fmt"
	"sync"

	"unify-backend/internal/domain"
	"unify-backend/internal/repository"
)

type activityRepository struct {
	mu         sync.RWMutex
	activities []domain.Activity
	ids        map[string]struct{}
}

func NewActivityRepository() repository.ActivityRepository {
	return &activityRepository{ids: make(map[string]struct{})}
}

func (r *activityRepository) Create(_ context.Context, a *domain.Activity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.ids[a.ActivityID]; ok {
		return fmt.Errorf("activity %s: %w", a.ActivityID, domain.ErrConflict)
	}
	r.ids[a.ActivityID] = struct{}{}
	r.activities = append(r.activities, *a)
	return nil
}

// ListByChapter returns activities in insertion order; callers sort.
func (r *activityRepository) ListByChapter(_ context.Context, chapterID string) ([]domain.Activity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.Activity
	for _, a := range r.activities {
		if a.ChapterID == chapterID {
			out = append(out, a)
		}
	}
	return out, nil
}
