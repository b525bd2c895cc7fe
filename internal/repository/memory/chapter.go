package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"unify-backend/internal/domain"
	"unify-backend/internal/repository"
)

type chapterRepository struct {
	mu       sync.RWMutex
	chapters map[string]domain.Chapter
}

func NewChapterRepository() repository.ChapterRepository {
	return &chapterRepository{chapters: make(map[string]domain.Chapter)}
}

func (r *chapterRepository) Create(_ context.Context, c *domain.Chapter) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.chapters[c.ChapterID]; ok {
		return fmt.Errorf("chapter %s: %w", c.ChapterID, domain.ErrConflict)
	}
	r.chapters[c.ChapterID] = *c
	return nil
}

func (r *chapterRepository) GetByID(_ context.Context, chapterID string) (*domain.Chapter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.chapters[chapterID]
	if !ok {
		return nil, fmt.Errorf("chapter %s: %w", chapterID, domain.ErrNotFound)
	}
	return &c, nil
}

func (r *chapterRepository) GetByName(_ context.Context, name string) (*domain.Chapter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.chapters {
		if strings.EqualFold(c.ChapterName, name) {
			return &c, nil
		}
	}
	return nil, fmt.Errorf("chapter named %q: %w", name, domain.ErrNotFound)
}

func (r *chapterRepository) List(_ context.Context) ([]domain.Chapter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	chapters := make([]domain.Chapter, 0, len(r.chapters))
	for _, c := range r.chapters {
		chapters = append(chapters, c)
	}
	sort.Slice(chapters, func(i, j int) bool { return chapters[i].ChapterName < chapters[j].ChapterName })
	return chapters, nil
}

func (r *chapterRepository) update(chapterID string, fn func(c *domain.Chapter) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.chapters[chapterID]
	if !ok {
		return fmt.Errorf("chapter %s: %w", chapterID, domain.ErrNotFound)
	}
	if err := fn(&c); err != nil {
		return err
	}
	r.chapters[chapterID] = c
	return nil
}

func (r *chapterRepository) SetRegistrationOpen(_ context.Context, chapterID string, open bool, at time.Time) error {
	return r.update(chapterID, func(c *domain.Chapter) error {
		c.RegistrationOpen = open
		c.UpdatedAt = at
		return nil
	})
}

func (r *chapterRepository) SetHead(_ context.Context, chapterID, email, name string, at time.Time) error {
	return r.update(chapterID, func(c *domain.Chapter) error {
		c.HeadEmail = email
		c.HeadName = name
		c.UpdatedAt = at
		return nil
	})
}

func (r *chapterRepository) IncrementMemberCount(_ context.Context, chapterID string) error {
	return r.update(chapterID, func(c *domain.Chapter) error {
		c.MemberCount++
		return nil
	})
}

func (r *chapterRepository) DecrementMemberCount(_ context.Context, chapterID string) error {
	return r.update(chapterID, func(c *domain.Chapter) error {
		if c.MemberCount <= 0 {
			return fmt.Errorf("decrement member count of %s: %w", chapterID, domain.ErrConditionFailed)
		}
		c.MemberCount--
		return nil
	})
}

func (r *chapterRepository) SetMemberCount(_ context.Context, chapterID string, count int) error {
	return r.update(chapterID, func(c *domain.Chapter) error {
		c.MemberCount = count
		return nil
	})
}
