package memory

import (
	"context"
	"fmt"
	"sync"

	"unify-backend/internal/domain"
	"unify-backend/internal/repository"
)

type chapterHeadRepository struct {
	mu    sync.RWMutex
	heads map[string]domain.ChapterHead
}

func NewChapterHeadRepository() repository.ChapterHeadRepository {
	return &chapterHeadRepository{heads: make(map[string]domain.ChapterHead)}
}

func (r *chapterHeadRepository) GetByEmail(_ context.Context, email string) (*domain.ChapterHead, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.heads[domain.NormalizeEmail(email)]
	if !ok {
		return nil, fmt.Errorf("chapter head %s: %w", email, domain.ErrNotFound)
	}
	h.Chapters = append([]string{}, h.Chapters...)
	return &h, nil
}

func (r *chapterHeadRepository) Save(_ context.Context, h *domain.ChapterHead) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *h
	stored.Chapters = append([]string{}, h.Chapters...)
	r.heads[domain.NormalizeEmail(h.Email)] = stored
	return nil
}

func (r *chapterHeadRepository) SetChapterID(_ context.Context, email, chapterID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := domain.NormalizeEmail(email)
	h, ok := r.heads[key]
	if !ok {
		return fmt.Errorf("chapter head %s: %w", email, domain.ErrNotFound)
	}
	h.ChapterID = chapterID
	r.heads[key] = h
	return nil
}
