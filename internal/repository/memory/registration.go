package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"unify-backend/internal/domain"
	"unify-backend/internal/repository"
)

type registrationRepository struct {
	mu   sync.RWMutex
	regs map[string]domain.RegistrationRequest
}

func NewRegistrationRepository() repository.RegistrationRepository {
	return &registrationRepository{regs: make(map[string]domain.RegistrationRequest)}
}

func copyRegistration(r domain.RegistrationRequest) domain.RegistrationRequest {
	if r.ProcessedAt != nil {
		at := *r.ProcessedAt
		r.ProcessedAt = &at
	}
	return r
}

func (r *registrationRepository) Create(_ context.Context, req *domain.RegistrationRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.regs[req.RegistrationID]; ok {
		return fmt.Errorf("registration %s: %w", req.RegistrationID, domain.ErrConflict)
	}
	r.regs[req.RegistrationID] = copyRegistration(*req)
	return nil
}

func (r *registrationRepository) GetByID(_ context.Context, registrationID string) (*domain.RegistrationRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	req, ok := r.regs[registrationID]
	if !ok {
		return nil, fmt.Errorf("registration %s: %w", registrationID, domain.ErrNotFound)
	}
	out := copyRegistration(req)
	return &out, nil
}

func (r *registrationRepository) UpdateStatus(_ context.Context, registrationID string, update domain.StatusUpdate) (*domain.RegistrationRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.regs[registrationID]
	if !ok {
		return nil, fmt.Errorf("registration %s: %w", registrationID, domain.ErrNotFound)
	}
	req.Apply(update)
	r.regs[registrationID] = req
	out := copyRegistration(req)
	return &out, nil
}

func (r *registrationRepository) filter(keep func(domain.RegistrationRequest) bool) []domain.RegistrationRequest {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.RegistrationRequest
	for _, req := range r.regs {
		if keep(req) {
			out = append(out, copyRegistration(req))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AppliedAt.After(out[j].AppliedAt) })
	return out
}

func (r *registrationRepository) FindByUserAndChapter(_ context.Context, userID, chapterID string, statuses ...domain.RegistrationStatus) (*domain.RegistrationRequest, error) {
	matches := r.filter(func(req domain.RegistrationRequest) bool {
		if req.UserID != userID || req.ChapterID != chapterID {
			return false
		}
		if len(statuses) == 0 {
			return true
		}
		for _, s := range statuses {
			if req.Status == s {
				return true
			}
		}
		return false
	})
	if len(matches) == 0 {
		return nil, fmt.Errorf("registration for user %s in chapter %s: %w", userID, chapterID, domain.ErrNotFound)
	}
	return &matches[0], nil
}

func (r *registrationRepository) ListByChapter(_ context.Context, chapterID string) ([]domain.RegistrationRequest, error) {
	return r.filter(func(req domain.RegistrationRequest) bool { return req.ChapterID == chapterID }), nil
}

func (r *registrationRepository) ListByUser(_ context.Context, userID string) ([]domain.RegistrationRequest, error) {
	return r.filter(func(req domain.RegistrationRequest) bool { return req.UserID == userID }), nil
}

func (r *registrationRepository) ListByStatus(_ context.Context, status domain.RegistrationStatus) ([]domain.RegistrationRequest, error) {
	return r.filter(func(req domain.RegistrationRequest) bool { return req.Status == status }), nil
}
