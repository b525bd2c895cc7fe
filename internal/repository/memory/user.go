package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"unify-backend/internal/domain"
	"unify-backend/internal/repository"
)

type userRepository struct {
	mu    sync.RWMutex
	users map[string]domain.User
}

func NewUserRepository() repository.UserRepository {
	return &userRepository{users: make(map[string]domain.User)}
}

func copyUser(u domain.User) *domain.User {
	u.RegisteredChapters = append([]string{}, u.RegisteredChapters...)
	return &u
}

func (r *userRepository) Create(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.UserID]; ok {
		return fmt.Errorf("user %s: %w", u.UserID, domain.ErrConflict)
	}
	r.users[u.UserID] = *copyUser(*u)
	return nil
}

func (r *userRepository) GetByID(_ context.Context, userID string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[userID]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", userID, domain.ErrNotFound)
	}
	return copyUser(u), nil
}

// GetByEmail scans every user; there is no secondary index.
func (r *userRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	email = domain.NormalizeEmail(email)
	for _, u := range r.users {
		if domain.NormalizeEmail(u.Email) == email {
			return copyUser(u), nil
		}
	}
	return nil, fmt.Errorf("user with email %s: %w", email, domain.ErrNotFound)
}

func (r *userRepository) List(_ context.Context) ([]domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	users := make([]domain.User, 0, len(r.users))
	for _, u := range r.users {
		users = append(users, *copyUser(u))
	}
	sort.Slice(users, func(i, j int) bool { return users[i].UserID < users[j].UserID })
	return users, nil
}

func (r *userRepository) UpdateProfile(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.users[u.UserID]
	if !ok {
		return fmt.Errorf("user %s: %w", u.UserID, domain.ErrNotFound)
	}
	existing.Name = u.Name
	existing.SapID = u.SapID
	existing.Year = u.Year
	r.users[u.UserID] = existing
	return nil
}

func (r *userRepository) AddRegisteredChapter(_ context.Context, userID, chapterName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return fmt.Errorf("user %s: %w", userID, domain.ErrNotFound)
	}
	if !u.HasChapter(chapterName) {
		u.RegisteredChapters = append(append([]string{}, u.RegisteredChapters...), chapterName)
	}
	r.users[userID] = u
	return nil
}

func (r *userRepository) RemoveRegisteredChapter(_ context.Context, userID, chapterName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return fmt.Errorf("user %s: %w", userID, domain.ErrNotFound)
	}
	kept := make([]string, 0, len(u.RegisteredChapters))
	for _, c := range u.RegisteredChapters {
		if c != chapterName {
			kept = append(kept, c)
		}
	}
	u.RegisteredChapters = kept
	r.users[userID] = u
	return nil
}

func (r *userRepository) SetRegisteredChapters(_ context.Context, userID string, chapterNames []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return fmt.Errorf("user %s: %w", userID, domain.ErrNotFound)
	}
	u.RegisteredChapters = append([]string{}, chapterNames...)
	r.users[userID] = u
	return nil
}
