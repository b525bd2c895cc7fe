package repository

import (
	"context"
	"time"

	"unify-backend/internal/domain"
)

// Lookups return domain.ErrNotFound (possibly wrapped) when the record is absent.

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, userID string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	UpdateProfile(ctx context.Context, user *domain.User) error

	// Registered chapter set
	AddRegisteredChapter(ctx context.Context, userID, chapterName string) error
	RemoveRegisteredChapter(ctx context.Context, userID, chapterName string) error
	SetRegisteredChapters(ctx context.Context, userID string, chapterNames []string) error
}

type ChapterRepository interface {
	Create(ctx context.Context, chapter *domain.Chapter) error
	GetByID(ctx context.Context, chapterID string) (*domain.Chapter, error)
	GetByName(ctx context.Context, name string) (*domain.Chapter, error)
	List(ctx context.Context) ([]domain.Chapter, error)
	SetRegistrationOpen(ctx context.Context, chapterID string, open bool, at time.Time) error
	SetHead(ctx context.Context, chapterID, email, name string, at time.Time) error

	// Member count. DecrementMemberCount only applies when the count is above
	// zero and returns domain.ErrConditionFailed otherwise.
	IncrementMemberCount(ctx context.Context, chapterID string) error
	DecrementMemberCount(ctx context.Context, chapterID string) error
	SetMemberCount(ctx context.Context, chapterID string, count int) error
}

type ChapterHeadRepository interface {
	GetByEmail(ctx context.Context, email string) (*domain.ChapterHead, error)
	Save(ctx context.Context, head *domain.ChapterHead) error
	SetChapterID(ctx context.Context, email, chapterID string) error
}

type RegistrationRepository interface {
	Create(ctx context.Context, req *domain.RegistrationRequest) error
	GetByID(ctx context.Context, registrationID string) (*domain.RegistrationRequest, error)
	UpdateStatus(ctx context.Context, registrationID string, update domain.StatusUpdate) (*domain.RegistrationRequest, error)
	// FindByUserAndChapter returns the most recent request for the pair whose
	// status is one of statuses.
	FindByUserAndChapter(ctx context.Context, userID, chapterID string, statuses ...domain.RegistrationStatus) (*domain.RegistrationRequest, error)
	ListByChapter(ctx context.Context, chapterID string) ([]domain.RegistrationRequest, error)
	ListByUser(ctx context.Context, userID string) ([]domain.RegistrationRequest, error)
	ListByStatus(ctx context.Context, status domain.RegistrationStatus) ([]domain.RegistrationRequest, error)
}

type ActivityRepository interface {
	Create(ctx context.Context, activity *domain.Activity) error
	ListByChapter(ctx context.Context, chapterID string) ([]domain.Activity, error)
}

// Store bundles one implementation of every collection.
type Store struct {
	Users         UserRepository
	Chapters      ChapterRepository
	ChapterHeads  ChapterHeadRepository
	Registrations RegistrationRepository
	Activities    ActivityRepository

	closer func() error
}

func NewStore(users UserRepository, chapters ChapterRepository, heads ChapterHeadRepository,
	regs RegistrationRepository, activities ActivityRepository, closer func() error) *Store {
	return &Store{
		Users:         users,
		Chapters:      chapters,
		ChapterHeads:  heads,
		Registrations: regs,
		Activities:    activities,
		closer:        closer,
	}
}

// Close releases the backend connection, if any.
func (s *Store) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer()
}
