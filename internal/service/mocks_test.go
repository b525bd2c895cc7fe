package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"unify-backend/internal/domain"
	"unify-backend/internal/repository"
)

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) GetByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) List(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.User), args.Error(1)
}
func (m *MockUserRepo) UpdateProfile(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) AddRegisteredChapter(ctx context.Context, userID, chapterName string) error {
	args := m.Called(ctx, userID, chapterName)
	return args.Error(0)
}
func (m *MockUserRepo) RemoveRegisteredChapter(ctx context.Context, userID, chapterName string) error {
	args := m.Called(ctx, userID, chapterName)
	return args.Error(0)
}
func (m *MockUserRepo) SetRegisteredChapters(ctx context.Context, userID string, chapterNames []string) error {
	args := m.Called(ctx, userID, chapterNames)
	return args.Error(0)
}

// MockChapterRepo
type MockChapterRepo struct {
	mock.Mock
}

func (m *MockChapterRepo) Create(ctx context.Context, chapter *domain.Chapter) error {
	args := m.Called(ctx, chapter)
	return args.Error(0)
}
func (m *MockChapterRepo) GetByID(ctx context.Context, chapterID string) (*domain.Chapter, error) {
	args := m.Called(ctx, chapterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Chapter), args.Error(1)
}
func (m *MockChapterRepo) GetByName(ctx context.Context, name string) (*domain.Chapter, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Chapter), args.Error(1)
}
func (m *MockChapterRepo) List(ctx context.Context) ([]domain.Chapter, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Chapter), args.Error(1)
}
func (m *MockChapterRepo) SetRegistrationOpen(ctx context.Context, chapterID string, open bool, at time.Time) error {
	args := m.Called(ctx, chapterID, open, at)
	return args.Error(0)
}
func (m *MockChapterRepo) SetHead(ctx context.Context, chapterID, email, name string, at time.Time) error {
	args := m.Called(ctx, chapterID, email, name, at)
	return args.Error(0)
}
func (m *MockChapterRepo) IncrementMemberCount(ctx context.Context, chapterID string) error {
	args := m.Called(ctx, chapterID)
	return args.Error(0)
}
func (m *MockChapterRepo) DecrementMemberCount(ctx context.Context, chapterID string) error {
	args := m.Called(ctx, chapterID)
	return args.Error(0)
}
func (m *MockChapterRepo) SetMemberCount(ctx context.Context, chapterID string, count int) error {
	args := m.Called(ctx, chapterID, count)
	return args.Error(0)
}

// MockChapterHeadRepo
type MockChapterHeadRepo struct {
	mock.Mock
}

func (m *MockChapterHeadRepo) GetByEmail(ctx context.Context, email string) (*domain.ChapterHead, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChapterHead), args.Error(1)
}
func (m *MockChapterHeadRepo) Save(ctx context.Context, head *domain.ChapterHead) error {
	args := m.Called(ctx, head)
	return args.Error(0)
}
func (m *MockChapterHeadRepo) SetChapterID(ctx context.Context, email, chapterID string) error {
	args := m.Called(ctx, email, chapterID)
	return args.Error(0)
}

// MockRegistrationRepo
type MockRegistrationRepo struct {
	mock.Mock
}

func (m *MockRegistrationRepo) Create(ctx context.Context, req *domain.RegistrationRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}
func (m *MockRegistrationRepo) GetByID(ctx context.Context, registrationID string) (*domain.RegistrationRequest, error) {
	args := m.Called(ctx, registrationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RegistrationRequest), args.Error(1)
}
func (m *MockRegistrationRepo) UpdateStatus(ctx context.Context, registrationID string, update domain.StatusUpdate) (*domain.RegistrationRequest, error) {
	args := m.Called(ctx, registrationID, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RegistrationRequest), args.Error(1)
}
func (m *MockRegistrationRepo) FindByUserAndChapter(ctx context.Context, userID, chapterID string, statuses ...domain.RegistrationStatus) (*domain.RegistrationRequest, error) {
	args := m.Called(ctx, userID, chapterID, statuses)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RegistrationRequest), args.Error(1)
}
func (m *MockRegistrationRepo) ListByChapter(ctx context.Context, chapterID string) ([]domain.RegistrationRequest, error) {
	args := m.Called(ctx, chapterID)
	return args.Get(0).([]domain.RegistrationRequest), args.Error(1)
}
func (m *MockRegistrationRepo) ListByUser(ctx context.Context, userID string) ([]domain.RegistrationRequest, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.RegistrationRequest), args.Error(1)
}
func (m *MockRegistrationRepo) ListByStatus(ctx context.Context, status domain.RegistrationStatus) ([]domain.RegistrationRequest, error) {
	args := m.Called(ctx, status)
	return args.Get(0).([]domain.RegistrationRequest), args.Error(1)
}

// MockActivityRepo
type MockActivityRepo struct {
	mock.Mock
}

func (m *MockActivityRepo) Create(ctx context.Context, activity *domain.Activity) error {
	args := m.Called(ctx, activity)
	return args.Error(0)
}
func (m *MockActivityRepo) ListByChapter(ctx context.Context, chapterID string) ([]domain.Activity, error) {
	args := m.Called(ctx, chapterID)
	return args.Get(0).([]domain.Activity), args.Error(1)
}

// MockNotifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) SendRegistrationDecision(ctx context.Context, to, studentName, chapterName string, status domain.RegistrationStatus, notes string) error {
	args := m.Called(ctx, to, studentName, chapterName, status, notes)
	return args.Error(0)
}
func (m *MockNotifier) SendRemovalNotice(ctx context.Context, to, studentName, chapterName, reason string) error {
	args := m.Called(ctx, to, studentName, chapterName, reason)
	return args.Error(0)
}

type mockStore struct {
	users      *MockUserRepo
	chapters   *MockChapterRepo
	heads      *MockChapterHeadRepo
	regs       *MockRegistrationRepo
	activities *MockActivityRepo
	store      *repository.Store
}

func newMockStore() *mockStore {
	m := &mockStore{
		users:      new(MockUserRepo),
		chapters:   new(MockChapterRepo),
		heads:      new(MockChapterHeadRepo),
		regs:       new(MockRegistrationRepo),
		activities: new(MockActivityRepo),
	}
	m.store = repository.NewStore(m.users, m.chapters, m.heads, m.regs, m.activities, nil)
	return m
}

func (m *mockStore) assertExpectations(t mock.TestingT) {
	m.users.AssertExpectations(t)
	m.chapters.AssertExpectations(t)
	m.heads.AssertExpectations(t)
	m.regs.AssertExpectations(t)
	m.activities.AssertExpectations(t)
}
