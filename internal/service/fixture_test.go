package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"unify-backend/internal/domain"
	"unify-backend/internal/metrics"
	"unify-backend/internal/repository"
	"unify-backend/internal/repository/memory"
)

var (
	alice    = domain.Identity{Email: "alice@x.edu", Groups: []string{"Students"}}
	bob      = domain.Identity{Email: "bob@x.edu", Groups: []string{"Students"}}
	headID   = domain.Identity{Email: "head@x.edu", Groups: []string{"ChapterHeads"}}
	chessID  = domain.Identity{Email: "chess-head@x.edu", Groups: []string{"chapter_head"}}
	adminID  = domain.Identity{Email: "admin@x.edu", Groups: []string{"admins"}}
	baseTime = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
)

// testClock advances by a second on every reading so generated ids differ.
type testClock struct {
	t time.Time
}

func (c *testClock) now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

type fixture struct {
	ctx      context.Context
	store    *repository.Store
	metrics  *metrics.Metrics
	heads    ChapterHeadService
	regs     RegistrationService
	students StudentService
	admin    AdminService
}

// newFixture seeds an open Robotics chapter headed by head@x.edu, a closed
// Chess chapter and the students alice and bob.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	m := metrics.New()
	clock := &testClock{t: baseTime}

	require.NoError(t, store.Chapters.Create(ctx, &domain.Chapter{
		ChapterID: "c-robotics", ChapterName: "Robotics", HeadEmail: "head@x.edu", HeadName: "Hedy",
		Status: domain.ChapterStatusActive, RegistrationOpen: true, CreatedAt: baseTime, UpdatedAt: baseTime,
	}))
	require.NoError(t, store.Chapters.Create(ctx, &domain.Chapter{
		ChapterID: "c-chess", ChapterName: "Chess", HeadEmail: "chess-head@x.edu",
		Status: domain.ChapterStatusActive, RegistrationOpen: false, CreatedAt: baseTime, UpdatedAt: baseTime,
	}))
	require.NoError(t, store.ChapterHeads.Save(ctx, &domain.ChapterHead{Email: "head@x.edu", Name: "Hedy", ChapterID: "c-robotics"}))
	require.NoError(t, store.ChapterHeads.Save(ctx, &domain.ChapterHead{Email: "chess-head@x.edu", ChapterID: "c-chess"}))
	require.NoError(t, store.Users.Create(ctx, &domain.User{UserID: "u-alice", Name: "Alice", Email: "alice@x.edu", SapID: "500100", Year: "2"}))
	require.NoError(t, store.Users.Create(ctx, &domain.User{UserID: "u-bob", Name: "Bob", Email: "bob@x.edu", SapID: "500200", Year: "3"}))

	heads := NewChapterHeadService(store, m, WithClock(clock.now))
	return &fixture{
		ctx:      ctx,
		store:    store,
		metrics:  m,
		heads:    heads,
		regs:     NewRegistrationService(store, heads, nil, m, WithClock(clock.now)),
		students: NewStudentService(store, WithClock(clock.now)),
		admin:    NewAdminService(store, m, WithClock(clock.now)),
	}
}

func (f *fixture) chapter(t *testing.T, id string) *domain.Chapter {
	t.Helper()
	c, err := f.store.Chapters.GetByID(f.ctx, id)
	require.NoError(t, err)
	return c
}

func (f *fixture) user(t *testing.T, id string) *domain.User {
	t.Helper()
	u, err := f.store.Users.GetByID(f.ctx, id)
	require.NoError(t, err)
	return u
}

func (f *fixture) activities(t *testing.T, chapterID string) []domain.Activity {
	t.Helper()
	a, err := f.store.Activities.ListByChapter(f.ctx, chapterID)
	require.NoError(t, err)
	return a
}

// approved applies as id to Robotics and approves the request.
func (f *fixture) approved(t *testing.T, id domain.Identity) string {
	t.Helper()
	res, err := f.regs.Apply(f.ctx, id, ApplyInput{StudentEmail: id.Email, ChapterName: "Robotics"})
	require.NoError(t, err)
	_, err = f.regs.Decide(f.ctx, headID, res.RegistrationID, domain.RegistrationStatusApproved, nil)
	require.NoError(t, err)
	return res.RegistrationID
}

func ptr[T any](v T) *T {
	return &v
}
