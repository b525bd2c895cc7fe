package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unify-backend/internal/domain"
)

func TestChapterHead_Resolve(t *testing.T) {
	t.Run("explicit chapterId", func(t *testing.T) {
		f := newFixture(t)
		hc, err := f.heads.Resolve(f.ctx, headID)
		require.NoError(t, err)
		assert.Equal(t, "c-robotics", hc.Chapter.ChapterID)
	})

	t.Run("missing role", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.heads.Resolve(f.ctx, domain.Identity{Email: "head@x.edu", Groups: []string{"students"}})
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("role without a chapter head record", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.heads.Resolve(f.ctx, domain.Identity{Email: "stranger@x.edu", Groups: []string{"ChapterHead"}})
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	legacy := []struct {
		name string
		head domain.ChapterHead
	}{
		{"by chapterName", domain.ChapterHead{ChapterName: "robotics"}},
		{"by first legacy entry as id", domain.ChapterHead{Chapters: []string{"c-robotics", "c-chess"}}},
		{"by first legacy entry as name", domain.ChapterHead{Chapters: []string{"Robotics"}}},
		{"stale name falls through to legacy entry", domain.ChapterHead{ChapterName: "Old Robotics", Chapters: []string{"c-robotics"}}},
	}
	for _, tc := range legacy {
		t.Run(tc.name+" persists the chapterId", func(t *testing.T) {
			f := newFixture(t)
			tc.head.Email = "legacy@x.edu"
			require.NoError(t, f.store.ChapterHeads.Save(f.ctx, &tc.head))
			caller := domain.Identity{Email: "legacy@x.edu", Groups: []string{"chapterheads"}}

			hc, err := f.heads.Resolve(f.ctx, caller)
			require.NoError(t, err)
			assert.Equal(t, "c-robotics", hc.Chapter.ChapterID)
			assert.Equal(t, "c-robotics", hc.Head.ChapterID)

			stored, err := f.store.ChapterHeads.GetByEmail(f.ctx, "legacy@x.edu")
			require.NoError(t, err)
			assert.Equal(t, "c-robotics", stored.ChapterID)
		})
	}

	t.Run("unresolvable head gets a remediation hint", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.store.ChapterHeads.Save(f.ctx, &domain.ChapterHead{Email: "lost@x.edu", ChapterName: "Knitting"}))

		_, err := f.heads.Resolve(f.ctx, domain.Identity{Email: "lost@x.edu", Groups: []string{"chapterhead"}})
		assert.ErrorIs(t, err, domain.ErrChapterNotLinked)
		assert.Contains(t, err.Error(), "/admin/chapter-heads")
	})

	t.Run("dangling chapterId is not linked", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.store.ChapterHeads.Save(f.ctx, &domain.ChapterHead{Email: "lost@x.edu", ChapterID: "c-gone"}))

		_, err := f.heads.Resolve(f.ctx, domain.Identity{Email: "lost@x.edu", Groups: []string{"chapterhead"}})
		assert.ErrorIs(t, err, domain.ErrChapterNotLinked)
	})
}

func TestChapterHead_DashboardAndRegistrations(t *testing.T) {
	f := newFixture(t)
	f.approved(t, alice)
	_, err := f.regs.Apply(f.ctx, bob, ApplyInput{StudentEmail: "bob@x.edu", ChapterName: "Robotics"})
	require.NoError(t, err)

	dash, err := f.heads.Dashboard(f.ctx, headID)
	require.NoError(t, err)
	assert.Equal(t, "Robotics", dash.Chapter.ChapterName)
	assert.Equal(t, StatusCounts{Pending: 1, Approved: 1, Total: 2}, dash.Counts)
	require.Len(t, dash.RecentActivities, 2)
	assert.Equal(t, "u-bob", dash.RecentActivities[0].UserID)

	all, err := f.heads.Registrations(f.ctx, headID, "", "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	pending, err := f.heads.Registrations(f.ctx, headID, "c-robotics", domain.RegistrationStatusPending)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "bob@x.edu", pending[0].StudentEmail)

	_, err = f.heads.Registrations(f.ctx, headID, "c-chess", "")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.heads.Registrations(f.ctx, headID, "", "archived")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestChapterHead_ToggleRegistration(t *testing.T) {
	f := newFixture(t)

	c, err := f.heads.ToggleRegistration(f.ctx, headID, "", nil)
	require.NoError(t, err)
	assert.False(t, c.RegistrationOpen)
	assert.False(t, f.chapter(t, "c-robotics").RegistrationOpen)
	assert.True(t, f.chapter(t, "c-robotics").UpdatedAt.After(baseTime))

	c, err = f.heads.ToggleRegistration(f.ctx, headID, "c-robotics", ptr(true))
	require.NoError(t, err)
	assert.True(t, c.RegistrationOpen)

	c, err = f.heads.ToggleRegistration(f.ctx, headID, "", ptr(true))
	require.NoError(t, err)
	assert.True(t, c.RegistrationOpen)

	_, err = f.heads.ToggleRegistration(f.ctx, headID, "c-chess", nil)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.False(t, f.chapter(t, "c-chess").RegistrationOpen)

	activities := f.activities(t, "c-robotics")
	require.Len(t, activities, 3)
	for _, a := range activities {
		assert.Equal(t, domain.ActivityRegistrationToggled, a.Type)
	}
	assert.Equal(t, false, activities[0].Metadata["registrationOpen"])
}

func TestChapterHead_CheckMembership(t *testing.T) {
	f := newFixture(t)
	f.approved(t, alice)

	byEmail, err := f.heads.CheckMembership(f.ctx, headID, MembershipQuery{Email: "ALICE@x.edu"})
	require.NoError(t, err)
	assert.True(t, byEmail.IsMember)
	assert.Equal(t, "u-alice", byEmail.UserID)
	require.NotNil(t, byEmail.Registration)

	byID, err := f.heads.CheckMembership(f.ctx, headID, MembershipQuery{UserID: "u-bob"})
	require.NoError(t, err)
	assert.False(t, byID.IsMember)
	assert.Nil(t, byID.Registration)

	_, err = f.heads.CheckMembership(f.ctx, headID, MembershipQuery{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.heads.CheckMembership(f.ctx, headID, MembershipQuery{Email: "nobody@x.edu"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestChapterHead_ActivitiesLimit(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 120; i++ {
		require.NoError(t, f.store.Activities.Create(f.ctx, &domain.Activity{
			ActivityID: fmt.Sprintf("a%03d", i),
			Type:       domain.ActivityRegistration,
			Timestamp:  baseTime.Add(time.Duration(i) * time.Minute),
			ChapterID:  "c-robotics",
		}))
	}

	got, err := f.heads.Activities(f.ctx, headID, 0)
	require.NoError(t, err)
	require.Len(t, got, 10)
	assert.Equal(t, "a119", got[0].ActivityID)
	assert.Equal(t, "a110", got[9].ActivityID)

	got, err = f.heads.Activities(f.ctx, headID, 500)
	require.NoError(t, err)
	assert.Len(t, got, 100)

	got, err = f.heads.Activities(f.ctx, chessID, 5)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
