package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unify-backend/internal/domain"
)

func TestAdmin_CreateChapter(t *testing.T) {
	f := newFixture(t)

	_, err := f.admin.CreateChapter(f.ctx, headID, CreateChapterInput{ChapterName: "Drama"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.admin.CreateChapter(f.ctx, adminID, CreateChapterInput{ChapterName: "robotics"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	c, err := f.admin.CreateChapter(f.ctx, adminID, CreateChapterInput{
		ChapterName: " Drama ", HeadEmail: "Dee@X.edu", HeadName: "Dee", RegistrationOpen: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "Drama", c.ChapterName)
	assert.Equal(t, domain.ChapterStatusActive, c.Status)
	assert.Equal(t, 0, c.MemberCount)
	assert.Equal(t, "dee@x.edu", c.HeadEmail)

	// the new head resolves without any scan
	hc, err := f.heads.Resolve(f.ctx, domain.Identity{Email: "dee@x.edu", Groups: []string{"ChapterHeads"}})
	require.NoError(t, err)
	assert.Equal(t, c.ChapterID, hc.Chapter.ChapterID)

	activities := f.activities(t, c.ChapterID)
	require.Len(t, activities, 1)
	assert.Equal(t, domain.ActivityChapterCreated, activities[0].Type)
}

func TestAdmin_CreateChapterWithoutHead(t *testing.T) {
	f := newFixture(t)

	c, err := f.admin.CreateChapter(f.ctx, adminID, CreateChapterInput{ChapterName: "Drama"})
	require.NoError(t, err)
	assert.False(t, c.RegistrationOpen)
	assert.Empty(t, c.HeadEmail)
}

func TestAdmin_ListChaptersIncludesInactive(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.store.Chapters.Create(f.ctx, &domain.Chapter{
		ChapterID: "c-old", ChapterName: "archery", Status: domain.ChapterStatusInactive,
	}))

	_, err := f.admin.ListChapters(f.ctx, alice)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	chapters, err := f.admin.ListChapters(f.ctx, adminID)
	require.NoError(t, err)
	require.Len(t, chapters, 3)
	assert.Equal(t, "archery", chapters[0].ChapterName)
}

func TestAdmin_AssignChapterHead(t *testing.T) {
	t.Run("by name", func(t *testing.T) {
		f := newFixture(t)
		head, err := f.admin.AssignChapterHead(f.ctx, adminID, AssignHeadInput{Email: "New@X.edu", Name: "Nia", ChapterName: "chess"})
		require.NoError(t, err)
		assert.Equal(t, "new@x.edu", head.Email)
		assert.Equal(t, "c-chess", head.ChapterID)

		c := f.chapter(t, "c-chess")
		assert.Equal(t, "new@x.edu", c.HeadEmail)
		assert.Equal(t, "Nia", c.HeadName)

		chapter, err := f.heads.MyChapter(f.ctx, domain.Identity{Email: "new@x.edu", Groups: []string{"chapterhead"}})
		require.NoError(t, err)
		assert.Equal(t, "Chess", chapter.ChapterName)
	})

	t.Run("relinks a broken head", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.store.ChapterHeads.Save(f.ctx, &domain.ChapterHead{Email: "lost@x.edu", ChapterName: "Knitting"}))
		lost := domain.Identity{Email: "lost@x.edu", Groups: []string{"chapterhead"}}
		_, err := f.heads.Resolve(f.ctx, lost)
		require.ErrorIs(t, err, domain.ErrChapterNotLinked)

		_, err = f.admin.AssignChapterHead(f.ctx, adminID, AssignHeadInput{Email: "lost@x.edu", ChapterID: "c-robotics"})
		require.NoError(t, err)

		hc, err := f.heads.Resolve(f.ctx, lost)
		require.NoError(t, err)
		assert.Equal(t, "c-robotics", hc.Chapter.ChapterID)
	})

	t.Run("unknown chapter", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.admin.AssignChapterHead(f.ctx, adminID, AssignHeadInput{Email: "x@x.edu", ChapterID: "c-gone"})
		assert.ErrorIs(t, err, domain.ErrNotFound)

		_, err = f.admin.AssignChapterHead(f.ctx, adminID, AssignHeadInput{Email: "x@x.edu", ChapterName: "Knitting"})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("requires admin", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.admin.AssignChapterHead(f.ctx, headID, AssignHeadInput{Email: "x@x.edu", ChapterID: "c-chess"})
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})
}
