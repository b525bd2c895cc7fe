package firestoredb

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"cloud.google.com/go/firestore"

	"unify-backend/internal/domain"
	"unify-backend/internal/logger"
	"unify-backend/internal/repository"
)

type chapterRepository struct {
	client   *firestore.Client
	chapters *firestore.CollectionRef
}

func NewChapterRepository(client *firestore.Client) repository.ChapterRepository {
	return &chapterRepository{client: client, chapters: client.Collection(chaptersCollection)}
}

func (r *chapterRepository) Create(ctx context.Context, c *domain.Chapter) error {
	logger.StoreCall("CREATE", chaptersCollection, "chapterID", c.ChapterID)
	_, err := r.chapters.Doc(c.ChapterID).Create(ctx, c)
	logger.StoreResult("CREATE", chaptersCollection, err, "chapterID", c.ChapterID)
	return translate(err, "chapter "+c.ChapterID)
}

func (r *chapterRepository) GetByID(ctx context.Context, chapterID string) (*domain.Chapter, error) {
	return get[domain.Chapter](ctx, r.chapters.Doc(chapterID), "chapter "+chapterID)
}

// GetByName tries an exact match first, then a case-insensitive scan, since
// Firestore equality is case-sensitive.
func (r *chapterRepository) GetByName(ctx context.Context, name string) (*domain.Chapter, error) {
	exact, err := getAll[domain.Chapter](ctx, r.chapters.Where("chapterName", "==", name).Limit(1))
	if err != nil {
		return nil, err
	}
	if len(exact) > 0 {
		return &exact[0], nil
	}

	all, err := getAll[domain.Chapter](ctx, r.chapters.Query)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if strings.EqualFold(all[i].ChapterName, name) {
			return &all[i], nil
		}
	}
	return nil, missing(fmt.Sprintf("chapter named %q", name))
}

func (r *chapterRepository) List(ctx context.Context) ([]domain.Chapter, error) {
	chapters, err := getAll[domain.Chapter](ctx, r.chapters.Query)
	if err != nil {
		return nil, err
	}
	sort.Slice(chapters, func(i, j int) bool { return chapters[i].ChapterName < chapters[j].ChapterName })
	return chapters, nil
}

func (r *chapterRepository) SetRegistrationOpen(ctx context.Context, chapterID string, open bool, at time.Time) error {
	_, err := r.chapters.Doc(chapterID).Update(ctx, []firestore.Update{
		{Path: "registrationOpen", Value: open},
		{Path: "updatedAt", Value: at},
	})
	return translate(err, "chapter "+chapterID)
}

func (r *chapterRepository) SetHead(ctx context.Context, chapterID, email, name string, at time.Time) error {
	_, err := r.chapters.Doc(chapterID).Update(ctx, []firestore.Update{
		{Path: "headEmail", Value: email},
		{Path: "headName", Value: name},
		{Path: "updatedAt", Value: at},
	})
	return translate(err, "chapter "+chapterID)
}

// IncrementMemberCount is a server-side increment; a missing field counts as zero.
func (r *chapterRepository) IncrementMemberCount(ctx context.Context, chapterID string) error {
	logger.StoreCall("INCREMENT", chaptersCollection, "chapterID", chapterID)
	_, err := r.chapters.Doc(chapterID).Update(ctx, []firestore.Update{
		{Path: "memberCount", Value: firestore.Increment(1)},
	})
	logger.StoreResult("INCREMENT", chaptersCollection, err, "chapterID", chapterID)
	return translate(err, "chapter "+chapterID)
}

// DecrementMemberCount reads and writes in one transaction so the count never
// goes below zero.
func (r *chapterRepository) DecrementMemberCount(ctx context.Context, chapterID string) error {
	ref := r.chapters.Doc(chapterID)
	logger.StoreCall("DECREMENT", chaptersCollection, "chapterID", chapterID)
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			return translate(err, "chapter "+chapterID)
		}
		var count int64
		if v, err := snap.DataAt("memberCount"); err == nil {
			if n, ok := v.(int64); ok {
				count = n
			}
		}
		if count <= 0 {
			return fmt.Errorf("decrement member count of %s: %w", chapterID, domain.ErrConditionFailed)
		}
		return tx.Update(ref, []firestore.Update{{Path: "memberCount", Value: firestore.Increment(-1)}})
	})
	logger.StoreResult("DECREMENT", chaptersCollection, err, "chapterID", chapterID)
	return err
}

func (r *chapterRepository) SetMemberCount(ctx context.Context, chapterID string, count int) error {
	_, err := r.chapters.Doc(chapterID).Update(ctx, []firestore.Update{
		{Path: "memberCount", Value: count},
	})
	return translate(err, "chapter "+chapterID)
}
