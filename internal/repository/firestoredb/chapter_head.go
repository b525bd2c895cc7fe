package firestoredb

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"unify-backend/internal/domain"
	"unify-backend/internal/repository"
)

// Chapter head documents are keyed by lowercased email. Documents written by
// hand may use another id, so lookups fall back to an email query.
type chapterHeadRepository struct {
	heads *firestore.CollectionRef
}

func NewChapterHeadRepository(client *firestore.Client) repository.ChapterHeadRepository {
	return &chapterHeadRepository{heads: client.Collection(chapterHeadsCollection)}
}

func (r *chapterHeadRepository) ref(ctx context.Context, email string) (*firestore.DocumentRef, error) {
	email = domain.NormalizeEmail(email)
	ref := r.heads.Doc(email)
	if _, err := ref.Get(ctx); err == nil {
		return ref, nil
	} else if status.Code(err) != codes.NotFound {
		return nil, err
	}

	docs, err := r.heads.Where("email", "==", email).Limit(1).Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, missing("chapter head " + email)
	}
	return docs[0].Ref, nil
}

func (r *chapterHeadRepository) GetByEmail(ctx context.Context, email string) (*domain.ChapterHead, error) {
	ref, err := r.ref(ctx, email)
	if err != nil {
		return nil, err
	}
	return get[domain.ChapterHead](ctx, ref, "chapter head "+email)
}

func (r *chapterHeadRepository) Save(ctx context.Context, h *domain.ChapterHead) error {
	h.Email = domain.NormalizeEmail(h.Email)
	_, err := r.heads.Doc(h.Email).Set(ctx, h)
	return err
}

func (r *chapterHeadRepository) SetChapterID(ctx context.Context, email, chapterID string) error {
	ref, err := r.ref(ctx, email)
	if err != nil {
		return err
	}
	_, err = ref.Update(ctx, []firestore.Update{{Path: "chapterId", Value: chapterID}})
	return translate(err, "chapter head "+email)
}
