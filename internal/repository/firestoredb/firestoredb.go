// Package firestoredb stores records as Firestore documents, one collection
// per record type, keyed by the record's id.
package firestoredb

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"unify-backend/internal/domain"
	"unify-backend/internal/repository"
)

const (
	usersCollection         = "Users"
	chaptersCollection      = "Chapters"
	chapterHeadsCollection  = "ChapterHead"
	registrationsCollection = "RegistrationRequests"
	activitiesCollection    = "Activities"
)

func NewStore(client *firestore.Client) *repository.Store {
	return repository.NewStore(
		NewUserRepository(client),
		NewChapterRepository(client),
		NewChapterHeadRepository(client),
		NewRegistrationRepository(client),
		NewActivityRepository(client),
		client.Close,
	)
}

// translate maps gRPC status codes onto domain errors.
func translate(err error, what string) error {
	if err == nil {
		return nil
	}
	switch status.Code(err) {
	case codes.NotFound:
		return missing(what)
	case codes.AlreadyExists:
		return fmt.Errorf("%s: %w", what, domain.ErrConflict)
	}
	return err
}

func missing(what string) error {
	return fmt.Errorf("%s: %w", what, domain.ErrNotFound)
}

// getAll decodes every document a query yields into T.
func getAll[T any](ctx context.Context, q firestore.Query) ([]T, error) {
	iter := q.Documents(ctx)
	defer iter.Stop()

	var out []T
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}
		var v T
		if err := doc.DataTo(&v); err != nil {
			return nil, fmt.Errorf("decode %s: %w", doc.Ref.ID, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func get[T any](ctx context.Context, ref *firestore.DocumentRef, what string) (*T, error) {
	snap, err := ref.Get(ctx)
	if err != nil {
		return nil, translate(err, what)
	}
	var v T
	if err := snap.DataTo(&v); err != nil {
		return nil, fmt.Errorf("decode %s: %w", what, err)
	}
	return &v, nil
}
