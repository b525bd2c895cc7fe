package firestoredb

import (
	"context"
	"fmt"
	"sort"

	"cloud.google.com/go/firestore"

	"unify-backend/internal/domain"
	"unify-backend/internal/logger"
	"unify-backend/internal/repository"
)

type registrationRepository struct {
	client *firestore.Client
	regs   *firestore.CollectionRef
}

func NewRegistrationRepository(client *firestore.Client) repository.RegistrationRepository {
	return &registrationRepository{client: client, regs: client.Collection(registrationsCollection)}
}

func (r *registrationRepository) Create(ctx context.Context, req *domain.RegistrationRequest) error {
	logger.StoreCall("CREATE", registrationsCollection, "registrationID", req.RegistrationID)
	_, err := r.regs.Doc(req.RegistrationID).Create(ctx, req)
	logger.StoreResult("CREATE", registrationsCollection, err, "registrationID", req.RegistrationID)
	return translate(err, "registration "+req.RegistrationID)
}

func (r *registrationRepository) GetByID(ctx context.Context, registrationID string) (*domain.RegistrationRequest, error) {
	return get[domain.RegistrationRequest](ctx, r.regs.Doc(registrationID), "registration "+registrationID)
}

func (r *registrationRepository) UpdateStatus(ctx context.Context, registrationID string, u domain.StatusUpdate) (*domain.RegistrationRequest, error) {
	ref := r.regs.Doc(registrationID)
	updates := []firestore.Update{
		{Path: "status", Value: u.Status},
		{Path: "processedAt", Value: u.ProcessedAt},
		{Path: "processedBy", Value: u.ProcessedBy},
	}
	if u.Notes != nil {
		updates = append(updates, firestore.Update{Path: "notes", Value: *u.Notes})
	}

	var updated domain.RegistrationRequest
	logger.StoreCall("UPDATE", registrationsCollection, "registrationID", registrationID, "status", u.Status)
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			return translate(err, "registration "+registrationID)
		}
		if err := snap.DataTo(&updated); err != nil {
			return fmt.Errorf("decode registration %s: %w", registrationID, err)
		}
		updated.Apply(u)
		return tx.Update(ref, updates)
	})
	logger.StoreResult("UPDATE", registrationsCollection, err, "registrationID", registrationID)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// FindByUserAndChapter filters statuses client-side so the query needs no
// composite index.
func (r *registrationRepository) FindByUserAndChapter(ctx context.Context, userID, chapterID string, statuses ...domain.RegistrationStatus) (*domain.RegistrationRequest, error) {
	q := r.regs.Where("userId", "==", userID).Where("chapterId", "==", chapterID)
	reqs, err := getAll[domain.RegistrationRequest](ctx, q)
	if err != nil {
		return nil, err
	}

	var best *domain.RegistrationRequest
	for i := range reqs {
		if !statusIn(reqs[i].Status, statuses) {
			continue
		}
		if best == nil || reqs[i].AppliedAt.After(best.AppliedAt) {
			best = &reqs[i]
		}
	}
	if best == nil {
		return nil, missing(fmt.Sprintf("registration for user %s in chapter %s", userID, chapterID))
	}
	return best, nil
}

func statusIn(s domain.RegistrationStatus, statuses []domain.RegistrationStatus) bool {
	if len(statuses) == 0 {
		return true
	}
	for _, want := range statuses {
		if s == want {
			return true
		}
	}
	return false
}

func (r *registrationRepository) list(ctx context.Context, field string, value any) ([]domain.RegistrationRequest, error) {
	reqs, err := getAll[domain.RegistrationRequest](ctx, r.regs.Where(field, "==", value))
	if err != nil {
		return nil, err
	}
	sort.Slice(reqs, func(i, j int) bool { return reqs[i].AppliedAt.After(reqs[j].AppliedAt) })
	return reqs, nil
}

func (r *registrationRepository) ListByChapter(ctx context.Context, chapterID string) ([]domain.RegistrationRequest, error) {
	return r.list(ctx, "chapterId", chapterID)
}

func (r *registrationRepository) ListByUser(ctx context.Context, userID string) ([]domain.RegistrationRequest, error) {
	return r.list(ctx, "userId", userID)
}

func (r *registrationRepository) ListByStatus(ctx context.Context, status domain.RegistrationStatus) ([]domain.RegistrationRequest, error) {
	return r.list(ctx, "status", string(status))
}
