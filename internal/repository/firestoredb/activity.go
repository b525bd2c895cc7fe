package firestoredb

import (
	"context"

	"cloud.google.com/go/firestore"

	"unify-backend/internal/domain"
	"unify-backend/internal/logger"
	"unify-backend/internal/repository"
)

type activityRepository struct {
	activities *firestore.CollectionRef
}

func NewActivityRepository(client *firestore.Client) repository.ActivityRepository {
	return &activityRepository{activities: client.Collection(activitiesCollection)}
}

func (r *activityRepository) Create(ctx context.Context, a *domain.Activity) error {
	logger.StoreCall("CREATE", activitiesCollection, "activityID", a.ActivityID, "type", a.Type)
	_, err := r.activities.Doc(a.ActivityID).Create(ctx, a)
	logger.StoreResult("CREATE", activitiesCollection, err, "activityID", a.ActivityID)
	return translate(err, "activity "+a.ActivityID)
}

// ListByChapter returns activities unordered; callers sort.
func (r *activityRepository) ListByChapter(ctx context.Context, chapterID string) ([]domain.Activity, error) {
	return getAll[domain.Activity](ctx, r.activities.Where("chapterId", "==", chapterID))
}
