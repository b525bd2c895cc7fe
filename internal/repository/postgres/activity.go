package postgres

import (
	"context"
	"database/sql"
	"encoding/json"

	"unify-backend/internal/domain"
	"unify-backend/internal/logger"
	"unify-backend/internal/repository"
)

type activityRepository struct {
	db *sql.DB
}

func NewActivityRepository(db *sql.DB) repository.ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) Create(ctx context.Context, a *domain.Activity) error {
	logger.EnterMethod("activityRepository.Create", "type", a.Type, "chapterID", a.ChapterID)

	var metadata []byte
	if len(a.Metadata) > 0 {
		var err error
		metadata, err = json.Marshal(a.Metadata)
		if err != nil {
			logger.ExitMethodWithError("activityRepository.Create", err, "reason", "failed to marshal metadata")
			return err
		}
	}

	query := `INSERT INTO activities (activity_id, type, message, occurred_at, chapter_id, user_id, metadata) 
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.ExecContext(ctx, query, a.ActivityID, a.Type, a.Message, a.Timestamp, a.ChapterID, nullString(a.UserID), metadata)
	if err != nil {
		logger.ExitMethodWithError("activityRepository.Create", err, "activityID", a.ActivityID)
		return err
	}
	logger.ExitMethod("activityRepository.Create", "activityID", a.ActivityID)
	return nil
}

func (r *activityRepository) ListByChapter(ctx context.Context, chapterID string) ([]domain.Activity, error) {
	query := `SELECT activity_id, type, message, occurred_at, chapter_id, COALESCE(user_id, ''), metadata 
	          FROM activities WHERE chapter_id = $1`
	rows, err := r.db.QueryContext(ctx, query, chapterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var activities []domain.Activity
	for rows.Next() {
		var a domain.Activity
		var metadata []byte
		if err := rows.Scan(&a.ActivityID, &a.Type, &a.Message, &a.Timestamp, &a.ChapterID, &a.UserID, &metadata); err != nil {
			return nil, err
		}
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &a.Metadata); err != nil {
				return nil, err
			}
		}
		activities = append(activities, a)
	}
	return activities, rows.Err()
}
