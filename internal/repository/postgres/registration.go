package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"unify-backend/internal/domain"
	"unify-backend/internal/logger"
	"unify-backend/internal/repository"
)

type registrationRepository struct {
	db *sql.DB
}

func NewRegistrationRepository(db *sql.DB) repository.RegistrationRepository {
	return &registrationRepository{db: db}
}

const registrationColumns = `registration_id, user_id, student_name, student_email, chapter_id, chapter_name, status, applied_at, processed_at, processed_by, notes, sap_id, year`

func scanRegistration(row rowScanner) (*domain.RegistrationRequest, error) {
	req := &domain.RegistrationRequest{}
	var processedAt sql.NullTime
	var processedBy, notes sql.NullString
	if err := row.Scan(&req.RegistrationID, &req.UserID, &req.StudentName, &req.StudentEmail, &req.ChapterID,
		&req.ChapterName, &req.Status, &req.AppliedAt, &processedAt, &processedBy, &notes, &req.SapID, &req.Year); err != nil {
		return nil, err
	}
	if processedAt.Valid {
		at := processedAt.Time
		req.ProcessedAt = &at
	}
	req.ProcessedBy = processedBy.String
	req.Notes = notes.String
	return req, nil
}

func (r *registrationRepository) Create(ctx context.Context, req *domain.RegistrationRequest) error {
	query := `INSERT INTO registration_requests (registration_id, user_id, student_name, student_email, chapter_id, chapter_name, status, applied_at, sap_id, year) 
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	logger.StoreCall("INSERT", "registration_requests", "registrationID", req.RegistrationID)
	_, err := r.db.ExecContext(ctx, query, req.RegistrationID, req.UserID, req.StudentName, req.StudentEmail,
		req.ChapterID, req.ChapterName, req.Status, req.AppliedAt, req.SapID, req.Year)
	logger.StoreResult("INSERT", "registration_requests", err, "registrationID", req.RegistrationID)
	return err
}

func (r *registrationRepository) GetByID(ctx context.Context, registrationID string) (*domain.RegistrationRequest, error) {
	query := `SELECT ` + registrationColumns + ` FROM registration_requests WHERE registration_id = $1`
	req, err := scanRegistration(r.db.QueryRowContext(ctx, query, registrationID))
	if err != nil {
		return nil, notFound(err, "registration "+registrationID)
	}
	return req, nil
}

// UpdateStatus overwrites the status fields whatever the current status is.
func (r *registrationRepository) UpdateStatus(ctx context.Context, registrationID string, u domain.StatusUpdate) (*domain.RegistrationRequest, error) {
	query := `UPDATE registration_requests SET status = $1, processed_at = $2, processed_by = $3, notes = COALESCE($4, notes) 
	          WHERE registration_id = $5 RETURNING ` + registrationColumns
	logger.StoreCall("UPDATE", "registration_requests", "registrationID", registrationID, "status", u.Status)
	req, err := scanRegistration(r.db.QueryRowContext(ctx, query, u.Status, u.ProcessedAt, u.ProcessedBy, u.Notes, registrationID))
	logger.StoreResult("UPDATE", "registration_requests", err, "registrationID", registrationID)
	if err != nil {
		return nil, notFound(err, "registration "+registrationID)
	}
	return req, nil
}

func (r *registrationRepository) FindByUserAndChapter(ctx context.Context, userID, chapterID string, statuses ...domain.RegistrationStatus) (*domain.RegistrationRequest, error) {
	wanted := make([]string, 0, len(statuses))
	for _, s := range statuses {
		wanted = append(wanted, string(s))
	}
	query := `SELECT ` + registrationColumns + ` FROM registration_requests 
	          WHERE user_id = $1 AND chapter_id = $2 AND (cardinality($3::text[]) = 0 OR status = ANY($3::text[]))
	          ORDER BY applied_at DESC LIMIT 1`
	req, err := scanRegistration(r.db.QueryRowContext(ctx, query, userID, chapterID, pq.Array(wanted)))
	if err != nil {
		return nil, notFound(err, fmt.Sprintf("registration for user %s in chapter %s", userID, chapterID))
	}
	return req, nil
}

func (r *registrationRepository) list(ctx context.Context, where string, arg any) ([]domain.RegistrationRequest, error) {
	query := `SELECT ` + registrationColumns + ` FROM registration_requests WHERE ` + where + ` ORDER BY applied_at DESC`
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reqs []domain.RegistrationRequest
	for rows.Next() {
		req, err := scanRegistration(rows)
		if err != nil {
			return nil, err
		}
		reqs = append(reqs, *req)
	}
	return reqs, rows.Err()
}

func (r *registrationRepository) ListByChapter(ctx context.Context, chapterID string) ([]domain.RegistrationRequest, error) {
	return r.list(ctx, "chapter_id = $1", chapterID)
}

func (r *registrationRepository) ListByUser(ctx context.Context, userID string) ([]domain.RegistrationRequest, error) {
	return r.list(ctx, "user_id = $1", userID)
}

func (r *registrationRepository) ListByStatus(ctx context.Context, status domain.RegistrationStatus) ([]domain.RegistrationRequest, error) {
	return r.list(ctx, "status = $1", status)
}
