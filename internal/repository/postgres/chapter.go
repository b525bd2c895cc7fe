package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"unify-backend/internal/domain"
	"unify-backend/internal/logger"
	"unify-backend/internal/repository"
)

type chapterRepository struct {
	db *sql.DB
}

func NewChapterRepository(db *sql.DB) repository.ChapterRepository {
	return &chapterRepository{db: db}
}

const chapterColumns = `chapter_id, chapter_name, description, head_email, head_name, member_count, status, registration_open, created_at, updated_at`

func scanChapter(row rowScanner) (*domain.Chapter, error) {
	c := &domain.Chapter{}
	var memberCount sql.NullInt64
	if err := row.Scan(&c.ChapterID, &c.ChapterName, &c.Description, &c.HeadEmail, &c.HeadName,
		&memberCount, &c.Status, &c.RegistrationOpen, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	c.MemberCount = int(memberCount.Int64)
	return c, nil
}

func (r *chapterRepository) Create(ctx context.Context, c *domain.Chapter) error {
	query := `INSERT INTO chapters (chapter_id, chapter_name, description, head_email, head_name, member_count, status, registration_open, created_at, updated_at) 
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.db.ExecContext(ctx, query, c.ChapterID, c.ChapterName, c.Description, c.HeadEmail, c.HeadName,
		c.MemberCount, c.Status, c.RegistrationOpen, c.CreatedAt, c.UpdatedAt)
	return err
}

func (r *chapterRepository) GetByID(ctx context.Context, chapterID string) (*domain.Chapter, error) {
	query := `SELECT ` + chapterColumns + ` FROM chapters WHERE chapter_id = $1`
	c, err := scanChapter(r.db.QueryRowContext(ctx, query, chapterID))
	if err != nil {
		return nil, notFound(err, "chapter "+chapterID)
	}
	return c, nil
}

func (r *chapterRepository) GetByName(ctx context.Context, name string) (*domain.Chapter, error) {
	query := `SELECT ` + chapterColumns + ` FROM chapters WHERE LOWER(chapter_name) = LOWER($1) LIMIT 1`
	c, err := scanChapter(r.db.QueryRowContext(ctx, query, name))
	if err != nil {
		return nil, notFound(err, fmt.Sprintf("chapter named %q", name))
	}
	return c, nil
}

func (r *chapterRepository) List(ctx context.Context) ([]domain.Chapter, error) {
	query := `SELECT ` + chapterColumns + ` FROM chapters ORDER BY chapter_name`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chapters []domain.Chapter
	for rows.Next() {
		c, err := scanChapter(rows)
		if err != nil {
			return nil, err
		}
		chapters = append(chapters, *c)
	}
	return chapters, rows.Err()
}

func (r *chapterRepository) SetRegistrationOpen(ctx context.Context, chapterID string, open bool, at time.Time) error {
	query := `UPDATE chapters SET registration_open = $1, updated_at = $2 WHERE chapter_id = $3`
	res, err := r.db.ExecContext(ctx, query, open, at, chapterID)
	if err != nil {
		return err
	}
	return expectRow(res, "chapter "+chapterID)
}

func (r *chapterRepository) SetHead(ctx context.Context, chapterID, email, name string, at time.Time) error {
	query := `UPDATE chapters SET head_email = $1, head_name = $2, updated_at = $3 WHERE chapter_id = $4`
	res, err := r.db.ExecContext(ctx, query, email, name, at, chapterID)
	if err != nil {
		return err
	}
	return expectRow(res, "chapter "+chapterID)
}

// IncrementMemberCount treats a NULL count as zero.
func (r *chapterRepository) IncrementMemberCount(ctx context.Context, chapterID string) error {
	query := `UPDATE chapters SET member_count = COALESCE(member_count, 0) + 1 WHERE chapter_id = $1`
	logger.StoreCall("INCREMENT", "chapters", "chapterID", chapterID)
	res, err := r.db.ExecContext(ctx, query, chapterID)
	logger.StoreResult("INCREMENT", "chapters", err, "chapterID", chapterID)
	if err != nil {
		return err
	}
	return expectRow(res, "chapter "+chapterID)
}

func (r *chapterRepository) DecrementMemberCount(ctx context.Context, chapterID string) error {
	query := `UPDATE chapters SET member_count = member_count - 1 WHERE chapter_id = $1 AND member_count > 0`
	logger.StoreCall("DECREMENT", "chapters", "chapterID", chapterID)
	res, err := r.db.ExecContext(ctx, query, chapterID)
	logger.StoreResult("DECREMENT", "chapters", err, "chapterID", chapterID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("decrement member count of %s: %w", chapterID, domain.ErrConditionFailed)
	}
	return nil
}

func (r *chapterRepository) SetMemberCount(ctx context.Context, chapterID string, count int) error {
	query := `UPDATE chapters SET member_count = $1 WHERE chapter_id = $2`
	res, err := r.db.ExecContext(ctx, query, count, chapterID)
	if err != nil {
		return err
	}
	return expectRow(res, "chapter "+chapterID)
}
