package postgres

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"unify-backend/internal/domain"
	"unify-backend/internal/repository"
)

type chapterHeadRepository struct {
	db *sql.DB
}

func NewChapterHeadRepository(db *sql.DB) repository.ChapterHeadRepository {
	return &chapterHeadRepository{db: db}
}

func (r *chapterHeadRepository) GetByEmail(ctx context.Context, email string) (*domain.ChapterHead, error) {
	query := `SELECT email, name, COALESCE(chapter_id, ''), COALESCE(chapter_name, ''), COALESCE(chapters, '{}') 
	          FROM chapter_heads WHERE LOWER(email) = LOWER($1)`
	h := &domain.ChapterHead{}
	var chapters pq.StringArray
	err := r.db.QueryRowContext(ctx, query, email).Scan(&h.Email, &h.Name, &h.ChapterID, &h.ChapterName, &chapters)
	if err != nil {
		return nil, notFound(err, "chapter head "+email)
	}
	h.Chapters = []string(chapters)
	return h, nil
}

func (r *chapterHeadRepository) Save(ctx context.Context, h *domain.ChapterHead) error {
	query := `INSERT INTO chapter_heads (email, name, chapter_id, chapter_name, chapters) 
	          VALUES ($1, $2, $3, $4, $5)
	          ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name, chapter_id = EXCLUDED.chapter_id,
	              chapter_name = EXCLUDED.chapter_name, chapters = EXCLUDED.chapters`
	chapters := h.Chapters
	if chapters == nil {
		chapters = []string{}
	}
	_, err := r.db.ExecContext(ctx, query, domain.NormalizeEmail(h.Email), h.Name,
		nullString(h.ChapterID), nullString(h.ChapterName), pq.Array(chapters))
	return err
}

func (r *chapterHeadRepository) SetChapterID(ctx context.Context, email, chapterID string) error {
	query := `UPDATE chapter_heads SET chapter_id = $1 WHERE LOWER(email) = LOWER($2)`
	res, err := r.db.ExecContext(ctx, query, chapterID, email)
	if err != nil {
		return err
	}
	return expectRow(res, "chapter head "+email)
}
