package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"

	"unify-backend/internal/domain"
	"unify-backend/internal/logger"
	"unify-backend/internal/repository"
)

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

const userColumns = `user_id, name, email, sap_id, year, COALESCE(registered_chapters, '{}'), created_at`

func scanUser(row rowScanner) (*domain.User, error) {
	u := &domain.User{}
	var chapters pq.StringArray
	if err := row.Scan(&u.UserID, &u.Name, &u.Email, &u.SapID, &u.Year, &chapters, &u.CreatedAt); err != nil {
		return nil, err
	}
	u.RegisteredChapters = []string(chapters)
	return u, nil
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	query := `INSERT INTO users (user_id, name, email, sap_id, year, registered_chapters, created_at) 
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	chapters := u.RegisteredChapters
	if chapters == nil {
		chapters = []string{}
	}
	_, err := r.db.ExecContext(ctx, query, u.UserID, u.Name, u.Email, u.SapID, u.Year, pq.Array(chapters), u.CreatedAt)
	return err
}

func (r *userRepository) GetByID(ctx context.Context, userID string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = $1`
	u, err := scanUser(r.db.QueryRowContext(ctx, query, userID))
	if err != nil {
		return nil, notFound(err, "user "+userID)
	}
	return u, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1)`
	u, err := scanUser(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		return nil, notFound(err, "user with email "+email)
	}
	return u, nil
}

func (r *userRepository) List(ctx context.Context) ([]domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY user_id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (r *userRepository) UpdateProfile(ctx context.Context, u *domain.User) error {
	query := `UPDATE users SET name = $1, sap_id = $2, year = $3 WHERE user_id = $4`
	res, err := r.db.ExecContext(ctx, query, u.Name, u.SapID, u.Year, u.UserID)
	if err != nil {
		return err
	}
	return expectRow(res, "user "+u.UserID)
}

func (r *userRepository) AddRegisteredChapter(ctx context.Context, userID, chapterName string) error {
	query := `UPDATE users SET registered_chapters = CASE
	              WHEN $2::text = ANY(registered_chapters) THEN registered_chapters
	              ELSE array_append(registered_chapters, $2::text) END
	          WHERE user_id = $1`
	logger.StoreCall("ADD_TO_SET", "users", "userID", userID, "chapter", chapterName)
	res, err := r.db.ExecContext(ctx, query, userID, chapterName)
	logger.StoreResult("ADD_TO_SET", "users", err, "userID", userID)
	if err != nil {
		return err
	}
	return expectRow(res, "user "+userID)
}

func (r *userRepository) RemoveRegisteredChapter(ctx context.Context, userID, chapterName string) error {
	query := `UPDATE users SET registered_chapters = array_remove(registered_chapters, $2::text) WHERE user_id = $1`
	logger.StoreCall("REMOVE_FROM_SET", "users", "userID", userID, "chapter", chapterName)
	res, err := r.db.ExecContext(ctx, query, userID, chapterName)
	logger.StoreResult("REMOVE_FROM_SET", "users", err, "userID", userID)
	if err != nil {
		return err
	}
	return expectRow(res, "user "+userID)
}

func (r *userRepository) SetRegisteredChapters(ctx context.Context, userID string, chapterNames []string) error {
	if chapterNames == nil {
		chapterNames = []string{}
	}
	query := `UPDATE users SET registered_chapters = $2 WHERE user_id = $1`
	res, err := r.db.ExecContext(ctx, query, userID, pq.Array(chapterNames))
	if err != nil {
		return err
	}
	return expectRow(res, "user "+userID)
}
