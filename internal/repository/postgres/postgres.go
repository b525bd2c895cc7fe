package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"unify-backend/internal/domain"
	"unify-backend/internal/repository"

	_ "github.com/lib/pq"
)

func NewStore(db *sql.DB) *repository.Store {
	return repository.NewStore(
		NewUserRepository(db),
		NewChapterRepository(db),
		NewChapterHeadRepository(db),
		NewRegistrationRepository(db),
		NewActivityRepository(db),
		db.Close,
	)
}

type rowScanner interface {
	Scan(dest ...any) error
}

// notFound turns sql.ErrNoRows into domain.ErrNotFound.
func notFound(err error, what string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, domain.ErrNotFound)
	}
	return err
}

// expectRow reports domain.ErrNotFound when an UPDATE touched nothing.
func expectRow(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, domain.ErrNotFound)
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
