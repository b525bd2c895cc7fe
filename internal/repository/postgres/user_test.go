package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unify-backend/internal/domain"
	"unify-backend/internal/repository/postgres"
)

func TestUserRepository_GetByEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := postgres.NewUserRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"user_id", "name", "email", "sap_id", "year", "registered_chapters", "created_at"}).
			AddRow("u1", "Alice", "alice@x.edu", "500", "2", "{Robotics,Chess}", time.Now())
		mock.ExpectQuery("SELECT (.+) FROM users WHERE LOWER\\(email\\) = LOWER\\(\\$1\\)").
			WithArgs("Alice@X.edu").
			WillReturnRows(rows)

		u, err := repo.GetByEmail(ctx, "Alice@X.edu")
		require.NoError(t, err)
		assert.Equal(t, "u1", u.UserID)
		assert.Equal(t, []string{"Robotics", "Chess"}, u.RegisteredChapters)
	})

	t.Run("Query error passes through", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM users").
			WithArgs("nobody@x.edu").
			WillReturnError(sqlmock.ErrCancelled)

		u, err := repo.GetByEmail(ctx, "nobody@x.edu")
		assert.Error(t, err)
		assert.NotErrorIs(t, err, domain.ErrNotFound)
		assert.Nil(t, u)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_RegisteredChapters(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := postgres.NewUserRepository(db)
	ctx := context.Background()

	t.Run("Add", func(t *testing.T) {
		mock.ExpectExec("UPDATE users SET registered_chapters = CASE").
			WithArgs("u1", "Robotics").
			WillReturnResult(sqlmock.NewResult(0, 1))
		assert.NoError(t, repo.AddRegisteredChapter(ctx, "u1", "Robotics"))
	})

	t.Run("Remove from missing user", func(t *testing.T) {
		mock.ExpectExec("UPDATE users SET registered_chapters = array_remove").
			WithArgs("u9", "Robotics").
			WillReturnResult(sqlmock.NewResult(0, 0))
		assert.ErrorIs(t, repo.RemoveRegisteredChapter(ctx, "u9", "Robotics"), domain.ErrNotFound)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
