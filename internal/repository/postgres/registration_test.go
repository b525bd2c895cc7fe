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

var registrationCols = []string{"registration_id", "user_id", "student_name", "student_email", "chapter_id", "chapter_name", "status", "applied_at", "processed_at", "processed_by", "notes", "sap_id", "year"}

func TestRegistrationRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := postgres.NewRegistrationRepository(db)
	req := &domain.RegistrationRequest{
		RegistrationID: "u1-c1-1",
		UserID:         "u1",
		StudentName:    "Alice",
		StudentEmail:   "alice@x.edu",
		ChapterID:      "c1",
		ChapterName:    "Robotics",
		Status:         domain.RegistrationStatusPending,
		AppliedAt:      time.Now(),
		SapID:          "500",
		Year:           "2",
	}

	mock.ExpectExec("INSERT INTO registration_requests").
		WithArgs("u1-c1-1", "u1", "Alice", "alice@x.edu", "c1", "Robotics", "pending", sqlmock.AnyArg(), "500", "2").
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.Create(context.Background(), req))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegistrationRepository_UpdateStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := postgres.NewRegistrationRepository(db)
	ctx := context.Background()
	now := time.Now()
	notes := "welcome"

	t.Run("Success", func(t *testing.T) {
		rows := sqlmock.NewRows(registrationCols).
			AddRow("u1-c1-1", "u1", "Alice", "alice@x.edu", "c1", "Robotics", "approved", now, now, "head@x.edu", "welcome", "500", "2")
		mock.ExpectQuery("UPDATE registration_requests SET status = \\$1, processed_at = \\$2, processed_by = \\$3, notes = COALESCE\\(\\$4, notes\\)").
			WithArgs("approved", sqlmock.AnyArg(), "head@x.edu", sqlmock.AnyArg(), "u1-c1-1").
			WillReturnRows(rows)

		req, err := repo.UpdateStatus(ctx, "u1-c1-1", domain.StatusUpdate{
			Status: domain.RegistrationStatusApproved, ProcessedAt: now, ProcessedBy: "head@x.edu", Notes: &notes,
		})
		require.NoError(t, err)
		assert.Equal(t, domain.RegistrationStatusApproved, req.Status)
		assert.Equal(t, "welcome", req.Notes)
		require.NotNil(t, req.ProcessedAt)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery("UPDATE registration_requests").
			WillReturnRows(sqlmock.NewRows(registrationCols))

		_, err := repo.UpdateStatus(ctx, "missing", domain.StatusUpdate{Status: domain.RegistrationStatusRejected, ProcessedAt: now})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegistrationRepository_FindByUserAndChapter(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := postgres.NewRegistrationRepository(db)
	now := time.Now()

	rows := sqlmock.NewRows(registrationCols).
		AddRow("u1-c1-1", "u1", "Alice", "alice@x.edu", "c1", "Robotics", "pending", now, nil, nil, nil, "500", "2")
	mock.ExpectQuery("SELECT (.+) FROM registration_requests WHERE user_id = \\$1 AND chapter_id = \\$2").
		WithArgs("u1", "c1", sqlmock.AnyArg()).
		WillReturnRows(rows)

	req, err := repo.FindByUserAndChapter(context.Background(), "u1", "c1", domain.RegistrationStatusPending, domain.RegistrationStatusApproved)
	require.NoError(t, err)
	assert.Equal(t, domain.RegistrationStatusPending, req.Status)
	assert.Nil(t, req.ProcessedAt)
	assert.Empty(t, req.Notes)
	assert.NoError(t, mock.ExpectationsWereMet())
}
