package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkrogh/vagtplan-api/internal/models"
)

func TestAbsenceRepositoryListOverlapWindow(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAbsenceRepository(db)

	from := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 7, 31, 0, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"id", "emp_id", "type", "start_date", "end_date", "created_at"}).
		AddRow("a1", "e1", "vacation", from, to, time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, emp_id, type, start_date, end_date, created_at FROM absences WHERE 1=1 AND start_date <= $1 AND end_date >= $2 ORDER BY start_date ASC, id ASC")).
		WithArgs(to, from).
		WillReturnRows(rows)

	list, err := repo.List(context.Background(), models.AbsenceFilter{From: &from, To: &to})
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAbsenceRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAbsenceRepository(db)

	mock.ExpectExec("INSERT INTO absences").
		WithArgs(sqlmock.AnyArg(), "e1", "vacation", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	absence := &models.Absence{
		EmpID:     "e1",
		Type:      models.AbsenceTypeVacation,
		StartDate: time.Date(2024, 7, 6, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 7, 7, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, repo.Create(context.Background(), absence))
	assert.NotEmpty(t, absence.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAbsenceRepositoryDeleteMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAbsenceRepository(db)

	mock.ExpectExec("DELETE FROM absences").
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
