package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/mkrogh/vagtplan-api/internal/models"
)

// AbsenceRepository manages persistence for absence records. Absences are
// immutable: there is no update, only create and delete.
type AbsenceRepository struct {
	db *sqlx.DB
}

// NewAbsenceRepository constructs an AbsenceRepository.
func NewAbsenceRepository(db *sqlx.DB) *AbsenceRepository {
	return &AbsenceRepository{db: db}
}

// List returns absences matching the filter, ordered by start date.
// When the filter carries a window, absences overlapping it are included.
func (r *AbsenceRepository) List(ctx context.Context, filter models.AbsenceFilter) ([]models.Absence, error) {
	base := "SELECT id, emp_id, type, start_date, end_date, created_at FROM absences WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.EmpID != "" {
		conditions = append(conditions, fmt.Sprintf("emp_id = $%d", len(args)+1))
		args = append(args, filter.EmpID)
	}
	if filter.Type != "" {
		conditions = append(conditions, fmt.Sprintf("type = $%d", len(args)+1))
		args = append(args, filter.Type)
	}
	if filter.From != nil && filter.To != nil {
		conditions = append(conditions, fmt.Sprintf("start_date <= $%d AND end_date >= $%d", len(args)+1, len(args)+2))
		args = append(args, *filter.To, *filter.From)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}
	base += " ORDER BY start_date ASC, id ASC"

	var absences []models.Absence
	if err := r.db.SelectContext(ctx, &absences, base, args...); err != nil {
		return nil, fmt.Errorf("list absences: %w", err)
	}
	return absences, nil
}

// FindByID fetches an absence by ID.
func (r *AbsenceRepository) FindByID(ctx context.Context, id string) (*models.Absence, error) {
	const query = `SELECT id, emp_id, type, start_date, end_date, created_at FROM absences WHERE id = $1`
	var absence models.Absence
	if err := r.db.GetContext(ctx, &absence, query, id); err != nil {
		return nil, err
	}
	return &absence, nil
}

// Create inserts a new absence record.
func (r *AbsenceRepository) Create(ctx context.Context, absence *models.Absence) error {
	if absence.ID == "" {
		absence.ID = uuid.NewString()
	}
	if absence.CreatedAt.IsZero() {
		absence.CreatedAt = time.Now().UTC()
	}

	const query = `INSERT INTO absences (id, emp_id, type, start_date, end_date, created_at)
		VALUES (:id, :emp_id, :type, :start_date, :end_date, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, absence); err != nil {
		return fmt.Errorf("create absence: %w", err)
	}
	return nil
}

// Delete removes an absence record.
func (r *AbsenceRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM absences WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete absence: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
