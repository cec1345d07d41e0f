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

// ErrSlotTaken signals that an assignment guard failed: the slot was filled
// by another writer between proposal and commit.
var ErrSlotTaken = fmt.Errorf("shift slot already taken")

// ShiftRepository manages persistence for shift records.
type ShiftRepository struct {
	db *sqlx.DB
}

// NewShiftRepository constructs a ShiftRepository.
func NewShiftRepository(db *sqlx.DB) *ShiftRepository {
	return &ShiftRepository{db: db}
}

// List returns shifts matching the filter, ordered by date.
func (r *ShiftRepository) List(ctx context.Context, filter models.ShiftFilter) ([]models.Shift, error) {
	base := "SELECT id, emp_id, date, type, created_at, updated_at FROM shifts WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.EmpID != "" {
		conditions = append(conditions, fmt.Sprintf("emp_id = $%d", len(args)+1))
		args = append(args, filter.EmpID)
	}
	if filter.Assigned != nil {
		if *filter.Assigned {
			conditions = append(conditions, "emp_id IS NOT NULL")
		} else {
			conditions = append(conditions, "emp_id IS NULL")
		}
	}
	if filter.From != nil {
		conditions = append(conditions, fmt.Sprintf("date >= $%d", len(args)+1))
		args = append(args, *filter.From)
	}
	if filter.To != nil {
		conditions = append(conditions, fmt.Sprintf("date <= $%d", len(args)+1))
		args = append(args, *filter.To)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}
	base += " ORDER BY date ASC, id ASC"

	var shifts []models.Shift
	if err := r.db.SelectContext(ctx, &shifts, base, args...); err != nil {
		return nil, fmt.Errorf("list shifts: %w", err)
	}
	return shifts, nil
}

// FindByID fetches a shift by ID.
func (r *ShiftRepository) FindByID(ctx context.Context, id string) (*models.Shift, error) {
	const query = `SELECT id, emp_id, date, type, created_at, updated_at FROM shifts WHERE id = $1`
	var shift models.Shift
	if err := r.db.GetContext(ctx, &shift, query, id); err != nil {
		return nil, err
	}
	return &shift, nil
}

// ExistsOnDate reports whether the employee already holds a shift on the day.
func (r *ShiftRepository) ExistsOnDate(ctx context.Context, date time.Time, empID string) (bool, error) {
	const query = `SELECT 1 FROM shifts WHERE date = $1 AND emp_id = $2 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, date, empID); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check shift on date: %w", err)
	}
	return true, nil
}

// ExistsAnyOnDate reports whether any shift record, assigned or open, exists
// on the day.
func (r *ShiftRepository) ExistsAnyOnDate(ctx context.Context, date time.Time) (bool, error) {
	const query = `SELECT 1 FROM shifts WHERE date = $1 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, date); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check shift day: %w", err)
	}
	return true, nil
}

// Create inserts a new shift record, assigned or open.
func (r *ShiftRepository) Create(ctx context.Context, shift *models.Shift) error {
	if shift.ID == "" {
		shift.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if shift.CreatedAt.IsZero() {
		shift.CreatedAt = now
	}
	shift.UpdatedAt = now

	const query = `INSERT INTO shifts (id, emp_id, date, type, created_at, updated_at)
		VALUES (:id, :emp_id, :date, :type, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, shift); err != nil {
		return fmt.Errorf("create shift: %w", err)
	}
	return nil
}

// Assign sets the assignee on an open slot. The emp_id IS NULL guard is the
// re-check that keeps concurrent planners from double-assigning: if another
// writer filled the slot first, ErrSlotTaken is returned.
func (r *ShiftRepository) Assign(ctx context.Context, id string, empID string) error {
	const query = `UPDATE shifts SET emp_id = $2, updated_at = $3 WHERE id = $1 AND emp_id IS NULL`
	res, err := r.db.ExecContext(ctx, query, id, empID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("assign shift: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("assign shift: %w", err)
	}
	if n == 0 {
		return ErrSlotTaken
	}
	return nil
}

// Delete removes a shift record.
func (r *ShiftRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM shifts WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete shift: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
