package models

import "time"

// AbsenceType labels what kind of wish an absence records.
type AbsenceType string

const (
	AbsenceTypeVacation  AbsenceType = "vacation"
	AbsenceTypeShiftFree AbsenceType = "shift_free"
)

// Valid reports whether the type is one of the known labels.
func (t AbsenceType) Valid() bool {
	return t == AbsenceTypeVacation || t == AbsenceTypeShiftFree
}

// Absence is an employee-submitted date range marking unavailability.
// Records are immutable once created; an edit is a delete plus recreate.
// Both dates are plain calendar days, inclusive on both ends.
type Absence struct {
	ID        string      `db:"id" json:"id"`
	EmpID     string      `db:"emp_id" json:"emp_id"`
	Type      AbsenceType `db:"type" json:"type"`
	StartDate time.Time   `db:"start_date" json:"start_date"`
	EndDate   time.Time   `db:"end_date" json:"end_date"`
	CreatedAt time.Time   `db:"created_at" json:"created_at"`
}

// AbsenceFilter narrows down absence listings.
type AbsenceFilter struct {
	EmpID string
	Type  AbsenceType
	// When both are set, only absences overlapping [From, To] are returned.
	From *time.Time
	To   *time.Time
}
