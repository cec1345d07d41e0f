package models

import "time"

// Shift is a single-day work assignment. A nil EmpID marks an open slot
// waiting for assignment.
type Shift struct {
	ID        string    `db:"id" json:"id"`
	EmpID     *string   `db:"emp_id" json:"emp_id"`
	Date      time.Time `db:"date" json:"date"`
	Type      string    `db:"type" json:"type"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Assigned reports whether the shift has an assignee.
func (s Shift) Assigned() bool {
	return s.EmpID != nil && *s.EmpID != ""
}

// ShiftFilter narrows down shift listings.
type ShiftFilter struct {
	EmpID string
	// Assigned filters on slot state: true = assigned only, false = open only.
	Assigned *bool
	From     *time.Time
	To       *time.Time
}
