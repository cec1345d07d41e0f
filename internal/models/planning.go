package models

import "time"

// Period is the planning window the calendar matrix and aggregate warnings
// are computed over. It is request input, never persisted.
type Period struct {
	Start time.Time
	End   time.Time
}

// Conflict pairs an assigned shift with an absence covering its date for the
// same employee. Derived, never stored.
type Conflict struct {
	Shift        Shift   `json:"shift"`
	Absence      Absence `json:"absence"`
	EmployeeName string  `json:"employee_name"`
}

// Warning flags a day where more employees are on vacation than the
// configured limit allows.
type Warning struct {
	Date  time.Time `json:"date"`
	Count int       `json:"count"`
	Limit int       `json:"limit"`
}

// ProposedAssignment is the fair-share planner's output for one target date.
// ShiftID is set when the proposal fills an existing open slot; otherwise a
// new shift record is created on apply.
type ProposedAssignment struct {
	Date    time.Time `json:"date"`
	EmpID   string    `json:"emp_id"`
	Type    string    `json:"type"`
	ShiftID string    `json:"shift_id,omitempty"`
}
