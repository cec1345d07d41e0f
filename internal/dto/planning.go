package dto

// BoardDay is one column of the calendar matrix.
type BoardDay struct {
	Date    string `json:"date"`
	Weekend bool   `json:"weekend"`
}

// BoardCell is one employee-day intersection of the matrix. Status is one of
// "", "vacation", "shift_free", "shift" or "conflict".
type BoardCell struct {
	Date    string `json:"date"`
	Status  string `json:"status,omitempty"`
	ShiftID string `json:"shift_id,omitempty"`
}

// BoardRow is one employee's line in the matrix.
type BoardRow struct {
	EmpID      string      `json:"emp_id"`
	Name       string      `json:"name"`
	ShiftCount int         `json:"shift_count"`
	Cells      []BoardCell `json:"cells"`
}

// BoardResponse is the full calendar matrix for a period, the per-day
// vacation tallies underneath it, and the attention list on top.
type BoardResponse struct {
	Days       []BoardDay  `json:"days"`
	Rows       []BoardRow  `json:"rows"`
	AwayCounts []int       `json:"away_counts"`
	Conflicts  []Conflict  `json:"conflicts"`
	Warnings   []Warning   `json:"warnings"`
	MaxAway    int         `json:"max_away"`
}

// Conflict is the wire form of a shift/absence collision.
type Conflict struct {
	ShiftID      string `json:"shift_id"`
	AbsenceID    string `json:"absence_id"`
	EmpID        string `json:"emp_id"`
	EmployeeName string `json:"employee_name,omitempty"`
	Date         string `json:"date"`
	AbsenceType  string `json:"absence_type"`
}

// Warning is the wire form of an over-capacity day.
type Warning struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
	Limit int    `json:"limit"`
}

// EmployeeLoad reports how many shifts an employee currently carries.
type EmployeeLoad struct {
	EmpID      string `json:"emp_id"`
	Name       string `json:"name"`
	ShiftCount int    `json:"shift_count"`
}

// DistributeRequest runs the fair-share planner over a period.
type DistributeRequest struct {
	StartDate string `json:"start" validate:"required"`
	EndDate   string `json:"end" validate:"required"`
	// Apply commits the proposals; false returns a preview only.
	Apply bool `json:"apply"`
	// Async enqueues the apply step instead of running it inline.
	Async bool `json:"async"`
}

// ProposedAssignment is the wire form of one planner proposal.
type ProposedAssignment struct {
	Date    string `json:"date"`
	EmpID   string `json:"emp_id"`
	Type    string `json:"type"`
	ShiftID string `json:"shift_id,omitempty"`
}

// DistributeResponse reports the outcome of a distribution run.
type DistributeResponse struct {
	BatchID   string               `json:"batch_id,omitempty"`
	Proposals []ProposedAssignment `json:"proposals"`
	Applied   int                  `json:"applied"`
	Skipped   int                  `json:"skipped"`
	Queued    bool                 `json:"queued,omitempty"`
}
