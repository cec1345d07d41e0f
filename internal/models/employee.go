package models

import "time"

// Employee is a member of the fixed roster shifts are planned for.
type Employee struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// EmployeeFilter narrows down roster listings.
type EmployeeFilter struct {
	Active   *bool
	Search   string
	Page     int
	PageSize int
}
