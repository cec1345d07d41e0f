package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/mkrogh/vagtplan-api/internal/models"
	"github.com/mkrogh/vagtplan-api/internal/planning"
	"github.com/mkrogh/vagtplan-api/internal/repository"
	appErrors "github.com/mkrogh/vagtplan-api/pkg/errors"
	"github.com/mkrogh/vagtplan-api/pkg/jobs"
)

type mockEmployeeRepo struct {
	employees []models.Employee
	created   []models.Employee
	updated   []models.Employee
	listErr   error
}

func (m *mockEmployeeRepo) List(_ context.Context, filter models.EmployeeFilter) ([]models.Employee, int, error) {
	if m.listErr != nil {
		return nil, 0, m.listErr
	}
	return m.employees, len(m.employees), nil
}

func (m *mockEmployeeRepo) ListActive(_ context.Context) ([]models.Employee, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var active []models.Employee
	for _, e := range m.employees {
		if e.Active {
			active = append(active, e)
		}
	}
	return active, nil
}

func (m *mockEmployeeRepo) FindByID(_ context.Context, id string) (*models.Employee, error) {
	for i := range m.employees {
		if m.employees[i].ID == id {
			e := m.employees[i]
			return &e, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockEmployeeRepo) Create(_ context.Context, employee *models.Employee) error {
	if employee.ID == "" {
		employee.ID = "mock-emp"
	}
	m.created = append(m.created, *employee)
	m.employees = append(m.employees, *employee)
	return nil
}

func (m *mockEmployeeRepo) Update(_ context.Context, employee *models.Employee) error {
	m.updated = append(m.updated, *employee)
	for i := range m.employees {
		if m.employees[i].ID == employee.ID {
			m.employees[i] = *employee
		}
	}
	return nil
}

func (m *mockEmployeeRepo) Deactivate(_ context.Context, id string) error {
	for i := range m.employees {
		if m.employees[i].ID == id {
			m.employees[i].Active = false
			return nil
		}
	}
	return sql.ErrNoRows
}

type mockAbsenceRepo struct {
	absences []models.Absence
	created  []models.Absence
	deleted  []string
}

func (m *mockAbsenceRepo) List(_ context.Context, filter models.AbsenceFilter) ([]models.Absence, error) {
	var out []models.Absence
	for _, a := range m.absences {
		if filter.EmpID != "" && a.EmpID != filter.EmpID {
			continue
		}
		if filter.Type != "" && a.Type != filter.Type {
			continue
		}
		if filter.To != nil && a.StartDate.After(*filter.To) {
			continue
		}
		if filter.From != nil && a.EndDate.Before(*filter.From) {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (m *mockAbsenceRepo) FindByID(_ context.Context, id string) (*models.Absence, error) {
	for i := range m.absences {
		if m.absences[i].ID == id {
			a := m.absences[i]
			return &a, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockAbsenceRepo) Create(_ context.Context, absence *models.Absence) error {
	if absence.ID == "" {
		absence.ID = "mock-abs"
	}
	m.created = append(m.created, *absence)
	m.absences = append(m.absences, *absence)
	return nil
}

func (m *mockAbsenceRepo) Delete(_ context.Context, id string) error {
	for i := range m.absences {
		if m.absences[i].ID == id {
			m.absences = append(m.absences[:i], m.absences[i+1:]...)
			m.deleted = append(m.deleted, id)
			return nil
		}
	}
	return sql.ErrNoRows
}

// mockShiftRepo keeps shifts in memory and honours the open-slot guard the
// way the SQL layer does.
type mockShiftRepo struct {
	mu      sync.Mutex
	shifts  []models.Shift
	nextID  int
	assigns []string
}

func (m *mockShiftRepo) List(_ context.Context, filter models.ShiftFilter) ([]models.Shift, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Shift
	for _, s := range m.shifts {
		if filter.EmpID != "" && (s.EmpID == nil || *s.EmpID != filter.EmpID) {
			continue
		}
		if filter.Assigned != nil && s.Assigned() != *filter.Assigned {
			continue
		}
		if filter.From != nil && s.Date.Before(*filter.From) {
			continue
		}
		if filter.To != nil && s.Date.After(*filter.To) {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (m *mockShiftRepo) FindByID(_ context.Context, id string) (*models.Shift, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.shifts {
		if m.shifts[i].ID == id {
			s := m.shifts[i]
			return &s, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockShiftRepo) ExistsOnDate(_ context.Context, date time.Time, empID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.shifts {
		if s.Assigned() && *s.EmpID == empID && planning.SameDay(s.Date, date) {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockShiftRepo) Create(_ context.Context, shift *models.Shift) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if shift.ID == "" {
		m.nextID++
		shift.ID = fmt.Sprintf("mock-shift-%d", m.nextID)
	}
	m.shifts = append(m.shifts, *shift)
	return nil
}

func (m *mockShiftRepo) Assign(_ context.Context, id, empID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.shifts {
		if m.shifts[i].ID == id {
			if m.shifts[i].EmpID != nil {
				return repository.ErrSlotTaken
			}
			owner := empID
			m.shifts[i].EmpID = &owner
			m.assigns = append(m.assigns, id)
			return nil
		}
	}
	return sql.ErrNoRows
}

func (m *mockShiftRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.shifts {
		if m.shifts[i].ID == id {
			m.shifts = append(m.shifts[:i], m.shifts[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

// mockBoardCache is an in-memory stand-in for the Redis-backed cache.
type mockBoardCache struct {
	mu            sync.Mutex
	entries       map[string][]byte
	invalidations int
}

func newMockBoardCache() *mockBoardCache {
	return &mockBoardCache{entries: map[string][]byte{}}
}

func (m *mockBoardCache) Get(_ context.Context, key string, dest interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *mockBoardCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.entries[key] = raw
	return nil
}

func (m *mockBoardCache) DeleteByPattern(_ context.Context, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = map[string][]byte{}
	m.invalidations++
	return nil
}

func (m *mockBoardCache) InvalidateBoards(_ context.Context) error {
	return m.DeleteByPattern(context.Background(), "*")
}

type mockEnqueuer struct {
	jobs []jobs.Job
	err  error
}

func (m *mockEnqueuer) Enqueue(job jobs.Job) error {
	if m.err != nil {
		return m.err
	}
	m.jobs = append(m.jobs, job)
	return nil
}
