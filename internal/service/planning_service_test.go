package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkrogh/vagtplan-api/internal/models"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func rosterOf(ids ...string) []models.Employee {
	out := make([]models.Employee, 0, len(ids))
	for _, id := range ids {
		out = append(out, models.Employee{ID: id, Name: "Employee " + id, Active: true})
	}
	return out
}

func TestPlanningServiceBoard(t *testing.T) {
	employees := &mockEmployeeRepo{employees: rosterOf("e1", "e2")}
	absences := &mockAbsenceRepo{absences: []models.Absence{
		{ID: "a1", EmpID: "e1", Type: models.AbsenceTypeVacation, StartDate: day(2024, 7, 1), EndDate: day(2024, 7, 3)},
	}}
	e2 := "e2"
	shifts := &mockShiftRepo{shifts: []models.Shift{
		{ID: "s1", EmpID: &e2, Date: day(2024, 7, 6), Type: "weekend"},
	}}
	cache := newMockBoardCache()

	svc := NewPlanningService(employees, absences, shifts, cache, nil, 3, time.Minute, nil)

	board, err := svc.Board(context.Background(), "2024-07-01", "2024-07-07", nil)
	require.NoError(t, err)
	require.Len(t, board.Days, 7)
	require.Len(t, board.Rows, 2)
	assert.Equal(t, 3, board.MaxAway)

	// Saturday and Sunday flagged, weekdays not.
	assert.False(t, board.Days[0].Weekend)
	assert.True(t, board.Days[5].Weekend)
	assert.True(t, board.Days[6].Weekend)

	// e1 on vacation for the first three days.
	row := board.Rows[0]
	assert.Equal(t, "e1", row.EmpID)
	assert.Equal(t, "vacation", row.Cells[0].Status)
	assert.Equal(t, "vacation", row.Cells[2].Status)
	assert.Empty(t, row.Cells[3].Status)

	// e2 works the Saturday.
	row = board.Rows[1]
	assert.Equal(t, "shift", row.Cells[5].Status)
	assert.Equal(t, "s1", row.Cells[5].ShiftID)
	assert.Equal(t, 1, row.ShiftCount)

	assert.Equal(t, []int{1, 1, 1, 0, 0, 0, 0}, board.AwayCounts)
	assert.Empty(t, board.Conflicts)
}

func TestPlanningServiceBoardMarksConflictCells(t *testing.T) {
	employees := &mockEmployeeRepo{employees: rosterOf("e1")}
	absences := &mockAbsenceRepo{absences: []models.Absence{
		{ID: "a1", EmpID: "e1", Type: models.AbsenceTypeShiftFree, StartDate: day(2024, 7, 6), EndDate: day(2024, 7, 6)},
	}}
	e1 := "e1"
	shifts := &mockShiftRepo{shifts: []models.Shift{
		{ID: "s1", EmpID: &e1, Date: day(2024, 7, 6), Type: "weekend"},
	}}

	svc := NewPlanningService(employees, absences, shifts, nil, nil, 3, time.Minute, nil)

	board, err := svc.Board(context.Background(), "2024-07-06", "2024-07-07", nil)
	require.NoError(t, err)
	require.Len(t, board.Conflicts, 1)
	assert.Equal(t, "s1", board.Conflicts[0].ShiftID)
	assert.Equal(t, "shift_free", board.Conflicts[0].AbsenceType)
	assert.Equal(t, "conflict", board.Rows[0].Cells[0].Status)
}

func TestPlanningServiceBoardUsesCache(t *testing.T) {
	employees := &mockEmployeeRepo{employees: rosterOf("e1")}
	absences := &mockAbsenceRepo{}
	shifts := &mockShiftRepo{}
	cache := newMockBoardCache()

	svc := NewPlanningService(employees, absences, shifts, cache, nil, 3, time.Minute, nil)

	first, err := svc.Board(context.Background(), "2024-07-01", "2024-07-07", nil)
	require.NoError(t, err)

	// Mutate the backing store; the cached board must win until invalidation.
	employees.employees = rosterOf("e1", "e2")
	second, err := svc.Board(context.Background(), "2024-07-01", "2024-07-07", nil)
	require.NoError(t, err)
	assert.Equal(t, len(first.Rows), len(second.Rows))

	require.NoError(t, svc.InvalidateBoards(context.Background()))
	third, err := svc.Board(context.Background(), "2024-07-01", "2024-07-07", nil)
	require.NoError(t, err)
	assert.Len(t, third.Rows, 2)
}

func TestPlanningServiceBoardRejectsBadDate(t *testing.T) {
	svc := NewPlanningService(&mockEmployeeRepo{}, &mockAbsenceRepo{}, &mockShiftRepo{}, nil, nil, 3, time.Minute, nil)
	_, err := svc.Board(context.Background(), "01-07-2024", "2024-07-07", nil)
	assert.Error(t, err)
}

func TestPlanningServiceBoardInvertedPeriodIsEmpty(t *testing.T) {
	svc := NewPlanningService(&mockEmployeeRepo{employees: rosterOf("e1")}, &mockAbsenceRepo{}, &mockShiftRepo{}, nil, nil, 3, time.Minute, nil)
	board, err := svc.Board(context.Background(), "2024-07-07", "2024-07-01", nil)
	require.NoError(t, err)
	assert.Empty(t, board.Days)
	assert.Empty(t, board.Warnings)
}

func TestPlanningServiceWarnings(t *testing.T) {
	employees := &mockEmployeeRepo{employees: rosterOf("e1", "e2", "e3")}
	absences := &mockAbsenceRepo{absences: []models.Absence{
		{ID: "a1", EmpID: "e1", Type: models.AbsenceTypeVacation, StartDate: day(2024, 7, 1), EndDate: day(2024, 7, 2)},
		{ID: "a2", EmpID: "e2", Type: models.AbsenceTypeVacation, StartDate: day(2024, 7, 1), EndDate: day(2024, 7, 1)},
		{ID: "a3", EmpID: "e3", Type: models.AbsenceTypeShiftFree, StartDate: day(2024, 7, 1), EndDate: day(2024, 7, 1)},
	}}
	svc := NewPlanningService(employees, absences, &mockShiftRepo{}, nil, nil, 1, time.Minute, nil)

	warnings, err := svc.Warnings(context.Background(), "2024-07-01", "2024-07-02", nil)
	require.NoError(t, err)
	// Only July 1st exceeds the limit, and only vacation counts.
	require.Len(t, warnings, 1)
	assert.Equal(t, "2024-07-01", warnings[0].Date)
	assert.Equal(t, 2, warnings[0].Count)
	assert.Equal(t, 1, warnings[0].Limit)
}

func TestPlanningServiceWarningsThresholdOverride(t *testing.T) {
	employees := &mockEmployeeRepo{employees: rosterOf("e1", "e2")}
	absences := &mockAbsenceRepo{absences: []models.Absence{
		{ID: "a1", EmpID: "e1", Type: models.AbsenceTypeVacation, StartDate: day(2024, 7, 1), EndDate: day(2024, 7, 1)},
	}}
	svc := NewPlanningService(employees, absences, &mockShiftRepo{}, nil, nil, 3, time.Minute, nil)

	// Configured threshold of 3 yields nothing; an override of 0 flags the day.
	warnings, err := svc.Warnings(context.Background(), "2024-07-01", "2024-07-01", nil)
	require.NoError(t, err)
	assert.Empty(t, warnings)

	zero := 0
	warnings, err = svc.Warnings(context.Background(), "2024-07-01", "2024-07-01", &zero)
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Equal(t, 0, warnings[0].Limit)
}

func TestPlanningServiceAvailableEmployees(t *testing.T) {
	employees := &mockEmployeeRepo{employees: rosterOf("e1", "e2")}
	absences := &mockAbsenceRepo{absences: []models.Absence{
		{ID: "a1", EmpID: "e1", Type: models.AbsenceTypeShiftFree, StartDate: day(2024, 7, 6), EndDate: day(2024, 7, 6)},
	}}
	svc := NewPlanningService(employees, absences, &mockShiftRepo{}, nil, nil, 3, time.Minute, nil)

	available, err := svc.AvailableEmployees(context.Background(), "2024-07-06")
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, "e2", available[0].ID)
}

func TestPlanningServiceShiftLoadsIncludeZeroes(t *testing.T) {
	employees := &mockEmployeeRepo{employees: rosterOf("e1", "e2")}
	e1 := "e1"
	shifts := &mockShiftRepo{shifts: []models.Shift{
		{ID: "s1", EmpID: &e1, Date: day(2024, 7, 6), Type: "weekend"},
		{ID: "s2", Date: day(2024, 7, 7), Type: "weekend"},
	}}
	svc := NewPlanningService(employees, &mockAbsenceRepo{}, shifts, nil, nil, 3, time.Minute, nil)

	loads, err := svc.ShiftLoads(context.Background(), "2024-07-01", "2024-07-07")
	require.NoError(t, err)
	require.Len(t, loads, 2)
	assert.Equal(t, 1, loads[0].ShiftCount)
	assert.Equal(t, 0, loads[1].ShiftCount)
}
