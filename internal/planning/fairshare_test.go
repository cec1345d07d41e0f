package planning

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkrogh/vagtplan-api/internal/models"
)

func weekendTargets(dates ...time.Time) []Target {
	targets := make([]Target, len(dates))
	for i, d := range dates {
		targets[i] = Target{Date: d, Type: "weekend"}
	}
	return targets
}

func TestTargetsCollectsOpenSlotsAndEmptyWeekends(t *testing.T) {
	period := models.Period{Start: date(2024, 7, 1), End: date(2024, 7, 14)}
	shifts := []models.Shift{
		{ID: "s1", EmpID: strPtr("e1"), Date: date(2024, 7, 6)}, // Saturday taken
		{ID: "s2", EmpID: nil, Date: date(2024, 7, 7), Type: ""},
		{ID: "s3", EmpID: nil, Date: date(2024, 8, 3)}, // outside the period
	}

	targets := Targets(period, shifts, "weekend")
	// 07-07 open slot, then the empty weekend days 07-13 and 07-14.
	require.Len(t, targets, 3)
	assert.Equal(t, date(2024, 7, 7), targets[0].Date)
	assert.Equal(t, "s2", targets[0].ShiftID)
	assert.Equal(t, "weekend", targets[0].Type)
	assert.Equal(t, date(2024, 7, 13), targets[1].Date)
	assert.Empty(t, targets[1].ShiftID)
	assert.Equal(t, date(2024, 7, 14), targets[2].Date)
}

func TestTargetsEmptyPeriod(t *testing.T) {
	period := models.Period{Start: date(2024, 7, 2), End: date(2024, 7, 1)}
	assert.Empty(t, Targets(period, nil, "weekend"))
}

func TestDistributePrefersLeastLoaded(t *testing.T) {
	employees := roster("e1", "e2", "e3")
	// Existing loads: e1=0, e2=2, e3=1.
	existing := []models.Shift{
		{ID: "s1", EmpID: strPtr("e2"), Date: date(2024, 6, 1)},
		{ID: "s2", EmpID: strPtr("e2"), Date: date(2024, 6, 8)},
		{ID: "s3", EmpID: strPtr("e3"), Date: date(2024, 6, 15)},
	}

	proposals := Distribute(weekendTargets(date(2024, 7, 6), date(2024, 7, 7)), employees, nil, existing)
	require.Len(t, proposals, 2)

	// First date goes to e1 (load 0 -> 1). Second date ties e1 and e3 at
	// load 1; the lowest ID wins.
	assert.Equal(t, "e1", proposals[0].EmpID)
	assert.Equal(t, date(2024, 7, 6), proposals[0].Date)
	assert.Equal(t, "e1", proposals[1].EmpID)

	for _, p := range proposals {
		assert.NotEqual(t, "e2", p.EmpID, "highest-loaded employee must not be picked while alternatives exist")
	}
}

func TestDistributeCountsBatchAssignments(t *testing.T) {
	employees := roster("e1", "e2")
	targets := weekendTargets(date(2024, 7, 6), date(2024, 7, 7), date(2024, 7, 13), date(2024, 7, 14))

	proposals := Distribute(targets, employees, nil, nil)
	require.Len(t, proposals, 4)
	// Alternates because each assignment bumps the load before the next date.
	assert.Equal(t, "e1", proposals[0].EmpID)
	assert.Equal(t, "e2", proposals[1].EmpID)
	assert.Equal(t, "e1", proposals[2].EmpID)
	assert.Equal(t, "e2", proposals[3].EmpID)
}

func TestDistributeSkipsDatesWithNoAvailability(t *testing.T) {
	employees := roster("e1", "e2")
	absences := []models.Absence{
		{ID: "a1", EmpID: "e1", Type: models.AbsenceTypeVacation, StartDate: date(2024, 7, 6), EndDate: date(2024, 7, 6)},
		{ID: "a2", EmpID: "e2", Type: models.AbsenceTypeShiftFree, StartDate: date(2024, 7, 6), EndDate: date(2024, 7, 6)},
	}

	proposals := Distribute(weekendTargets(date(2024, 7, 6), date(2024, 7, 7)), employees, absences, nil)
	require.Len(t, proposals, 1)
	assert.Equal(t, date(2024, 7, 7), proposals[0].Date)
}

func TestDistributeProcessesDatesInAscendingOrder(t *testing.T) {
	employees := roster("e1", "e2")
	// e1 is only available on the earlier date. Date order means the earlier
	// date is filled first and takes e1 even though it was listed last.
	absences := []models.Absence{
		{ID: "a1", EmpID: "e1", Type: models.AbsenceTypeVacation, StartDate: date(2024, 7, 7), EndDate: date(2024, 7, 7)},
	}
	targets := weekendTargets(date(2024, 7, 7), date(2024, 7, 6))

	proposals := Distribute(targets, employees, absences, nil)
	require.Len(t, proposals, 2)
	assert.Equal(t, date(2024, 7, 6), proposals[0].Date)
	assert.Equal(t, "e1", proposals[0].EmpID)
	assert.Equal(t, date(2024, 7, 7), proposals[1].Date)
	assert.Equal(t, "e2", proposals[1].EmpID)
}

func TestDistributeCarriesTargetShiftID(t *testing.T) {
	employees := roster("e1")
	targets := []Target{{Date: date(2024, 7, 6), ShiftID: "open-1", Type: "weekend"}}

	proposals := Distribute(targets, employees, nil, nil)
	require.Len(t, proposals, 1)
	assert.Equal(t, "open-1", proposals[0].ShiftID)
}

// Mirrors the full two-employee weekend scenario: A is on vacation both days,
// so B takes both shifts; there are no conflicts, and with a limit of zero
// each day produces one over-capacity warning.
func TestPlanningEndToEnd(t *testing.T) {
	employees := []models.Employee{
		{ID: "1", Name: "A", Active: true},
		{ID: "2", Name: "B", Active: true},
	}
	absences := []models.Absence{
		{ID: "a1", EmpID: "1", Type: models.AbsenceTypeVacation, StartDate: date(2024, 7, 6), EndDate: date(2024, 7, 7)},
	}
	period := models.Period{Start: date(2024, 7, 6), End: date(2024, 7, 7)}

	targets := Targets(period, nil, "weekend")
	require.Len(t, targets, 2)

	proposals := Distribute(targets, employees, absences, nil)
	require.Len(t, proposals, 2)
	for _, p := range proposals {
		assert.Equal(t, "2", p.EmpID)
	}

	shifts := make([]models.Shift, len(proposals))
	for i, p := range proposals {
		empID := p.EmpID
		shifts[i] = models.Shift{ID: p.Date.Format("2006-01-02"), EmpID: &empID, Date: p.Date, Type: p.Type}
	}

	loads := LoadCounts(employees, shifts)
	assert.Equal(t, 0, loads["1"])
	assert.Equal(t, 2, loads["2"])

	assert.Empty(t, FindConflicts(absences, shifts, employees))

	warnings := FindOverCapacityDays(period, employees, absences, 0)
	require.Len(t, warnings, 2)
	for _, w := range warnings {
		assert.Equal(t, 1, w.Count)
		assert.Equal(t, 0, w.Limit)
	}
}
