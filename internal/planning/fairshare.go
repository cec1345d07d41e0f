package planning

import (
	"sort"
	"time"

	"github.com/mkrogh/vagtplan-api/internal/models"
)

// Target is one date the fair-share planner should fill. ShiftID points at an
// existing open slot; when empty, applying the proposal creates a new shift.
type Target struct {
	Date    time.Time
	ShiftID string
	Type    string
}

// Targets collects the dates needing assignment inside the period: every open
// shift record, plus every weekend day with no shift record at all. A date
// carrying any shift, assigned or not, is never picked up by the weekend
// rule; open slots on it are targeted individually.
func Targets(period models.Period, shifts []models.Shift, defaultType string) []Target {
	days := EnumerateDays(period)
	if len(days) == 0 {
		return nil
	}
	start, end := days[0], days[len(days)-1]

	occupied := make(map[time.Time]bool)
	var targets []Target
	for _, s := range shifts {
		day := Day(s.Date)
		if day.Before(start) || day.After(end) {
			continue
		}
		occupied[day] = true
		if !s.Assigned() {
			t := Target{Date: day, ShiftID: s.ID, Type: s.Type}
			if t.Type == "" {
				t.Type = defaultType
			}
			targets = append(targets, t)
		}
	}

	for _, day := range days {
		if IsWeekend(day) && !occupied[day] {
			targets = append(targets, Target{Date: day, Type: defaultType})
		}
	}

	sort.SliceStable(targets, func(i, j int) bool {
		if !targets[i].Date.Equal(targets[j].Date) {
			return targets[i].Date.Before(targets[j].Date)
		}
		return targets[i].ShiftID < targets[j].ShiftID
	})
	return targets
}

// Distribute assigns each target date to the least-loaded available employee.
//
// The algorithm is a single-pass greedy heuristic and deliberately stays one:
// targets are filled in ascending date order, the load counter is bumped
// before the next date is considered, and there is no backtracking. A date
// filled early can use up the least-loaded employee even if a later date has
// fewer candidates; that behaviour is part of the contract. Ties on load go
// to the employee with the lowest ID. Dates where nobody is available are
// skipped, never failed.
func Distribute(targets []Target, employees []models.Employee, absences []models.Absence, existingShifts []models.Shift) []models.ProposedAssignment {
	loads := LoadCounts(employees, existingShifts)

	roster := make([]models.Employee, len(employees))
	copy(roster, employees)
	sort.Slice(roster, func(i, j int) bool { return roster[i].ID < roster[j].ID })

	ordered := make([]Target, len(targets))
	copy(ordered, targets)
	sort.SliceStable(ordered, func(i, j int) bool {
		return Day(ordered[i].Date).Before(Day(ordered[j].Date))
	})

	var proposals []models.ProposedAssignment
	for _, target := range ordered {
		var pick *models.Employee
		for i := range roster {
			e := &roster[i]
			if !IsAvailable(target.Date, e.ID, absences) {
				continue
			}
			if pick == nil || loads[e.ID] < loads[pick.ID] {
				pick = e
			}
		}
		if pick == nil {
			continue
		}

		proposals = append(proposals, models.ProposedAssignment{
			Date:    Day(target.Date),
			EmpID:   pick.ID,
			Type:    target.Type,
			ShiftID: target.ShiftID,
		})
		loads[pick.ID]++
	}
	return proposals
}
