package planning

import (
	"sort"
	"time"

	"github.com/mkrogh/vagtplan-api/internal/models"
)

// Covers reports whether the absence range includes the given day. Both ends
// are inclusive; an inverted range covers nothing.
func Covers(a models.Absence, date time.Time) bool {
	d := Day(date)
	return !d.Before(Day(a.StartDate)) && !d.After(Day(a.EndDate))
}

// AbsenceOn returns the absence covering date for the employee, or nil.
// When several absences overlap the same day the pick is deterministic:
// earliest start wins, then lowest ID.
func AbsenceOn(date time.Time, empID string, absences []models.Absence) *models.Absence {
	var match *models.Absence
	for i := range absences {
		a := &absences[i]
		if a.EmpID != empID || !Covers(*a, date) {
			continue
		}
		if match == nil {
			match = a
			continue
		}
		as, ms := Day(a.StartDate), Day(match.StartDate)
		if as.Before(ms) || (as.Equal(ms) && a.ID < match.ID) {
			match = a
		}
	}
	return match
}

// ShiftOn returns the shift assigned to the employee on the given day, or nil.
func ShiftOn(date time.Time, empID string, shifts []models.Shift) *models.Shift {
	for i := range shifts {
		s := &shifts[i]
		if s.Assigned() && *s.EmpID == empID && SameDay(s.Date, date) {
			return s
		}
	}
	return nil
}

// IsAvailable reports whether the employee can take a shift on the given day.
// Any covering absence blocks availability, vacation and shift_free alike:
// assigning a shift during either defeats the purpose of the wish.
func IsAvailable(date time.Time, empID string, absences []models.Absence) bool {
	for i := range absences {
		if absences[i].EmpID == empID && Covers(absences[i], date) {
			return false
		}
	}
	return true
}

// FindConflicts pairs every assigned shift with an absence covering its date
// for the same employee. A dangling emp_id still conflicts; its employee name
// is simply left empty. Results are ordered by shift date, then employee
// name, then shift ID, so output is stable for rendering and tests.
func FindConflicts(absences []models.Absence, shifts []models.Shift, employees []models.Employee) []models.Conflict {
	names := make(map[string]string, len(employees))
	for _, e := range employees {
		names[e.ID] = e.Name
	}

	var conflicts []models.Conflict
	for _, s := range shifts {
		if !s.Assigned() {
			continue
		}
		a := AbsenceOn(s.Date, *s.EmpID, absences)
		if a == nil {
			continue
		}
		conflicts = append(conflicts, models.Conflict{
			Shift:        s,
			Absence:      *a,
			EmployeeName: names[*s.EmpID],
		})
	}

	sort.SliceStable(conflicts, func(i, j int) bool {
		di, dj := Day(conflicts[i].Shift.Date), Day(conflicts[j].Shift.Date)
		if !di.Equal(dj) {
			return di.Before(dj)
		}
		if conflicts[i].EmployeeName != conflicts[j].EmployeeName {
			return conflicts[i].EmployeeName < conflicts[j].EmployeeName
		}
		return conflicts[i].Shift.ID < conflicts[j].Shift.ID
	})
	return conflicts
}

// FindOverCapacityDays emits one warning for each day of the period on which
// more employees have a covering vacation absence than maxAway allows.
// Only vacation counts; shift_free wishes do not keep anyone off work.
// Results ascend by date.
func FindOverCapacityDays(period models.Period, employees []models.Employee, absences []models.Absence, maxAway int) []models.Warning {
	var warnings []models.Warning
	for _, day := range EnumerateDays(period) {
		count := 0
		for _, e := range employees {
			if onVacation(day, e.ID, absences) {
				count++
			}
		}
		if count > maxAway {
			warnings = append(warnings, models.Warning{Date: day, Count: count, Limit: maxAway})
		}
	}
	return warnings
}

func onVacation(date time.Time, empID string, absences []models.Absence) bool {
	for i := range absences {
		a := &absences[i]
		if a.EmpID == empID && a.Type == models.AbsenceTypeVacation && Covers(*a, date) {
			return true
		}
	}
	return false
}

// LoadCounts tallies assigned shifts per employee. Every roster member gets
// an entry, zero included. A second shift for the same employee on the same
// day is a duplicate and is not counted twice.
func LoadCounts(employees []models.Employee, shifts []models.Shift) map[string]int {
	counts := make(map[string]int, len(employees))
	for _, e := range employees {
		counts[e.ID] = 0
	}

	type slot struct {
		empID string
		day   time.Time
	}
	seen := make(map[slot]bool, len(shifts))
	for _, s := range shifts {
		if !s.Assigned() {
			continue
		}
		if _, ok := counts[*s.EmpID]; !ok {
			// Dangling reference: counted nowhere, tolerated.
			continue
		}
		key := slot{empID: *s.EmpID, day: Day(s.Date)}
		if seen[key] {
			continue
		}
		seen[key] = true
		counts[*s.EmpID]++
	}
	return counts
}
