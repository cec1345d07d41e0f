package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mkrogh/vagtplan-api/internal/dto"
	"github.com/mkrogh/vagtplan-api/internal/models"
	"github.com/mkrogh/vagtplan-api/internal/planning"
	appErrors "github.com/mkrogh/vagtplan-api/pkg/errors"
)

// boardCacheInvalidator drops cached board payloads after a write. Every
// service that mutates employees, absences or shifts carries one.
type boardCacheInvalidator interface {
	InvalidateBoards(ctx context.Context) error
}

type boardCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

type cacheMetrics interface {
	RecordCacheHit()
	RecordCacheMiss()
}

const boardCacheKeyPrefix = "vagtplan:board:"

// PlanningService produces the read-side planning views: the calendar board,
// conflicts, over-capacity warnings, availability and shift loads. All
// computation runs on in-memory snapshots loaded per request; only the board
// payload is cached.
type PlanningService struct {
	employees employeeRosterSource
	absences  absenceRepository
	shifts    shiftRepository
	cache     boardCache
	metrics   cacheMetrics
	maxAway   int
	cacheTTL  time.Duration
	logger    *zap.Logger
}

type employeeRosterSource interface {
	ListActive(ctx context.Context) ([]models.Employee, error)
}

// NewPlanningService constructs the service. maxAway is the over-capacity
// threshold; cacheTTL bounds board cache staleness.
func NewPlanningService(employees employeeRosterSource, absences absenceRepository, shifts shiftRepository, cache boardCache, metrics cacheMetrics, maxAway int, cacheTTL time.Duration, logger *zap.Logger) *PlanningService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PlanningService{
		employees: employees,
		absences:  absences,
		shifts:    shifts,
		cache:     cache,
		metrics:   metrics,
		maxAway:   maxAway,
		cacheTTL:  cacheTTL,
		logger:    logger,
	}
}

// InvalidateBoards drops every cached board payload.
func (s *PlanningService) InvalidateBoards(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.DeleteByPattern(ctx, boardCacheKeyPrefix+"*")
}

// snapshot is the in-memory working set for one planning window.
type snapshot struct {
	period    models.Period
	employees []models.Employee
	absences  []models.Absence
	shifts    []models.Shift
}

func (s *PlanningService) load(ctx context.Context, startDate, endDate string) (*snapshot, error) {
	start, err := parseDay(startDate)
	if err != nil {
		return nil, err
	}
	end, err := parseDay(endDate)
	if err != nil {
		return nil, err
	}
	period := models.Period{Start: planning.Day(start), End: planning.Day(end)}

	employees, err := s.employees.ListActive(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load roster")
	}
	absences, err := s.absences.List(ctx, models.AbsenceFilter{From: &period.Start, To: &period.End})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load absences")
	}
	shifts, err := s.shifts.List(ctx, models.ShiftFilter{From: &period.Start, To: &period.End})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load shifts")
	}

	return &snapshot{period: period, employees: employees, absences: absences, shifts: shifts}, nil
}

// Board renders the calendar matrix for the period: one column per day, one
// row per active employee, with conflicts and warnings folded in. maxAway nil
// falls back to the configured threshold. The result is cached per period and
// threshold until the next write.
func (s *PlanningService) Board(ctx context.Context, startDate, endDate string, maxAway *int) (*dto.BoardResponse, error) {
	limit := s.maxAway
	if maxAway != nil {
		limit = *maxAway
	}
	cacheKey := fmt.Sprintf("%s%s:%s:%d", boardCacheKeyPrefix, startDate, endDate, limit)
	if s.cache != nil {
		var cached dto.BoardResponse
		err := s.cache.Get(ctx, cacheKey, &cached)
		if err == nil {
			if s.metrics != nil {
				s.metrics.RecordCacheHit()
			}
			return &cached, nil
		}
		if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("board cache read failed", zap.Error(err))
		}
		if s.metrics != nil {
			s.metrics.RecordCacheMiss()
		}
	}

	snap, err := s.load(ctx, startDate, endDate)
	if err != nil {
		return nil, err
	}
	board := s.buildBoard(snap, limit)

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, board, s.cacheTTL); err != nil {
			s.logger.Warn("board cache write failed", zap.Error(err))
		}
	}
	return board, nil
}

func (s *PlanningService) buildBoard(snap *snapshot, maxAway int) *dto.BoardResponse {
	days := planning.EnumerateDays(snap.period)
	conflicts := planning.FindConflicts(snap.absences, snap.shifts, snap.employees)
	warnings := planning.FindOverCapacityDays(snap.period, snap.employees, snap.absences, maxAway)
	loads := planning.LoadCounts(snap.employees, snap.shifts)

	conflictShifts := make(map[string]bool, len(conflicts))
	for _, c := range conflicts {
		conflictShifts[c.Shift.ID] = true
	}

	board := &dto.BoardResponse{
		Days:       make([]dto.BoardDay, 0, len(days)),
		Rows:       make([]dto.BoardRow, 0, len(snap.employees)),
		AwayCounts: make([]int, 0, len(days)),
		Conflicts:  make([]dto.Conflict, 0, len(conflicts)),
		Warnings:   make([]dto.Warning, 0, len(warnings)),
		MaxAway:    maxAway,
	}

	for _, day := range days {
		board.Days = append(board.Days, dto.BoardDay{Date: day.Format(dayFormat), Weekend: planning.IsWeekend(day)})
		away := 0
		for _, e := range snap.employees {
			if a := planning.AbsenceOn(day, e.ID, snap.absences); a != nil && a.Type == models.AbsenceTypeVacation {
				away++
			}
		}
		board.AwayCounts = append(board.AwayCounts, away)
	}

	for _, e := range snap.employees {
		row := dto.BoardRow{
			EmpID:      e.ID,
			Name:       e.Name,
			ShiftCount: loads[e.ID],
			Cells:      make([]dto.BoardCell, 0, len(days)),
		}
		for _, day := range days {
			cell := dto.BoardCell{Date: day.Format(dayFormat)}
			if shift := planning.ShiftOn(day, e.ID, snap.shifts); shift != nil {
				cell.ShiftID = shift.ID
				cell.Status = "shift"
				if conflictShifts[shift.ID] {
					cell.Status = "conflict"
				}
			} else if absence := planning.AbsenceOn(day, e.ID, snap.absences); absence != nil {
				cell.Status = string(absence.Type)
			}
			row.Cells = append(row.Cells, cell)
		}
		board.Rows = append(board.Rows, row)
	}

	for _, c := range conflicts {
		board.Conflicts = append(board.Conflicts, conflictDTO(c))
	}
	for _, w := range warnings {
		board.Warnings = append(board.Warnings, dto.Warning{Date: w.Date.Format(dayFormat), Count: w.Count, Limit: w.Limit})
	}
	return board
}

// Conflicts lists shift/absence collisions inside the period.
func (s *PlanningService) Conflicts(ctx context.Context, startDate, endDate string) ([]dto.Conflict, error) {
	snap, err := s.load(ctx, startDate, endDate)
	if err != nil {
		return nil, err
	}
	found := planning.FindConflicts(snap.absences, snap.shifts, snap.employees)
	out := make([]dto.Conflict, 0, len(found))
	for _, c := range found {
		out = append(out, conflictDTO(c))
	}
	return out, nil
}

// Warnings lists days where more employees are on vacation than allowed.
// maxAway nil falls back to the configured threshold.
func (s *PlanningService) Warnings(ctx context.Context, startDate, endDate string, maxAway *int) ([]dto.Warning, error) {
	limit := s.maxAway
	if maxAway != nil {
		limit = *maxAway
	}
	snap, err := s.load(ctx, startDate, endDate)
	if err != nil {
		return nil, err
	}
	found := planning.FindOverCapacityDays(snap.period, snap.employees, snap.absences, limit)
	out := make([]dto.Warning, 0, len(found))
	for _, w := range found {
		out = append(out, dto.Warning{Date: w.Date.Format(dayFormat), Count: w.Count, Limit: w.Limit})
	}
	return out, nil
}

// AvailableEmployees returns the active employees free to take a shift on the
// given day, in ascending ID order.
func (s *PlanningService) AvailableEmployees(ctx context.Context, date string) ([]models.Employee, error) {
	day, err := parseDay(date)
	if err != nil {
		return nil, err
	}
	day = planning.Day(day)

	employees, err := s.employees.ListActive(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load roster")
	}
	absences, err := s.absences.List(ctx, models.AbsenceFilter{From: &day, To: &day})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load absences")
	}

	available := make([]models.Employee, 0, len(employees))
	for _, e := range employees {
		if planning.IsAvailable(day, e.ID, absences) {
			available = append(available, e)
		}
	}
	return available, nil
}

// ShiftLoads reports assigned-shift counts per active employee over the
// period, zeroes included.
func (s *PlanningService) ShiftLoads(ctx context.Context, startDate, endDate string) ([]dto.EmployeeLoad, error) {
	snap, err := s.load(ctx, startDate, endDate)
	if err != nil {
		return nil, err
	}
	counts := planning.LoadCounts(snap.employees, snap.shifts)
	loads := make([]dto.EmployeeLoad, 0, len(snap.employees))
	for _, e := range snap.employees {
		loads = append(loads, dto.EmployeeLoad{EmpID: e.ID, Name: e.Name, ShiftCount: counts[e.ID]})
	}
	return loads, nil
}

func conflictDTO(c models.Conflict) dto.Conflict {
	empID := ""
	if c.Shift.EmpID != nil {
		empID = *c.Shift.EmpID
	}
	return dto.Conflict{
		ShiftID:      c.Shift.ID,
		AbsenceID:    c.Absence.ID,
		EmpID:        empID,
		EmployeeName: c.EmployeeName,
		Date:         planning.Day(c.Shift.Date).Format(dayFormat),
		AbsenceType:  string(c.Absence.Type),
	}
}
