package service

import (
	"context"
	"errors"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mkrogh/vagtplan-api/internal/dto"
	"github.com/mkrogh/vagtplan-api/internal/models"
	"github.com/mkrogh/vagtplan-api/internal/planning"
	"github.com/mkrogh/vagtplan-api/internal/repository"
	appErrors "github.com/mkrogh/vagtplan-api/pkg/errors"
	"github.com/mkrogh/vagtplan-api/pkg/jobs"
)

type batchEnqueuer interface {
	Enqueue(job jobs.Job) error
}

type distributionMetrics interface {
	RecordDistribution(applied, skipped int)
}

// DistributePayload is the job payload for an async apply run.
type DistributePayload struct {
	BatchID   string `json:"batch_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// DistributionService runs the fair-share planner. Preview is a pure
// computation on a snapshot; Apply commits proposals one by one, re-checking
// each slot right before the write so stale proposals degrade to skips
// instead of double bookings. Applies are serialized: inline runs take the
// mutex and async runs funnel through a single-consumer queue whose handler
// takes the same mutex.
type DistributionService struct {
	employees employeeRosterSource
	absences  absenceRepository
	shifts    shiftRepository
	cache     boardCacheInvalidator
	queue     batchEnqueuer
	metrics   distributionMetrics

	defaultType string
	validator   *validator.Validate
	logger      *zap.Logger

	applyMu sync.Mutex
}

// NewDistributionService constructs the service. defaultType is the shift
// type stamped on planner-created shifts.
func NewDistributionService(employees employeeRosterSource, absences absenceRepository, shifts shiftRepository, cache boardCacheInvalidator, queue batchEnqueuer, metrics distributionMetrics, defaultType string, validate *validator.Validate, logger *zap.Logger) *DistributionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DistributionService{
		employees:   employees,
		absences:    absences,
		shifts:      shifts,
		cache:       cache,
		queue:       queue,
		metrics:     metrics,
		defaultType: defaultType,
		validator:   validate,
		logger:      logger,
	}
}

// Run executes a distribution request: preview only, inline apply, or an
// enqueued async apply.
func (s *DistributionService) Run(ctx context.Context, req dto.DistributeRequest) (*dto.DistributeResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	start, err := parseDay(req.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := parseDay(req.EndDate)
	if err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end date before start date")
	}

	if !req.Apply {
		proposals, err := s.preview(ctx, req.StartDate, req.EndDate)
		if err != nil {
			return nil, err
		}
		return &dto.DistributeResponse{Proposals: proposals}, nil
	}

	if req.Async {
		batchID := uuid.NewString()
		job := jobs.Job{
			ID:      batchID,
			Type:    "distribute",
			Payload: DistributePayload{BatchID: batchID, StartDate: req.StartDate, EndDate: req.EndDate},
		}
		if err := s.queue.Enqueue(job); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enqueue distribution")
		}
		return &dto.DistributeResponse{BatchID: batchID, Proposals: []dto.ProposedAssignment{}, Queued: true}, nil
	}

	return s.apply(ctx, uuid.NewString(), req.StartDate, req.EndDate)
}

// HandleJob is the queue handler for async apply runs.
func (s *DistributionService) HandleJob(ctx context.Context, job jobs.Job) error {
	payload, ok := job.Payload.(DistributePayload)
	if !ok {
		s.logger.Error("unexpected distribution payload", zap.String("job_id", job.ID))
		return nil
	}
	resp, err := s.apply(ctx, payload.BatchID, payload.StartDate, payload.EndDate)
	if err != nil {
		return err
	}
	s.logger.Info("distribution batch applied",
		zap.String("batch_id", payload.BatchID),
		zap.Int("applied", resp.Applied),
		zap.Int("skipped", resp.Skipped))
	return nil
}

// preview computes the fair-share proposals for the period without writing.
func (s *DistributionService) preview(ctx context.Context, startDate, endDate string) ([]dto.ProposedAssignment, error) {
	snap, err := s.loadSnapshot(ctx, startDate, endDate)
	if err != nil {
		return nil, err
	}
	targets := planning.Targets(snap.period, snap.shifts, s.defaultType)
	proposals := planning.Distribute(targets, snap.employees, snap.absences, snap.shifts)

	out := make([]dto.ProposedAssignment, 0, len(proposals))
	for _, p := range proposals {
		out = append(out, dto.ProposedAssignment{
			Date:    p.Date.Format(dayFormat),
			EmpID:   p.EmpID,
			Type:    p.Type,
			ShiftID: p.ShiftID,
		})
	}
	return out, nil
}

// apply recomputes proposals on a fresh snapshot and commits them one by one.
// Each write re-checks the world right before it happens: the employee must
// still be shift-free on the day, and an open slot must still be open. Any
// failed re-check turns that proposal into a skip.
func (s *DistributionService) apply(ctx context.Context, batchID, startDate, endDate string) (*dto.DistributeResponse, error) {
	s.applyMu.Lock()
	defer s.applyMu.Unlock()

	snap, err := s.loadSnapshot(ctx, startDate, endDate)
	if err != nil {
		return nil, err
	}
	targets := planning.Targets(snap.period, snap.shifts, s.defaultType)
	proposals := planning.Distribute(targets, snap.employees, snap.absences, snap.shifts)

	resp := &dto.DistributeResponse{BatchID: batchID, Proposals: make([]dto.ProposedAssignment, 0, len(proposals))}
	for _, p := range proposals {
		resp.Proposals = append(resp.Proposals, dto.ProposedAssignment{
			Date:    p.Date.Format(dayFormat),
			EmpID:   p.EmpID,
			Type:    p.Type,
			ShiftID: p.ShiftID,
		})

		taken, err := s.shifts.ExistsOnDate(ctx, p.Date, p.EmpID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to re-check shift slot")
		}
		if taken {
			resp.Skipped++
			continue
		}

		if p.ShiftID != "" {
			err = s.shifts.Assign(ctx, p.ShiftID, p.EmpID)
			if errors.Is(err, repository.ErrSlotTaken) {
				resp.Skipped++
				continue
			}
		} else {
			empID := p.EmpID
			err = s.shifts.Create(ctx, &models.Shift{EmpID: &empID, Date: p.Date, Type: p.Type})
		}
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit assignment")
		}
		resp.Applied++
	}

	if s.metrics != nil {
		s.metrics.RecordDistribution(resp.Applied, resp.Skipped)
	}
	if s.cache != nil {
		if err := s.cache.InvalidateBoards(ctx); err != nil {
			s.logger.Warn("board cache invalidation failed", zap.Error(err))
		}
	}
	return resp, nil
}

func (s *DistributionService) loadSnapshot(ctx context.Context, startDate, endDate string) (*snapshot, error) {
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
