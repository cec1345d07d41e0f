package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/mkrogh/vagtplan-api/internal/models"
	"github.com/mkrogh/vagtplan-api/internal/repository"
	appErrors "github.com/mkrogh/vagtplan-api/pkg/errors"
)

type shiftRepository interface {
	List(ctx context.Context, filter models.ShiftFilter) ([]models.Shift, error)
	FindByID(ctx context.Context, id string) (*models.Shift, error)
	ExistsOnDate(ctx context.Context, date time.Time, empID string) (bool, error)
	Create(ctx context.Context, shift *models.Shift) error
	Assign(ctx context.Context, id, empID string) error
	Delete(ctx context.Context, id string) error
}

// ShiftService manages shift records, both assigned and open slots.
type ShiftService struct {
	repo      shiftRepository
	employees employeeFinder
	cache     boardCacheInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewShiftService constructs the service.
func NewShiftService(repo shiftRepository, employees employeeFinder, cache boardCacheInvalidator, validate *validator.Validate, logger *zap.Logger) *ShiftService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ShiftService{repo: repo, employees: employees, cache: cache, validator: validate, logger: logger}
}

// ShiftListRequest filters the shift listing.
type ShiftListRequest struct {
	EmpID     string
	Assigned  *bool
	StartDate string
	EndDate   string
}

// CreateShiftRequest registers a shift. EmpID empty creates an open slot.
type CreateShiftRequest struct {
	EmpID string `json:"emp_id"`
	Date  string `json:"date" validate:"required"`
	Type  string `json:"type" validate:"required"`
}

// AssignShiftRequest claims an open slot for an employee.
type AssignShiftRequest struct {
	EmpID string `json:"emp_id" validate:"required"`
}

// List returns shifts matching the filter.
func (s *ShiftService) List(ctx context.Context, req ShiftListRequest) ([]models.Shift, error) {
	filter := models.ShiftFilter{EmpID: req.EmpID, Assigned: req.Assigned}
	if req.StartDate != "" {
		from, err := parseDay(req.StartDate)
		if err != nil {
			return nil, err
		}
		filter.From = &from
	}
	if req.EndDate != "" {
		to, err := parseDay(req.EndDate)
		if err != nil {
			return nil, err
		}
		filter.To = &to
	}
	shifts, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list shifts")
	}
	return shifts, nil
}

// Get returns a shift by id.
func (s *ShiftService) Get(ctx context.Context, id string) (*models.Shift, error) {
	shift, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "shift not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to get shift")
	}
	return shift, nil
}

// Create registers a shift. An employee can hold at most one shift per day,
// so an assigned create on a date the employee already works is rejected.
func (s *ShiftService) Create(ctx context.Context, req CreateShiftRequest) (*models.Shift, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	date, err := parseDay(req.Date)
	if err != nil {
		return nil, err
	}

	shift := &models.Shift{Date: date, Type: req.Type}
	if req.EmpID != "" {
		if _, err := s.employees.FindByID(ctx, req.EmpID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "employee not found")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to verify employee")
		}
		exists, err := s.repo.ExistsOnDate(ctx, date, req.EmpID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check existing shifts")
		}
		if exists {
			return nil, appErrors.Clone(appErrors.ErrConflict, "employee already has a shift on this date")
		}
		empID := req.EmpID
		shift.EmpID = &empID
	}

	if err := s.repo.Create(ctx, shift); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create shift")
	}
	s.invalidateBoards(ctx)
	return shift, nil
}

// Assign claims an open slot for an employee. The repository guard keeps
// two concurrent claims on the same slot from both succeeding.
func (s *ShiftService) Assign(ctx context.Context, id string, req AssignShiftRequest) (*models.Shift, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	shift, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if shift.Assigned() {
		return nil, appErrors.Clone(appErrors.ErrConflict, "shift is already assigned")
	}
	if _, err := s.employees.FindByID(ctx, req.EmpID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "employee not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to verify employee")
	}
	exists, err := s.repo.ExistsOnDate(ctx, shift.Date, req.EmpID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check existing shifts")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "employee already has a shift on this date")
	}

	if err := s.repo.Assign(ctx, id, req.EmpID); err != nil {
		if errors.Is(err, repository.ErrSlotTaken) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "shift was claimed by another request")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to assign shift")
	}
	s.invalidateBoards(ctx)
	return s.Get(ctx, id)
}

// Delete removes a shift record.
func (s *ShiftService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "shift not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete shift")
	}
	s.invalidateBoards(ctx)
	return nil
}

func (s *ShiftService) invalidateBoards(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateBoards(ctx); err != nil {
		s.logger.Warn("board cache invalidation failed", zap.Error(err))
	}
}
