package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/mkrogh/vagtplan-api/internal/models"
	appErrors "github.com/mkrogh/vagtplan-api/pkg/errors"
)

type absenceRepository interface {
	List(ctx context.Context, filter models.AbsenceFilter) ([]models.Absence, error)
	FindByID(ctx context.Context, id string) (*models.Absence, error)
	Create(ctx context.Context, absence *models.Absence) error
	Delete(ctx context.Context, id string) error
}

type employeeFinder interface {
	FindByID(ctx context.Context, id string) (*models.Employee, error)
}

// AbsenceService manages vacation and shift-free periods. Absences are
// immutable once registered; an edit is a delete followed by a recreate.
type AbsenceService struct {
	repo      absenceRepository
	employees employeeFinder
	cache     boardCacheInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAbsenceService constructs the service.
func NewAbsenceService(repo absenceRepository, employees employeeFinder, cache boardCacheInvalidator, validate *validator.Validate, logger *zap.Logger) *AbsenceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AbsenceService{repo: repo, employees: employees, cache: cache, validator: validate, logger: logger}
}

// AbsenceListRequest filters the absence listing.
type AbsenceListRequest struct {
	EmpID     string
	Type      string
	StartDate string
	EndDate   string
}

// CreateAbsenceRequest registers an absence period.
type CreateAbsenceRequest struct {
	EmpID     string `json:"emp_id" validate:"required"`
	Type      string `json:"type" validate:"required"`
	StartDate string `json:"start_date" validate:"required"`
	EndDate   string `json:"end_date" validate:"required"`
}

// List returns absences matching the filter. When a window is given only
// absences overlapping it are returned.
func (s *AbsenceService) List(ctx context.Context, req AbsenceListRequest) ([]models.Absence, error) {
	filter := models.AbsenceFilter{EmpID: req.EmpID}
	if req.Type != "" {
		at := models.AbsenceType(req.Type)
		if !at.Valid() {
			return nil, appErrors.Clone(appErrors.ErrValidation, "invalid absence type")
		}
		filter.Type = at
	}
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
	absences, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list absences")
	}
	return absences, nil
}

// Get returns an absence by id.
func (s *AbsenceService) Get(ctx context.Context, id string) (*models.Absence, error) {
	absence, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "absence not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to get absence")
	}
	return absence, nil
}

// Create registers an absence. The period is inclusive on both ends and a
// single day is expressed as start == end.
func (s *AbsenceService) Create(ctx context.Context, req CreateAbsenceRequest) (*models.Absence, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	absenceType := models.AbsenceType(req.Type)
	if !absenceType.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid absence type")
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
	if _, err := s.employees.FindByID(ctx, req.EmpID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "employee not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to verify employee")
	}

	absence := &models.Absence{
		EmpID:     req.EmpID,
		Type:      absenceType,
		StartDate: start,
		EndDate:   end,
	}
	if err := s.repo.Create(ctx, absence); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create absence")
	}
	s.invalidateBoards(ctx)
	return absence, nil
}

// Delete removes an absence.
func (s *AbsenceService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "absence not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete absence")
	}
	s.invalidateBoards(ctx)
	return nil
}

func (s *AbsenceService) invalidateBoards(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateBoards(ctx); err != nil {
		s.logger.Warn("board cache invalidation failed", zap.Error(err))
	}
}
