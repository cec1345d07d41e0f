package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/mkrogh/vagtplan-api/internal/models"
	appErrors "github.com/mkrogh/vagtplan-api/pkg/errors"
)

type employeeRepository interface {
	List(ctx context.Context, filter models.EmployeeFilter) ([]models.Employee, int, error)
	ListActive(ctx context.Context) ([]models.Employee, error)
	FindByID(ctx context.Context, id string) (*models.Employee, error)
	Create(ctx context.Context, employee *models.Employee) error
	Update(ctx context.Context, employee *models.Employee) error
	Deactivate(ctx context.Context, id string) error
}

// EmployeeService manages the roster.
type EmployeeService struct {
	repo      employeeRepository
	cache     boardCacheInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewEmployeeService constructs the service.
func NewEmployeeService(repo employeeRepository, cache boardCacheInvalidator, validate *validator.Validate, logger *zap.Logger) *EmployeeService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EmployeeService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// EmployeeListRequest describes filters for listing the roster.
type EmployeeListRequest struct {
	Active   *bool
	Search   string
	Page     int
	PageSize int
}

// CreateEmployeeRequest describes the create payload.
type CreateEmployeeRequest struct {
	Name string `json:"name" validate:"required"`
}

// UpdateEmployeeRequest describes the update payload.
type UpdateEmployeeRequest struct {
	Name   string `json:"name" validate:"required"`
	Active *bool  `json:"active"`
}

// List returns roster entries.
func (s *EmployeeService) List(ctx context.Context, req EmployeeListRequest) ([]models.Employee, *models.Pagination, error) {
	filter := models.EmployeeFilter{
		Active:   req.Active,
		Search:   req.Search,
		Page:     req.Page,
		PageSize: req.PageSize,
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 50
	}
	employees, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list employees")
	}
	pagination := &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}
	return employees, pagination, nil
}

// Get returns an employee by id.
func (s *EmployeeService) Get(ctx context.Context, id string) (*models.Employee, error) {
	employee, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "employee not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to get employee")
	}
	return employee, nil
}

// Create registers a roster member.
func (s *EmployeeService) Create(ctx context.Context, req CreateEmployeeRequest) (*models.Employee, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	employee := &models.Employee{Name: req.Name, Active: true}
	if err := s.repo.Create(ctx, employee); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create employee")
	}
	s.invalidateBoards(ctx)
	return employee, nil
}

// Update modifies a roster member.
func (s *EmployeeService) Update(ctx context.Context, id string, req UpdateEmployeeRequest) (*models.Employee, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	employee, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "employee not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load employee")
	}
	employee.Name = req.Name
	if req.Active != nil {
		employee.Active = *req.Active
	}
	if err := s.repo.Update(ctx, employee); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update employee")
	}
	s.invalidateBoards(ctx)
	return employee, nil
}

// Deactivate removes an employee from future planning. Historical absence
// and shift records stay untouched.
func (s *EmployeeService) Deactivate(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to deactivate employee")
	}
	s.invalidateBoards(ctx)
	return nil
}

func (s *EmployeeService) invalidateBoards(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateBoards(ctx); err != nil {
		s.logger.Warn("board cache invalidation failed", zap.Error(err))
	}
}

// dayFormat is the wire format for plain calendar dates.
const dayFormat = "2006-01-02"

func parseDay(raw string) (time.Time, error) {
	parsed, err := time.Parse(dayFormat, raw)
	if err != nil {
		return time.Time{}, appErrors.Clone(appErrors.ErrValidation, "invalid date, expected YYYY-MM-DD")
	}
	return parsed.UTC(), nil
}
