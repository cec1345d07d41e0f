package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkrogh/vagtplan-api/internal/models"
	appErrors "github.com/mkrogh/vagtplan-api/pkg/errors"
)

func TestAbsenceServiceCreate(t *testing.T) {
	repo := &mockAbsenceRepo{}
	employees := &mockEmployeeRepo{employees: rosterOf("e1")}
	cache := newMockBoardCache()
	svc := NewAbsenceService(repo, employees, cache, nil, nil)

	absence, err := svc.Create(context.Background(), CreateAbsenceRequest{
		EmpID:     "e1",
		Type:      "vacation",
		StartDate: "2024-07-01",
		EndDate:   "2024-07-05",
	})
	require.NoError(t, err)
	assert.Equal(t, models.AbsenceTypeVacation, absence.Type)
	assert.Equal(t, day(2024, 7, 1), absence.StartDate)
	assert.Equal(t, 1, cache.invalidations)
}

func TestAbsenceServiceCreateSingleDay(t *testing.T) {
	svc := NewAbsenceService(&mockAbsenceRepo{}, &mockEmployeeRepo{employees: rosterOf("e1")}, nil, nil, nil)
	absence, err := svc.Create(context.Background(), CreateAbsenceRequest{
		EmpID: "e1", Type: "shift_free", StartDate: "2024-07-06", EndDate: "2024-07-06",
	})
	require.NoError(t, err)
	assert.Equal(t, absence.StartDate, absence.EndDate)
}

func TestAbsenceServiceCreateRejectsInvertedRange(t *testing.T) {
	svc := NewAbsenceService(&mockAbsenceRepo{}, &mockEmployeeRepo{employees: rosterOf("e1")}, nil, nil, nil)
	_, err := svc.Create(context.Background(), CreateAbsenceRequest{
		EmpID: "e1", Type: "vacation", StartDate: "2024-07-05", EndDate: "2024-07-01",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestAbsenceServiceCreateRejectsUnknownType(t *testing.T) {
	svc := NewAbsenceService(&mockAbsenceRepo{}, &mockEmployeeRepo{employees: rosterOf("e1")}, nil, nil, nil)
	_, err := svc.Create(context.Background(), CreateAbsenceRequest{
		EmpID: "e1", Type: "sick", StartDate: "2024-07-01", EndDate: "2024-07-01",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestAbsenceServiceCreateRejectsUnknownEmployee(t *testing.T) {
	svc := NewAbsenceService(&mockAbsenceRepo{}, &mockEmployeeRepo{}, nil, nil, nil)
	_, err := svc.Create(context.Background(), CreateAbsenceRequest{
		EmpID: "ghost", Type: "vacation", StartDate: "2024-07-01", EndDate: "2024-07-01",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestAbsenceServiceListFiltersByWindow(t *testing.T) {
	repo := &mockAbsenceRepo{absences: []models.Absence{
		{ID: "a1", EmpID: "e1", Type: models.AbsenceTypeVacation, StartDate: day(2024, 7, 1), EndDate: day(2024, 7, 3)},
		{ID: "a2", EmpID: "e1", Type: models.AbsenceTypeVacation, StartDate: day(2024, 8, 1), EndDate: day(2024, 8, 3)},
	}}
	svc := NewAbsenceService(repo, &mockEmployeeRepo{}, nil, nil, nil)

	absences, err := svc.List(context.Background(), AbsenceListRequest{StartDate: "2024-07-01", EndDate: "2024-07-31"})
	require.NoError(t, err)
	require.Len(t, absences, 1)
	assert.Equal(t, "a1", absences[0].ID)
}

func TestAbsenceServiceDelete(t *testing.T) {
	repo := &mockAbsenceRepo{absences: []models.Absence{
		{ID: "a1", EmpID: "e1", Type: models.AbsenceTypeVacation, StartDate: day(2024, 7, 1), EndDate: day(2024, 7, 3)},
	}}
	svc := NewAbsenceService(repo, &mockEmployeeRepo{}, nil, nil, nil)

	require.NoError(t, svc.Delete(context.Background(), "a1"))

	err := svc.Delete(context.Background(), "a1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
