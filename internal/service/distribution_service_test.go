package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkrogh/vagtplan-api/internal/dto"
	"github.com/mkrogh/vagtplan-api/internal/models"
	"github.com/mkrogh/vagtplan-api/pkg/jobs"
)

func newDistributionService(employees *mockEmployeeRepo, absences *mockAbsenceRepo, shifts *mockShiftRepo, queue batchEnqueuer) *DistributionService {
	return NewDistributionService(employees, absences, shifts, newMockBoardCache(), queue, nil, "weekend", nil, nil)
}

func TestDistributionPreviewDoesNotWrite(t *testing.T) {
	employees := &mockEmployeeRepo{employees: rosterOf("e1", "e2")}
	shifts := &mockShiftRepo{}
	svc := newDistributionService(employees, &mockAbsenceRepo{}, shifts, &mockEnqueuer{})

	// 2024-07-06/07 is a weekend; both days are open targets.
	resp, err := svc.Run(context.Background(), dto.DistributeRequest{StartDate: "2024-07-01", EndDate: "2024-07-07"})
	require.NoError(t, err)
	require.Len(t, resp.Proposals, 2)
	assert.Zero(t, resp.Applied)
	assert.Empty(t, shifts.shifts, "preview must not create shifts")

	// Batch alternation: loads update between the two days.
	assert.Equal(t, "e1", resp.Proposals[0].EmpID)
	assert.Equal(t, "e2", resp.Proposals[1].EmpID)
}

func TestDistributionApplyCreatesWeekendShifts(t *testing.T) {
	employees := &mockEmployeeRepo{employees: rosterOf("e1", "e2")}
	shifts := &mockShiftRepo{}
	svc := newDistributionService(employees, &mockAbsenceRepo{}, shifts, &mockEnqueuer{})

	resp, err := svc.Run(context.Background(), dto.DistributeRequest{StartDate: "2024-07-01", EndDate: "2024-07-07", Apply: true})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Applied)
	assert.Zero(t, resp.Skipped)
	assert.NotEmpty(t, resp.BatchID)
	require.Len(t, shifts.shifts, 2)
	assert.Equal(t, "weekend", shifts.shifts[0].Type)
}

func TestDistributionApplyFillsOpenSlot(t *testing.T) {
	employees := &mockEmployeeRepo{employees: rosterOf("e1")}
	shifts := &mockShiftRepo{shifts: []models.Shift{
		{ID: "s1", Date: day(2024, 7, 6), Type: "weekend"},
	}}
	svc := newDistributionService(employees, &mockAbsenceRepo{}, shifts, &mockEnqueuer{})

	resp, err := svc.Run(context.Background(), dto.DistributeRequest{StartDate: "2024-07-06", EndDate: "2024-07-06", Apply: true})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Applied)
	assert.Equal(t, []string{"s1"}, shifts.assigns)
	// The slot is filled, no extra shift created.
	assert.Len(t, shifts.shifts, 1)
}

func TestDistributionApplySkipsUnavailableDates(t *testing.T) {
	employees := &mockEmployeeRepo{employees: rosterOf("e1")}
	absences := &mockAbsenceRepo{absences: []models.Absence{
		{ID: "a1", EmpID: "e1", Type: models.AbsenceTypeShiftFree, StartDate: day(2024, 7, 6), EndDate: day(2024, 7, 6)},
	}}
	shifts := &mockShiftRepo{}
	svc := newDistributionService(employees, absences, shifts, &mockEnqueuer{})

	resp, err := svc.Run(context.Background(), dto.DistributeRequest{StartDate: "2024-07-06", EndDate: "2024-07-07", Apply: true})
	require.NoError(t, err)
	// Saturday has no available employee and is silently dropped; Sunday lands.
	assert.Equal(t, 1, resp.Applied)
	require.Len(t, shifts.shifts, 1)
	assert.Equal(t, "2024-07-07", resp.Proposals[0].Date)
}

func TestDistributionAsyncEnqueuesBatch(t *testing.T) {
	queue := &mockEnqueuer{}
	svc := newDistributionService(&mockEmployeeRepo{employees: rosterOf("e1")}, &mockAbsenceRepo{}, &mockShiftRepo{}, queue)

	resp, err := svc.Run(context.Background(), dto.DistributeRequest{StartDate: "2024-07-01", EndDate: "2024-07-07", Apply: true, Async: true})
	require.NoError(t, err)
	assert.True(t, resp.Queued)
	assert.NotEmpty(t, resp.BatchID)
	require.Len(t, queue.jobs, 1)

	payload, ok := queue.jobs[0].Payload.(DistributePayload)
	require.True(t, ok)
	assert.Equal(t, resp.BatchID, payload.BatchID)
	assert.Equal(t, "2024-07-01", payload.StartDate)
}

func TestDistributionHandleJobApplies(t *testing.T) {
	shifts := &mockShiftRepo{}
	svc := newDistributionService(&mockEmployeeRepo{employees: rosterOf("e1")}, &mockAbsenceRepo{}, shifts, &mockEnqueuer{})

	job := jobs.Job{ID: "b1", Type: "distribute", Payload: DistributePayload{BatchID: "b1", StartDate: "2024-07-06", EndDate: "2024-07-07"}}
	require.NoError(t, svc.HandleJob(context.Background(), job))
	assert.Len(t, shifts.shifts, 2)
}

func TestDistributionApplyRecheckSkipsStaleProposal(t *testing.T) {
	employees := &mockEmployeeRepo{employees: rosterOf("e1")}
	e1 := "e1"
	// e1 already works the Saturday even though the slot s1 is still open, as
	// if another writer landed between snapshot and commit.
	shifts := &mockShiftRepo{shifts: []models.Shift{
		{ID: "s1", Date: day(2024, 7, 6), Type: "weekend"},
		{ID: "s2", EmpID: &e1, Date: day(2024, 7, 6), Type: "weekend"},
	}}
	svc := newDistributionService(employees, &mockAbsenceRepo{}, shifts, &mockEnqueuer{})

	resp, err := svc.Run(context.Background(), dto.DistributeRequest{StartDate: "2024-07-06", EndDate: "2024-07-06", Apply: true})
	require.NoError(t, err)
	assert.Zero(t, resp.Applied)
	assert.Equal(t, 1, resp.Skipped)
	assert.Empty(t, shifts.assigns)
}

func TestDistributionRejectsInvertedPeriod(t *testing.T) {
	svc := newDistributionService(&mockEmployeeRepo{}, &mockAbsenceRepo{}, &mockShiftRepo{}, &mockEnqueuer{})
	_, err := svc.Run(context.Background(), dto.DistributeRequest{StartDate: "2024-07-07", EndDate: "2024-07-01"})
	assert.Error(t, err)
}
