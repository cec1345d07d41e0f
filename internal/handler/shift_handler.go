package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mkrogh/vagtplan-api/internal/service"
	appErrors "github.com/mkrogh/vagtplan-api/pkg/errors"
	"github.com/mkrogh/vagtplan-api/pkg/response"
)

// ShiftHandler exposes shift endpoints, open slots included.
type ShiftHandler struct {
	service *service.ShiftService
}

// NewShiftHandler constructs a shift handler.
func NewShiftHandler(svc *service.ShiftService) *ShiftHandler {
	return &ShiftHandler{service: svc}
}

// List godoc
// @Summary List shifts
// @Tags Shifts
// @Produce json
// @Param emp_id query string false "Filter by employee"
// @Param assigned query bool false "Filter assigned or open slots"
// @Param start query string false "Window start (YYYY-MM-DD)"
// @Param end query string false "Window end (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /shifts [get]
func (h *ShiftHandler) List(c *gin.Context) {
	req := service.ShiftListRequest{
		EmpID:     c.Query("emp_id"),
		StartDate: c.Query("start"),
		EndDate:   c.Query("end"),
	}
	if raw := c.Query("assigned"); raw != "" {
		if assigned, err := strconv.ParseBool(raw); err == nil {
			req.Assigned = &assigned
		}
	}
	shifts, err := h.service.List(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, shifts, nil)
}

// Get godoc
// @Summary Get shift
// @Tags Shifts
// @Produce json
// @Param id path string true "Shift ID"
// @Success 200 {object} response.Envelope
// @Router /shifts/{id} [get]
func (h *ShiftHandler) Get(c *gin.Context) {
	shift, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, shift, nil)
}

// Create godoc
// @Summary Create shift
// @Tags Shifts
// @Accept json
// @Produce json
// @Param payload body service.CreateShiftRequest true "Shift payload; omit emp_id for an open slot"
// @Success 201 {object} response.Envelope
// @Router /shifts [post]
func (h *ShiftHandler) Create(c *gin.Context) {
	var req service.CreateShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	shift, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, shift)
}

// Assign godoc
// @Summary Assign an open slot
// @Tags Shifts
// @Accept json
// @Produce json
// @Param id path string true "Shift ID"
// @Param payload body service.AssignShiftRequest true "Assignee"
// @Success 200 {object} response.Envelope
// @Router /shifts/{id}/assign [post]
func (h *ShiftHandler) Assign(c *gin.Context) {
	var req service.AssignShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	shift, err := h.service.Assign(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, shift, nil)
}

// Delete godoc
// @Summary Delete shift
// @Tags Shifts
// @Produce json
// @Param id path string true "Shift ID"
// @Success 204
// @Router /shifts/{id} [delete]
func (h *ShiftHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
