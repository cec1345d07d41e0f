package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mkrogh/vagtplan-api/internal/service"
	appErrors "github.com/mkrogh/vagtplan-api/pkg/errors"
	"github.com/mkrogh/vagtplan-api/pkg/response"
)

// PlanningHandler exposes the read-side planning views.
type PlanningHandler struct {
	service *service.PlanningService
}

// NewPlanningHandler constructs a planning handler.
func NewPlanningHandler(svc *service.PlanningService) *PlanningHandler {
	return &PlanningHandler{service: svc}
}

func periodParams(c *gin.Context) (string, string, bool) {
	start := c.Query("start")
	end := c.Query("end")
	if start == "" || end == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "start and end query parameters are required"))
		return "", "", false
	}
	return start, end, true
}

func maxAwayParam(c *gin.Context) *int {
	raw := c.Query("max_away")
	if raw == "" {
		return nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return nil
	}
	return &limit
}

// Board godoc
// @Summary Planning board for a period
// @Tags Planning
// @Produce json
// @Param start query string true "Period start (YYYY-MM-DD)"
// @Param end query string true "Period end (YYYY-MM-DD)"
// @Param max_away query int false "Override for the vacation capacity threshold"
// @Success 200 {object} response.Envelope
// @Router /planning/board [get]
func (h *PlanningHandler) Board(c *gin.Context) {
	start, end, ok := periodParams(c)
	if !ok {
		return
	}
	board, err := h.service.Board(c.Request.Context(), start, end, maxAwayParam(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, board, nil)
}

// Conflicts godoc
// @Summary Shift/absence conflicts in a period
// @Tags Planning
// @Produce json
// @Param start query string true "Period start (YYYY-MM-DD)"
// @Param end query string true "Period end (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /planning/conflicts [get]
func (h *PlanningHandler) Conflicts(c *gin.Context) {
	start, end, ok := periodParams(c)
	if !ok {
		return
	}
	conflicts, err := h.service.Conflicts(c.Request.Context(), start, end)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, conflicts, nil)
}

// Warnings godoc
// @Summary Over-capacity vacation days in a period
// @Tags Planning
// @Produce json
// @Param start query string true "Period start (YYYY-MM-DD)"
// @Param end query string true "Period end (YYYY-MM-DD)"
// @Param max_away query int false "Override for the vacation capacity threshold"
// @Success 200 {object} response.Envelope
// @Router /planning/warnings [get]
func (h *PlanningHandler) Warnings(c *gin.Context) {
	start, end, ok := periodParams(c)
	if !ok {
		return
	}
	warnings, err := h.service.Warnings(c.Request.Context(), start, end, maxAwayParam(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, warnings, nil)
}

// Availability godoc
// @Summary Employees free to work a given day
// @Tags Planning
// @Produce json
// @Param date query string true "Day (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /planning/availability [get]
func (h *PlanningHandler) Availability(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "date query parameter is required"))
		return
	}
	employees, err := h.service.AvailableEmployees(c.Request.Context(), date)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, employees, nil)
}

// Loads godoc
// @Summary Shift counts per employee in a period
// @Tags Planning
// @Produce json
// @Param start query string true "Period start (YYYY-MM-DD)"
// @Param end query string true "Period end (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /planning/loads [get]
func (h *PlanningHandler) Loads(c *gin.Context) {
	start, end, ok := periodParams(c)
	if !ok {
		return
	}
	loads, err := h.service.ShiftLoads(c.Request.Context(), start, end)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, loads, nil)
}
