package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mkrogh/vagtplan-api/internal/service"
	appErrors "github.com/mkrogh/vagtplan-api/pkg/errors"
	"github.com/mkrogh/vagtplan-api/pkg/response"
)

// AbsenceHandler exposes absence registration endpoints.
type AbsenceHandler struct {
	service *service.AbsenceService
}

// NewAbsenceHandler constructs an absence handler.
func NewAbsenceHandler(svc *service.AbsenceService) *AbsenceHandler {
	return &AbsenceHandler{service: svc}
}

// List godoc
// @Summary List absences
// @Tags Absences
// @Produce json
// @Param emp_id query string false "Filter by employee"
// @Param type query string false "Filter by type (vacation, shift_free)"
// @Param start query string false "Window start (YYYY-MM-DD)"
// @Param end query string false "Window end (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /absences [get]
func (h *AbsenceHandler) List(c *gin.Context) {
	req := service.AbsenceListRequest{
		EmpID:     c.Query("emp_id"),
		Type:      c.Query("type"),
		StartDate: c.Query("start"),
		EndDate:   c.Query("end"),
	}
	absences, err := h.service.List(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, absences, nil)
}

// Get godoc
// @Summary Get absence
// @Tags Absences
// @Produce json
// @Param id path string true "Absence ID"
// @Success 200 {object} response.Envelope
// @Router /absences/{id} [get]
func (h *AbsenceHandler) Get(c *gin.Context) {
	absence, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, absence, nil)
}

// Create godoc
// @Summary Register absence
// @Tags Absences
// @Accept json
// @Produce json
// @Param payload body service.CreateAbsenceRequest true "Absence payload"
// @Success 201 {object} response.Envelope
// @Router /absences [post]
func (h *AbsenceHandler) Create(c *gin.Context) {
	var req service.CreateAbsenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	absence, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, absence)
}

// Delete godoc
// @Summary Delete absence
// @Tags Absences
// @Produce json
// @Param id path string true "Absence ID"
// @Success 204
// @Router /absences/{id} [delete]
func (h *AbsenceHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
