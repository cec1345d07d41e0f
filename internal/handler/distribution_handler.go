package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mkrogh/vagtplan-api/internal/dto"
	"github.com/mkrogh/vagtplan-api/internal/service"
	appErrors "github.com/mkrogh/vagtplan-api/pkg/errors"
	"github.com/mkrogh/vagtplan-api/pkg/response"
)

// DistributionHandler exposes the fair-share planner endpoint.
type DistributionHandler struct {
	service *service.DistributionService
}

// NewDistributionHandler constructs a distribution handler.
func NewDistributionHandler(svc *service.DistributionService) *DistributionHandler {
	return &DistributionHandler{service: svc}
}

// Distribute godoc
// @Summary Run the fair-share planner over a period
// @Description Preview by default; set apply to commit, async to queue the apply.
// @Tags Planning
// @Accept json
// @Produce json
// @Param payload body dto.DistributeRequest true "Distribution request"
// @Success 200 {object} response.Envelope
// @Success 202 {object} response.Envelope
// @Router /planning/distribute [post]
func (h *DistributionHandler) Distribute(c *gin.Context) {
	var req dto.DistributeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	resp, err := h.service.Run(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	if resp.Queued {
		response.Accepted(c, resp)
		return
	}
	response.JSON(c, http.StatusOK, resp, nil)
}
