package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/litra-app/litra-backend/internal/adapters/http/dto"
	"github.com/litra-app/litra-backend/internal/app"
)

// StatsHandler handles reading statistics HTTP endpoints.
type StatsHandler struct {
	service *app.StatsService
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(service *app.StatsService) *StatsHandler {
	return &StatsHandler{
		service: service,
	}
}

// GetStats handles GET /api/v1/stats
//
// @Summary Get reading statistics
// @Description Returns totals, recent activity, and top books and categories
// @Tags stats
// @Produce json
// @Param days query int false "Recent-activity window in days"
// @Success 200 {object} app.StatsOverview
// @Failure 503 {object} dto.ErrorResponse
// @Router /api/v1/stats [get]
func (h *StatsHandler) GetStats(c *gin.Context) {
	var query dto.StatsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.ErrorCodeBadRequest,
			"invalid query parameters",
		).WithTraceID(dto.GetTraceID(c)))
		return
	}

	overview, err := h.service.Overview(c.Request.Context(), query.Days)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, overview)
}

// RegisterStatsRoutes registers stats routes on the given router group.
func (h *StatsHandler) RegisterStatsRoutes(rg *gin.RouterGroup) {
	rg.GET("/stats", h.GetStats)
}
