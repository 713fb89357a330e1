package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/scholarhub/scholarhub-api/internal/service"
	"github.com/scholarhub/scholarhub-api/pkg/response"
)

// AnalyticsHandler exposes the dashboard summary endpoint.
type AnalyticsHandler struct {
	analytics *service.AnalyticsService
}

// NewAnalyticsHandler constructs AnalyticsHandler.
func NewAnalyticsHandler(analytics *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics}
}

// Summary godoc
// @Summary Dashboard analytics summary
// @Tags Analytics
// @Produce json
// @Param refresh query bool false "Force recomputation, bypassing the cache"
// @Success 200 {object} response.Envelope
// @Router /analytics/summary [get]
func (h *AnalyticsHandler) Summary(c *gin.Context) {
	refresh := c.Query("refresh") == "true"
	summary, err := h.analytics.Summary(c.Request.Context(), refresh)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}
