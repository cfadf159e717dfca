package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/KurirHub/courier_management_app/internal/core/ports/services"
	"github.com/KurirHub/courier_management_app/internal/dto"
	"github.com/KurirHub/courier_management_app/internal/middleware"
)

// statsHandler serves finalized daily summaries and aggregates.
type statsHandler struct {
	statsService portssvc.StatsSvcFacade
}

func newStatsHandler(ss portssvc.StatsSvcFacade) *statsHandler {
	return &statsHandler{statsService: ss}
}

// registerStatsRoutes registers summary/stats routes under the couriers group.
func registerStatsRoutes(couriers *gin.RouterGroup, statsService portssvc.StatsSvcFacade) {
	h := newStatsHandler(statsService)

	couriers.GET("/:courierID/summaries", h.listSummaries)
	couriers.GET("/:courierID/summaries/:day", h.getSummary)
	couriers.GET("/:courierID/stats", h.getStats)
}

// listSummaries godoc
// @Summary List a courier's daily summaries
// @Description Retrieves finalized daily summaries, newest first, with keyset pagination.
// @Tags stats
// @Produce json
// @Param courierID path string true "Courier ID"
// @Param from query string false "Inclusive start day (YYYY-MM-DD)"
// @Param to query string false "Inclusive end day (YYYY-MM-DD)"
// @Param limit query int false "Page size" default(31)
// @Param nextToken query string false "Pagination token"
// @Success 200 {object} dto.ListSummariesResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /couriers/{courierID}/summaries [get]
func (h *statsHandler) listSummaries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListSummariesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.statsService.ListSummaries(c.Request.Context(), c.Param("courierID"), params)
	if err != nil {
		respondWithError(c, logger, err, "list summaries")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// getSummary godoc
// @Summary Get one daily summary
// @Description Retrieves the finalized summary for a courier on a specific day.
// @Tags stats
// @Produce json
// @Param courierID path string true "Courier ID"
// @Param day path string true "Day (YYYY-MM-DD)"
// @Success 200 {object} dto.SummaryResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /couriers/{courierID}/summaries/{day} [get]
func (h *statsHandler) getSummary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	summary, err := h.statsService.GetSummary(c.Request.Context(), c.Param("courierID"), c.Param("day"))
	if err != nil {
		respondWithError(c, logger, err, "get summary")
		return
	}
	c.JSON(http.StatusOK, dto.ToSummaryResponse(summary))
}

// getStats godoc
// @Summary Get aggregated courier stats
// @Description Aggregates a courier's finalized summaries over a day range.
// @Tags stats
// @Produce json
// @Param courierID path string true "Courier ID"
// @Param from query string false "Inclusive start day (YYYY-MM-DD)"
// @Param to query string false "Inclusive end day (YYYY-MM-DD)"
// @Success 200 {object} dto.CourierStatsResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /couriers/{courierID}/stats [get]
func (h *statsHandler) getStats(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	resp, err := h.statsService.GetCourierStats(c.Request.Context(), c.Param("courierID"), c.Query("from"), c.Query("to"))
	if err != nil {
		respondWithError(c, logger, err, "get courier stats")
		return
	}
	c.JSON(http.StatusOK, resp)
}
