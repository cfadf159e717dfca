package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/KurirHub/courier_management_app/internal/apperrors"
	"github.com/KurirHub/courier_management_app/internal/core/domain"
	portssvc "github.com/KurirHub/courier_management_app/internal/core/ports/services"
	"github.com/KurirHub/courier_management_app/internal/dto"
	"github.com/KurirHub/courier_management_app/internal/middleware"
)

// attendanceHandler handles a courier's own attendance.
type attendanceHandler struct {
	attendanceService portssvc.AttendanceSvcFacade
	courierService    portssvc.CourierSvcFacade
}

func newAttendanceHandler(as portssvc.AttendanceSvcFacade, cs portssvc.CourierSvcFacade) *attendanceHandler {
	return &attendanceHandler{
		attendanceService: as,
		courierService:    cs,
	}
}

// registerAttendanceRoutes registers routes for courier attendance.
func registerAttendanceRoutes(rg *gin.RouterGroup, attendanceService portssvc.AttendanceSvcFacade, courierService portssvc.CourierSvcFacade) {
	h := newAttendanceHandler(attendanceService, courierService)

	attendance := rg.Group("/attendance")
	{
		attendance.POST("/check-in", h.checkIn)
		attendance.POST("/check-out", h.checkOut)
		attendance.GET("/today", h.getToday)
		attendance.GET("/history", h.listHistory)
	}
}

// currentCourier resolves the courier profile of the authenticated user.
// Writes the error response itself when resolution fails.
func currentCourier(c *gin.Context, courierService portssvc.CourierReaderSvc) (*domain.Courier, bool) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return nil, false
	}

	courier, err := courierService.GetCourierByUserID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusForbidden, ErrorResponse{Error: "No courier profile for this account"})
			return nil, false
		}
		respondWithError(c, logger, err, "resolve courier profile")
		return nil, false
	}
	if !courier.IsActive {
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "Courier profile is deactivated"})
		return nil, false
	}
	return courier, true
}

// checkIn godoc
// @Summary Check in for the day
// @Description Records the courier's check-in, classified OnTime or Late against the 09:00 cutoff.
// @Tags attendance
// @Produce json
// @Success 201 {object} dto.AttendanceResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Already checked in"
// @Security BearerAuth
// @Router /attendance/check-in [post]
func (h *attendanceHandler) checkIn(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	courier, ok := currentCourier(c, h.courierService)
	if !ok {
		return
	}

	record, err := h.attendanceService.CheckIn(c.Request.Context(), courier.CourierID, time.Now())
	if err != nil {
		respondWithError(c, logger, err, "check in")
		return
	}
	c.JSON(http.StatusCreated, dto.ToAttendanceResponse(record))
}

// checkOut godoc
// @Summary Check out for the day
// @Description Records the courier's check-out time on today's attendance record.
// @Tags attendance
// @Produce json
// @Success 200 {object} dto.AttendanceResponse
// @Failure 401 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Not checked in, or already checked out"
// @Security BearerAuth
// @Router /attendance/check-out [post]
func (h *attendanceHandler) checkOut(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	courier, ok := currentCourier(c, h.courierService)
	if !ok {
		return
	}

	record, err := h.attendanceService.CheckOut(c.Request.Context(), courier.CourierID, time.Now())
	if err != nil {
		respondWithError(c, logger, err, "check out")
		return
	}
	c.JSON(http.StatusOK, dto.ToAttendanceResponse(record))
}

// getToday godoc
// @Summary Get today's attendance
// @Description Retrieves the courier's attendance record for today.
// @Tags attendance
// @Produce json
// @Success 200 {object} dto.AttendanceResponse
// @Failure 404 {object} ErrorResponse "No attendance record today"
// @Security BearerAuth
// @Router /attendance/today [get]
func (h *attendanceHandler) getToday(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	courier, ok := currentCourier(c, h.courierService)
	if !ok {
		return
	}

	record, err := h.attendanceService.GetAttendance(c.Request.Context(), courier.CourierID, domain.DayOf(time.Now()))
	if err != nil {
		respondWithError(c, logger, err, "get attendance")
		return
	}
	c.JSON(http.StatusOK, dto.ToAttendanceResponse(record))
}

// listHistory godoc
// @Summary List attendance history
// @Description Retrieves the courier's attendance history, newest first.
// @Tags attendance
// @Produce json
// @Param from query string false "Inclusive start day (YYYY-MM-DD)"
// @Param to query string false "Inclusive end day (YYYY-MM-DD)"
// @Param limit query int false "Page size" default(31)
// @Success 200 {object} dto.ListAttendanceResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /attendance/history [get]
func (h *attendanceHandler) listHistory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	courier, ok := currentCourier(c, h.courierService)
	if !ok {
		return
	}

	var params dto.ListAttendanceParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	records, err := h.attendanceService.ListAttendance(c.Request.Context(), courier.CourierID, params)
	if err != nil {
		respondWithError(c, logger, err, "list attendance")
		return
	}
	c.JSON(http.StatusOK, dto.ToListAttendanceResponse(records))
}
