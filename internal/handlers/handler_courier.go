package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/KurirHub/courier_management_app/internal/core/ports/services"
	"github.com/KurirHub/courier_management_app/internal/dto"
	"github.com/KurirHub/courier_management_app/internal/middleware"
)

// courierHandler serves courier and PIC profiles. Mutations go through the
// change-request workflow, so these routes are read-only.
type courierHandler struct {
	courierService portssvc.CourierSvcFacade
}

func newCourierHandler(cs portssvc.CourierSvcFacade) *courierHandler {
	return &courierHandler{courierService: cs}
}

// registerCourierRoutes registers courier/PIC profile routes and returns the
// couriers group so stats routes can hang off it.
func registerCourierRoutes(rg *gin.RouterGroup, courierService portssvc.CourierSvcFacade) *gin.RouterGroup {
	h := newCourierHandler(courierService)

	couriers := rg.Group("/couriers")
	{
		couriers.GET("", h.listCouriers)
		couriers.GET("/:courierID", h.getCourier)
	}

	pics := rg.Group("/pics")
	{
		pics.GET("", h.listPICs)
		pics.GET("/:picID", h.getPIC)
	}

	return couriers
}

// listCouriers godoc
// @Summary List couriers
// @Description Retrieves courier profiles, ordered by courier code.
// @Tags couriers
// @Produce json
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Offset" default(0)
// @Param activeOnly query bool false "Only active couriers" default(false)
// @Success 200 {object} dto.ListCouriersResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /couriers [get]
func (h *courierHandler) listCouriers(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListCouriersParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	couriers, err := h.courierService.ListCouriers(c.Request.Context(), params.Limit, params.Offset, params.ActiveOnly)
	if err != nil {
		respondWithError(c, logger, err, "list couriers")
		return
	}
	c.JSON(http.StatusOK, dto.ToListCouriersResponse(couriers))
}

// getCourier godoc
// @Summary Get a courier profile
// @Tags couriers
// @Produce json
// @Param courierID path string true "Courier ID"
// @Success 200 {object} dto.CourierResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /couriers/{courierID} [get]
func (h *courierHandler) getCourier(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	courier, err := h.courierService.GetCourier(c.Request.Context(), c.Param("courierID"))
	if err != nil {
		respondWithError(c, logger, err, "get courier")
		return
	}
	c.JSON(http.StatusOK, dto.ToCourierResponse(courier))
}

// listPICs godoc
// @Summary List PICs
// @Description Retrieves PIC profiles ordered by name.
// @Tags pics
// @Produce json
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} dto.ListPICsResponse
// @Security BearerAuth
// @Router /pics [get]
func (h *courierHandler) listPICs(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	limit, offset := 20, 0
	var params dto.ListCouriersParams
	if err := c.ShouldBindQuery(&params); err == nil {
		limit, offset = params.Limit, params.Offset
	}

	pics, err := h.courierService.ListPICs(c.Request.Context(), limit, offset)
	if err != nil {
		respondWithError(c, logger, err, "list PICs")
		return
	}
	c.JSON(http.StatusOK, dto.ToListPICsResponse(pics))
}

// getPIC godoc
// @Summary Get a PIC profile
// @Tags pics
// @Produce json
// @Param picID path string true "PIC ID"
// @Success 200 {object} dto.PICResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /pics/{picID} [get]
func (h *courierHandler) getPIC(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	pic, err := h.courierService.GetPIC(c.Request.Context(), c.Param("picID"))
	if err != nil {
		respondWithError(c, logger, err, "get PIC")
		return
	}
	c.JSON(http.StatusOK, dto.ToPICResponse(pic))
}
