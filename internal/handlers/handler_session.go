package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/KurirHub/courier_management_app/internal/core/domain"
	portssvc "github.com/KurirHub/courier_management_app/internal/core/ports/services"
	"github.com/KurirHub/courier_management_app/internal/dto"
	"github.com/KurirHub/courier_management_app/internal/middleware"
)

// sessionHandler drives a courier's daily delivery session: manifest,
// parcel registry, status transitions and finalization.
type sessionHandler struct {
	sessionService portssvc.SessionSvcFacade
	courierService portssvc.CourierSvcFacade
}

func newSessionHandler(ss portssvc.SessionSvcFacade, cs portssvc.CourierSvcFacade) *sessionHandler {
	return &sessionHandler{
		sessionService: ss,
		courierService: cs,
	}
}

// RegisterSessionRoutes registers routes for the daily delivery session.
func RegisterSessionRoutes(rg *gin.RouterGroup, sessionService portssvc.SessionSvcFacade, courierService portssvc.CourierSvcFacade) {
	h := newSessionHandler(sessionService, courierService)

	session := rg.Group("/session")
	{
		session.GET("/today", h.getToday)
		session.POST("/manifest", h.submitManifest)
		session.POST("/manifest/revise", h.reviseManifest)
		session.POST("/parcels", h.registerParcel)
		session.DELETE("/parcels/:trackingNumber", h.removeParcel)
		session.PUT("/parcels/:trackingNumber/recipient", h.updateRecipient)
		session.POST("/parcels/transition", h.transition)
		session.POST("/finalize", h.finalizeDay)
	}
}

// getToday godoc
// @Summary Get today's delivery session
// @Description Retrieves today's session: manifest, parcel registry and lock state.
// @Tags session
// @Produce json
// @Success 200 {object} dto.SessionResponse
// @Failure 404 {object} ErrorResponse "No session today"
// @Security BearerAuth
// @Router /session/today [get]
func (h *sessionHandler) getToday(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	courier, ok := currentCourier(c, h.courierService)
	if !ok {
		return
	}

	session, err := h.sessionService.GetSession(c.Request.Context(), courier.CourierID, domain.DayOf(time.Now()))
	if err != nil {
		respondWithError(c, logger, err, "get session")
		return
	}
	c.JSON(http.StatusOK, dto.ToSessionResponse(session))
}

// submitManifest godoc
// @Summary Submit today's manifest
// @Description Declares and locks today's parcel counts. COD plus non-COD must equal the total.
// @Tags session
// @Accept json
// @Produce json
// @Param manifest body dto.SubmitManifestRequest true "Declared counts"
// @Success 201 {object} dto.SessionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Not checked in, already submitted, or day finalized"
// @Security BearerAuth
// @Router /session/manifest [post]
func (h *sessionHandler) submitManifest(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	courier, ok := currentCourier(c, h.courierService)
	if !ok {
		return
	}

	var req dto.SubmitManifestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	session, err := h.sessionService.SubmitManifest(c.Request.Context(), courier.CourierID, time.Now(), req)
	if err != nil {
		respondWithError(c, logger, err, "submit manifest")
		return
	}
	c.JSON(http.StatusCreated, dto.ToSessionResponse(session))
}

// reviseManifest godoc
// @Summary Reopen today's manifest
// @Description Unlocks the manifest for correction. Registered parcels are kept.
// @Tags session
// @Produce json
// @Success 200 {object} dto.SessionResponse
// @Failure 409 {object} ErrorResponse "No manifest to revise, or day finalized"
// @Security BearerAuth
// @Router /session/manifest/revise [post]
func (h *sessionHandler) reviseManifest(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	courier, ok := currentCourier(c, h.courierService)
	if !ok {
		return
	}

	session, err := h.sessionService.ReviseManifest(c.Request.Context(), courier.CourierID, time.Now())
	if err != nil {
		respondWithError(c, logger, err, "revise manifest")
		return
	}
	c.JSON(http.StatusOK, dto.ToSessionResponse(session))
}

// registerParcel godoc
// @Summary Register a parcel
// @Description Scans a parcel into today's registry. Tracking numbers are normalized before storage.
// @Tags session
// @Accept json
// @Produce json
// @Param parcel body dto.RegisterParcelRequest true "Parcel details"
// @Success 201 {object} dto.ParcelResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Duplicate tracking number, registry full, or manifest not submitted"
// @Security BearerAuth
// @Router /session/parcels [post]
func (h *sessionHandler) registerParcel(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	courier, ok := currentCourier(c, h.courierService)
	if !ok {
		return
	}

	var req dto.RegisterParcelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	parcel, err := h.sessionService.RegisterParcel(c.Request.Context(), courier.CourierID, time.Now(), req)
	if err != nil {
		respondWithError(c, logger, err, "register parcel")
		return
	}
	c.JSON(http.StatusCreated, dto.ToParcelResponse(parcel))
}

// removeParcel godoc
// @Summary Remove a parcel
// @Description Deletes a parcel from today's registry regardless of its status.
// @Tags session
// @Produce json
// @Param trackingNumber path string true "Tracking number"
// @Success 204 "No Content"
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /session/parcels/{trackingNumber} [delete]
func (h *sessionHandler) removeParcel(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	courier, ok := currentCourier(c, h.courierService)
	if !ok {
		return
	}

	err := h.sessionService.RemoveParcel(c.Request.Context(), courier.CourierID, time.Now(), c.Param("trackingNumber"))
	if err != nil {
		respondWithError(c, logger, err, "remove parcel")
		return
	}
	c.Status(http.StatusNoContent)
}

// updateRecipient godoc
// @Summary Set a parcel's recipient name
// @Description Records who received the parcel.
// @Tags session
// @Accept json
// @Produce json
// @Param trackingNumber path string true "Tracking number"
// @Param recipient body dto.UpdateRecipientRequest true "Recipient name"
// @Success 200 {object} dto.ParcelResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /session/parcels/{trackingNumber}/recipient [put]
func (h *sessionHandler) updateRecipient(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	courier, ok := currentCourier(c, h.courierService)
	if !ok {
		return
	}

	var req dto.UpdateRecipientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	parcel, err := h.sessionService.UpdateRecipientName(c.Request.Context(), courier.CourierID, time.Now(), c.Param("trackingNumber"), req.RecipientName)
	if err != nil {
		respondWithError(c, logger, err, "update recipient")
		return
	}
	c.JSON(http.StatusOK, dto.ToParcelResponse(parcel))
}

// transition godoc
// @Summary Move a parcel to a new status
// @Description Applies one edge of the parcel status graph, enforcing proof and recipient requirements.
// @Tags session
// @Accept json
// @Produce json
// @Param transition body dto.TransitionRequest true "Target status and evidence"
// @Success 200 {object} dto.ParcelResponse
// @Failure 400 {object} ErrorResponse "Unknown status or missing evidence"
// @Failure 409 {object} ErrorResponse "Illegal transition or delivery actions locked"
// @Security BearerAuth
// @Router /session/parcels/transition [post]
func (h *sessionHandler) transition(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	courier, ok := currentCourier(c, h.courierService)
	if !ok {
		return
	}

	var req dto.TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	parcel, err := h.sessionService.Transition(c.Request.Context(), courier.CourierID, time.Now(), req)
	if err != nil {
		respondWithError(c, logger, err, "transition parcel")
		return
	}
	c.JSON(http.StatusOK, dto.ToParcelResponse(parcel))
}

// finalizeDay godoc
// @Summary Finalize today's session
// @Description Computes and persists today's summary. Every declared parcel must be registered and resolved.
// @Tags session
// @Produce json
// @Success 200 {object} dto.SummaryResponse
// @Failure 409 {object} ErrorResponse "Registry incomplete or parcels unresolved"
// @Security BearerAuth
// @Router /session/finalize [post]
func (h *sessionHandler) finalizeDay(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	courier, ok := currentCourier(c, h.courierService)
	if !ok {
		return
	}

	summary, err := h.sessionService.FinalizeDay(c.Request.Context(), courier.CourierID, time.Now())
	if err != nil {
		respondWithError(c, logger, err, "finalize day")
		return
	}
	c.JSON(http.StatusOK, dto.ToSummaryResponse(summary))
}
