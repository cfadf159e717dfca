package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/KurirHub/courier_management_app/internal/core/ports/services"
	"github.com/KurirHub/courier_management_app/internal/dto"
	"github.com/KurirHub/courier_management_app/internal/middleware"
)

// approvalHandler drives the admin change-request workflow.
type approvalHandler struct {
	approvalService portssvc.ApprovalSvcFacade
}

func newApprovalHandler(as portssvc.ApprovalSvcFacade) *approvalHandler {
	return &approvalHandler{approvalService: as}
}

// registerApprovalRoutes registers routes for courier/PIC change requests.
func registerApprovalRoutes(rg *gin.RouterGroup, approvalService portssvc.ApprovalSvcFacade) {
	h := newApprovalHandler(approvalService)

	requests := rg.Group("/change-requests")
	{
		requests.POST("", h.submitRequest)
		requests.GET("", h.listRequests)
		requests.GET("/:requestID", h.getRequest)
		requests.POST("/:requestID/decision", h.decideRequest)
	}
}

// submitRequest godoc
// @Summary Submit a change request
// @Description Raises a courier/PIC record change. Master admins apply immediately; regular admins wait for approval.
// @Tags change-requests
// @Accept json
// @Produce json
// @Param request body dto.CreateChangeRequestRequest true "Proposed change"
// @Success 201 {object} dto.ChangeRequestResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse "Not an admin"
// @Security BearerAuth
// @Router /change-requests [post]
func (h *approvalHandler) submitRequest(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateChangeRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	adminUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	request, err := h.approvalService.SubmitRequest(c.Request.Context(), adminUserID, req)
	if err != nil {
		respondWithError(c, logger, err, "submit change request")
		return
	}
	c.JSON(http.StatusCreated, dto.ToChangeRequestResponse(request))
}

// listRequests godoc
// @Summary List change requests
// @Description Lists change requests, optionally filtered by status, newest first.
// @Tags change-requests
// @Produce json
// @Param status query string false "PENDING, APPROVED or REJECTED"
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} dto.ListChangeRequestsResponse
// @Failure 403 {object} ErrorResponse "Not an admin"
// @Security BearerAuth
// @Router /change-requests [get]
func (h *approvalHandler) listRequests(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListChangeRequestsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	requesterUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	requests, err := h.approvalService.ListRequests(c.Request.Context(), requesterUserID, params)
	if err != nil {
		respondWithError(c, logger, err, "list change requests")
		return
	}
	c.JSON(http.StatusOK, dto.ToListChangeRequestsResponse(requests))
}

// getRequest godoc
// @Summary Get a change request
// @Tags change-requests
// @Produce json
// @Param requestID path string true "Request ID"
// @Success 200 {object} dto.ChangeRequestResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /change-requests/{requestID} [get]
func (h *approvalHandler) getRequest(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	requesterUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	request, err := h.approvalService.GetRequest(c.Request.Context(), requesterUserID, c.Param("requestID"))
	if err != nil {
		respondWithError(c, logger, err, "get change request")
		return
	}
	c.JSON(http.StatusOK, dto.ToChangeRequestResponse(request))
}

// decideRequest godoc
// @Summary Decide a change request
// @Description Approves or rejects a pending request. Master admin only; approval applies the change.
// @Tags change-requests
// @Accept json
// @Produce json
// @Param requestID path string true "Request ID"
// @Param decision body dto.DecideChangeRequestRequest true "Decision"
// @Success 200 {object} dto.ChangeRequestResponse
// @Failure 403 {object} ErrorResponse "Not a master admin"
// @Failure 409 {object} ErrorResponse "Already decided"
// @Security BearerAuth
// @Router /change-requests/{requestID}/decision [post]
func (h *approvalHandler) decideRequest(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.DecideChangeRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	deciderUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	request, err := h.approvalService.DecideRequest(c.Request.Context(), deciderUserID, c.Param("requestID"), req.Approve, req.Note)
	if err != nil {
		respondWithError(c, logger, err, "decide change request")
		return
	}
	c.JSON(http.StatusOK, dto.ToChangeRequestResponse(request))
}
