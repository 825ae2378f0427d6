package handler

import (
	"net/http"
	"strconv"

	"giftstock-backend/internal/middleware"
	"giftstock-backend/internal/model"
	"giftstock-backend/internal/service"
	"giftstock-backend/pkg/pagination"
	"giftstock-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type RequestHandler struct {
	requestService service.RequestService
}

func NewRequestHandler(requestService service.RequestService) *RequestHandler {
	return &RequestHandler{requestService: requestService}
}

func (h *RequestHandler) RegisterRoutes(router *gin.RouterGroup) {
	requests := router.Group("/api/requests")
	{
		requests.GET("", middleware.RequireRole(model.RoleEmployee, model.RoleManager), h.ListRequests)
		requests.POST("", middleware.RequireRole(model.RoleEmployee, model.RoleManager), h.SubmitRequest)
		requests.PUT("/:id/approve", middleware.RequireRole(model.RoleManager), h.ApproveRequest)
		requests.PUT("/:id/reject", middleware.RequireRole(model.RoleManager), h.RejectRequest)
	}
}

type approveDTO struct {
	ApprovedQuantity int `json:"approved_quantity"`
}

type rejectDTO struct {
	Reason string `json:"reason"`
}

// ListRequests returns requests, optionally filtered by status
// @Summary      List requests
// @Tags         requests
// @Security     BearerAuth
// @Produce      json
// @Param        status  query  string  false  "pending, approved or rejected"
// @Param        page    query  int     false  "Page number (default 1)"
// @Param        limit   query  int     false  "Items per page (default 20)"
// @Success      200  {object}  response.Response{data=object}
// @Router       /api/requests [get]
func (h *RequestHandler) ListRequests(c *gin.Context) {
	params := pagination.Parse(c)
	filter := service.RequestFilter{
		Status: c.Query("status"),
		Page:   params.Page,
		Limit:  params.Limit,
	}

	requests, total, err := h.requestService.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"requests": requests,
		"total":    total,
		"page":     params.Page,
		"limit":    params.Limit,
	}))
}

// SubmitRequest creates a pending increase or transfer request
// @Summary      Submit request
// @Description  Creates a pending request; transfer requests are pre-flight checked against the requester's current balance
// @Tags         requests
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      service.SubmitRequestDTO  true  "Request"
// @Success      201      {object}  response.Response{data=service.RequestResponse}
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/requests [post]
func (h *RequestHandler) SubmitRequest(c *gin.Context) {
	var req service.SubmitRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	result, err := h.requestService.Submit(c.Request.Context(), middleware.CurrentUserID(c), req)
	if err != nil {
		c.JSON(httpStatus(err), response.Error(httpStatus(err), err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, result))
}

// ApproveRequest approves a pending request and applies its inventory effect
// @Summary      Approve request
// @Description  Credits the requester (increase) or transfers to the target (transfer); the balance check at approval time is authoritative
// @Tags         requests
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id        path      int         true   "Request id"
// @Param        approval  body      approveDTO  false  "Optional approved quantity override"
// @Success      200       {object}  response.Response{data=service.RequestResponse}
// @Failure      404       {object}  response.Response
// @Failure      409       {object}  response.Response
// @Router       /api/requests/{id}/approve [put]
func (h *RequestHandler) ApproveRequest(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid request id"))
		return
	}

	var body approveDTO
	_ = c.ShouldBindJSON(&body)

	result, err := h.requestService.Approve(c.Request.Context(), id, middleware.CurrentUserID(c), body.ApprovedQuantity)
	if err != nil {
		c.JSON(httpStatus(err), response.Error(httpStatus(err), err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// RejectRequest rejects a pending request with a reason
// @Summary      Reject request
// @Tags         requests
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id         path      int        true   "Request id"
// @Param        rejection  body      rejectDTO  false  "Rejection reason"
// @Success      200        {object}  response.Response{data=service.RequestResponse}
// @Failure      404        {object}  response.Response
// @Failure      409        {object}  response.Response
// @Router       /api/requests/{id}/reject [put]
func (h *RequestHandler) RejectRequest(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid request id"))
		return
	}

	var body rejectDTO
	_ = c.ShouldBindJSON(&body)

	result, err := h.requestService.Reject(c.Request.Context(), id, middleware.CurrentUserID(c), body.Reason)
	if err != nil {
		c.JSON(httpStatus(err), response.Error(httpStatus(err), err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}
