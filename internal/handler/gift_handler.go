package handler

import (
	"net/http"
	"strconv"

	"giftstock-backend/internal/middleware"
	"giftstock-backend/internal/model"
	"giftstock-backend/internal/service"
	"giftstock-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type GiftHandler struct {
	giftService service.GiftService
}

func NewGiftHandler(giftService service.GiftService) *GiftHandler {
	return &GiftHandler{giftService: giftService}
}

func (h *GiftHandler) RegisterRoutes(router *gin.RouterGroup) {
	gifts := router.Group("/api/gifts")
	{
		gifts.GET("", middleware.RequireRole(model.RoleEmployee, model.RoleManager), h.ListGifts)
		gifts.POST("", middleware.RequireRole(model.RoleManager), h.CreateGift)
		gifts.PUT("/:id", middleware.RequireRole(model.RoleManager), h.UpdateGift)
		gifts.DELETE("/:id", middleware.RequireRole(model.RoleManager), h.DeleteGift)
	}
}

// ListGifts returns the gift catalog
// @Summary      List gifts
// @Tags         gifts
// @Security     BearerAuth
// @Produce      json
// @Param        active_only  query  bool    false  "Only active gifts (selection lists)"
// @Param        search       query  string  false  "Search by name or code"
// @Success      200  {object}  response.Response{data=object}
// @Router       /api/gifts [get]
func (h *GiftHandler) ListGifts(c *gin.Context) {
	activeOnly := c.Query("active_only") == "true"
	gifts, err := h.giftService.ListGifts(c.Request.Context(), activeOnly, c.Query("search"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"gifts": gifts,
		"total": len(gifts),
	}))
}

// CreateGift adds a gift to the catalog
// @Summary      Create gift
// @Tags         gifts
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        gift  body      service.CreateGiftRequest  true  "Gift"
// @Success      201   {object}  response.Response{data=model.Gift}
// @Failure      400   {object}  response.Response
// @Router       /api/gifts [post]
func (h *GiftHandler) CreateGift(c *gin.Context) {
	var req service.CreateGiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	gift, err := h.giftService.CreateGift(c.Request.Context(), req)
	if err != nil {
		c.JSON(httpStatus(err), response.Error(httpStatus(err), err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, gift))
}

// UpdateGift edits a gift or toggles its active flag
// @Summary      Update gift
// @Tags         gifts
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id    path      int                        true  "Gift id"
// @Param        gift  body      service.UpdateGiftRequest  true  "Fields to update"
// @Success      200   {object}  response.Response{data=model.Gift}
// @Failure      404   {object}  response.Response
// @Router       /api/gifts/{id} [put]
func (h *GiftHandler) UpdateGift(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid gift id"))
		return
	}

	var req service.UpdateGiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	gift, err := h.giftService.UpdateGift(c.Request.Context(), id, req)
	if err != nil {
		c.JSON(httpStatus(err), response.Error(httpStatus(err), err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gift))
}

// DeleteGift removes a gift, cascading over records and requests
// @Summary      Delete gift
// @Description  Removes the gift, its inventory records (with cleanup ledger entries) and requests referencing it; reports removed counts
// @Tags         gifts
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "Gift id"
// @Success      200  {object}  response.Response{data=service.DeleteGiftResult}
// @Failure      404  {object}  response.Response
// @Router       /api/gifts/{id} [delete]
func (h *GiftHandler) DeleteGift(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid gift id"))
		return
	}

	result, err := h.giftService.DeleteGift(c.Request.Context(), id, middleware.CurrentUserID(c))
	if err != nil {
		c.JSON(httpStatus(err), response.Error(httpStatus(err), err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}
