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

type InventoryHandler struct {
	ledgerService service.LedgerService
	queryService  service.QueryService
}

func NewInventoryHandler(ledgerService service.LedgerService, queryService service.QueryService) *InventoryHandler {
	return &InventoryHandler{ledgerService: ledgerService, queryService: queryService}
}

func (h *InventoryHandler) RegisterRoutes(router *gin.RouterGroup) {
	inventory := router.Group("/api/inventory")
	{
		inventory.GET("/mine", middleware.RequireRole(model.RoleEmployee, model.RoleManager), h.MyInventory)
		inventory.GET("", middleware.RequireRole(model.RoleManager), h.AllInventory)
		inventory.GET("/summary", middleware.RequireRole(model.RoleManager), h.Summary)
		inventory.POST("/credit", middleware.RequireRole(model.RoleManager), h.Credit)
		inventory.POST("/debit", middleware.RequireRole(model.RoleManager), h.Debit)
		inventory.POST("/adjust", middleware.RequireRole(model.RoleManager), h.Adjust)
		inventory.DELETE("/:holderId/:giftId", middleware.RequireRole(model.RoleManager), h.RemoveRecord)
	}

	ledger := router.Group("/api/ledger")
	{
		ledger.GET("", middleware.RequireRole(model.RoleManager), h.Ledger)
		ledger.GET("/mine", middleware.RequireRole(model.RoleEmployee, model.RoleManager), h.MyLedger)
	}
}

// --- Direct mutation DTOs ---

type MutationRequest struct {
	HolderID int64  `json:"holder_id" binding:"required"`
	GiftID   int64  `json:"gift_id" binding:"required"`
	Amount   int    `json:"amount" binding:"required,gt=0"`
	Reason   string `json:"reason"`
}

type AdjustRequest struct {
	HolderID    int64  `json:"holder_id" binding:"required"`
	GiftID      int64  `json:"gift_id" binding:"required"`
	NewQuantity *int   `json:"new_quantity" binding:"required"`
	Reason      string `json:"reason"`
}

// MyInventory returns the authenticated holder's own inventory
// @Summary      My inventory
// @Tags         inventory
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=object}
// @Router       /api/inventory/mine [get]
func (h *InventoryHandler) MyInventory(c *gin.Context) {
	views, err := h.queryService.HolderInventory(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"inventory": views,
		"total":     len(views),
	}))
}

// AllInventory returns every inventory record with search and pagination
// @Summary      All inventory
// @Tags         inventory
// @Security     BearerAuth
// @Produce      json
// @Param        page    query  int     false  "Page number (default 1)"
// @Param        limit   query  int     false  "Items per page (default 20)"
// @Param        search  query  string  false  "Search by holder name/code or gift name/code"
// @Success      200  {object}  response.Response{data=object}
// @Router       /api/inventory [get]
func (h *InventoryHandler) AllInventory(c *gin.Context) {
	params := pagination.Parse(c)
	views, total, err := h.queryService.AllInventory(c.Request.Context(), c.Query("search"), params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"inventory": views,
		"total":     total,
		"page":      params.Page,
		"limit":     params.Limit,
	}))
}

// Summary returns dashboard counts
// @Summary      Inventory summary
// @Tags         inventory
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=service.Summary}
// @Router       /api/inventory/summary [get]
func (h *InventoryHandler) Summary(c *gin.Context) {
	sum, err := h.queryService.Summary(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, sum))
}

// Credit grants quantity to a holder
// @Summary      Credit inventory
// @Description  Increases a holder's balance and appends a send ledger entry
// @Tags         inventory
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        mutation  body      MutationRequest  true  "Credit"
// @Success      200       {object}  response.Response{data=model.InventoryRecord}
// @Failure      400       {object}  response.Response
// @Router       /api/inventory/credit [post]
func (h *InventoryHandler) Credit(c *gin.Context) {
	var req MutationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	rec, err := h.ledgerService.Credit(c.Request.Context(), req.HolderID, req.GiftID, req.Amount,
		model.LedgerKindSend, req.Reason, middleware.CurrentUserID(c), nil)
	if err != nil {
		c.JSON(httpStatus(err), response.Error(httpStatus(err), err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, rec))
}

// Debit withdraws quantity from a holder
// @Summary      Debit inventory
// @Description  Decreases a holder's balance and appends a negative send ledger entry
// @Tags         inventory
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        mutation  body      MutationRequest  true  "Debit"
// @Success      200       {object}  response.Response{data=model.InventoryRecord}
// @Failure      409       {object}  response.Response
// @Router       /api/inventory/debit [post]
func (h *InventoryHandler) Debit(c *gin.Context) {
	var req MutationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	rec, err := h.ledgerService.Debit(c.Request.Context(), req.HolderID, req.GiftID, req.Amount,
		model.LedgerKindSend, req.Reason, middleware.CurrentUserID(c), nil)
	if err != nil {
		c.JSON(httpStatus(err), response.Error(httpStatus(err), err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, rec))
}

// Adjust sets an absolute quantity after a stock count
// @Summary      Manual adjustment
// @Description  Sets the absolute quantity; the signed delta is recorded as one adjust ledger entry
// @Tags         inventory
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        adjustment  body      AdjustRequest  true  "Adjustment"
// @Success      200         {object}  response.Response{data=model.InventoryRecord}
// @Failure      400         {object}  response.Response
// @Router       /api/inventory/adjust [post]
func (h *InventoryHandler) Adjust(c *gin.Context) {
	var req AdjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	rec, err := h.ledgerService.ManualAdjust(c.Request.Context(), req.HolderID, req.GiftID, *req.NewQuantity,
		req.Reason, middleware.CurrentUserID(c))
	if err != nil {
		c.JSON(httpStatus(err), response.Error(httpStatus(err), err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, rec))
}

// RemoveRecord deletes an inventory record
// @Summary      Remove inventory record
// @Description  Deletes the record and appends a delete-cleanup ledger entry negating its quantity
// @Tags         inventory
// @Security     BearerAuth
// @Produce      json
// @Param        holderId  path      int  true  "Holder id"
// @Param        giftId    path      int  true  "Gift id"
// @Success      200       {object}  response.Response{data=model.InventoryRecord}
// @Failure      404       {object}  response.Response
// @Router       /api/inventory/{holderId}/{giftId} [delete]
func (h *InventoryHandler) RemoveRecord(c *gin.Context) {
	holderID, err1 := strconv.ParseInt(c.Param("holderId"), 10, 64)
	giftID, err2 := strconv.ParseInt(c.Param("giftId"), 10, 64)
	if err1 != nil || err2 != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid holder or gift id"))
		return
	}

	snapshot, err := h.ledgerService.RemoveRecord(c.Request.Context(), holderID, giftID, middleware.CurrentUserID(c))
	if err != nil {
		c.JSON(httpStatus(err), response.Error(httpStatus(err), err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, snapshot))
}

// Ledger returns ledger history, optionally scoped to one holder
// @Summary      Ledger history
// @Tags         ledger
// @Security     BearerAuth
// @Produce      json
// @Param        holder_id  query  int  false  "Scope to one holder"
// @Param        page       query  int  false  "Page number (default 1)"
// @Param        limit      query  int  false  "Items per page (default 20)"
// @Success      200  {object}  response.Response{data=object}
// @Router       /api/ledger [get]
func (h *InventoryHandler) Ledger(c *gin.Context) {
	params := pagination.Parse(c)
	holderID, _ := strconv.ParseInt(c.DefaultQuery("holder_id", "0"), 10, 64)

	views, total, err := h.queryService.LedgerHistory(c.Request.Context(), holderID, params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"entries": views,
		"total":   total,
		"page":    params.Page,
		"limit":   params.Limit,
	}))
}

// MyLedger returns the authenticated holder's ledger history, newest first
// @Summary      My ledger history
// @Tags         ledger
// @Security     BearerAuth
// @Produce      json
// @Param        page   query  int  false  "Page number (default 1)"
// @Param        limit  query  int  false  "Items per page (default 20)"
// @Success      200  {object}  response.Response{data=object}
// @Router       /api/ledger/mine [get]
func (h *InventoryHandler) MyLedger(c *gin.Context) {
	params := pagination.Parse(c)
	views, total, err := h.queryService.LedgerHistory(c.Request.Context(), middleware.CurrentUserID(c), params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"entries": views,
		"total":   total,
		"page":    params.Page,
		"limit":   params.Limit,
	}))
}
