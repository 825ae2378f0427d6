package handler

import (
	"fmt"
	"net/http"
	"time"

	"giftstock-backend/internal/middleware"
	"giftstock-backend/internal/model"
	"giftstock-backend/internal/service"
	"giftstock-backend/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// exportPageSize bounds how many rows one export pulls per projection call
const exportPageSize = 10000

type ExportHandler struct {
	queryService service.QueryService
}

func NewExportHandler(queryService service.QueryService) *ExportHandler {
	return &ExportHandler{queryService: queryService}
}

func (h *ExportHandler) RegisterRoutes(router *gin.RouterGroup) {
	export := router.Group("/api/export")
	{
		export.GET("/inventory", middleware.RequireRole(model.RoleManager), h.ExportInventory)
	}
}

// ExportInventory writes the full inventory and ledger history as an xlsx file
// @Summary      Export inventory workbook
// @Description  Produces an Excel workbook with an Inventory sheet and a Ledger sheet
// @Tags         export
// @Security     BearerAuth
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200
// @Failure      500  {object}  response.Response
// @Router       /api/export/inventory [get]
func (h *ExportHandler) ExportInventory(c *gin.Context) {
	ctx := c.Request.Context()

	inventory, _, err := h.queryService.AllInventory(ctx, "", 1, exportPageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	ledger, _, err := h.queryService.LedgerHistory(ctx, 0, 1, exportPageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	const invSheet = "Inventory"
	if err := f.SetSheetName("Sheet1", invSheet); err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	invHeader := []interface{}{"Holder", "Employee Code", "Store", "Gift Code", "Gift", "Category", "Quantity", "Last Updated"}
	_ = f.SetSheetRow(invSheet, "A1", &invHeader)
	for i, v := range inventory {
		row := []interface{}{v.HolderName, v.EmployeeCode, v.StoreName, v.GiftCode, v.GiftName, v.GiftCategory, v.Quantity, v.LastUpdated}
		_ = f.SetSheetRow(invSheet, fmt.Sprintf("A%d", i+2), &row)
	}

	const ledgerSheet = "Ledger"
	if _, err := f.NewSheet(ledgerSheet); err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	ledgerHeader := []interface{}{"ID", "Holder", "Gift Code", "Gift", "Kind", "Signed Quantity", "Counterparty", "Reason", "Actor", "Created At"}
	_ = f.SetSheetRow(ledgerSheet, "A1", &ledgerHeader)
	for i, v := range ledger {
		row := []interface{}{v.ID, v.HolderName, v.GiftCode, v.GiftName, v.Kind, v.SignedQuantity, v.CounterpartyName, v.Reason, v.ActorName, v.CreatedAt}
		_ = f.SetSheetRow(ledgerSheet, fmt.Sprintf("A%d", i+2), &row)
	}

	filename := fmt.Sprintf("gift-inventory-%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if err := f.Write(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
}
