package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/marcadamcarter/pantry-scanner/internal/apierror"
	"github.com/marcadamcarter/pantry-scanner/internal/infra"
	"github.com/marcadamcarter/pantry-scanner/internal/model"
	"github.com/marcadamcarter/pantry-scanner/internal/service"
)

type ReportsHandler struct{ svc service.InventoryService }

func NewReportsHandler(svc service.InventoryService) *ReportsHandler {
	return &ReportsHandler{svc: svc}
}

// Expiring lists lots whose dates fall within the window. Defaults to the
// soon window; ?days=N widens or narrows it.
func (h *ReportsHandler) Expiring(c *gin.Context) {
	days := model.SoonWindowDays
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, apierror.New("days must be a non-negative integer"))
			return
		}
		days = parsed
	}
	resp, err := h.svc.ListExpiring(c.Request.Context(), days)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to build expiring report"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// LowStock lists items sitting below their par level.
func (h *ReportsHandler) LowStock(c *gin.Context) {
	items, err := h.svc.LowStockItems(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to build low-stock report"))
		return
	}
	type row struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		Location string `json:"location"`
		Quantity int    `json:"quantity"`
		ParLevel int    `json:"par_level"`
	}
	resp := make([]row, 0, len(items))
	for _, item := range items {
		resp = append(resp, row{
			ID:       item.ID.String(),
			Name:     item.Name,
			Location: item.Location,
			Quantity: item.Quantity,
			ParLevel: item.ParLevel,
		})
	}
	c.JSON(http.StatusOK, resp)
}

// ShoppingListPDF streams the low-stock items as a printable PDF.
func (h *ReportsHandler) ShoppingListPDF(c *gin.Context) {
	items, err := h.svc.LowStockItems(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to build shopping list"))
		return
	}
	rows := make([]infra.ShoppingListRow, 0, len(items))
	for _, item := range items {
		rows = append(rows, infra.ShoppingListRow{
			Name:     item.Name,
			Location: item.Location,
			Quantity: item.Quantity,
			ParLevel: item.ParLevel,
		})
	}
	now := time.Now()
	data, err := infra.GenerateShoppingListPDF(rows, now)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to render PDF"))
		return
	}
	filename := fmt.Sprintf("shopping-list-%s.pdf", now.Format("2006-01-02"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", data)
}
