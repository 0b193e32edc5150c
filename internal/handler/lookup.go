package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/marcadamcarter/pantry-scanner/internal/apierror"
	"github.com/marcadamcarter/pantry-scanner/internal/service"
)

type LookupHandler struct{ svc service.LookupService }

func NewLookupHandler(svc service.LookupService) *LookupHandler {
	return &LookupHandler{svc: svc}
}

// ByBarcode resolves a barcode to product info via the cached catalog lookup.
// An unknown code is a 404, not an error: the client falls back to manual entry.
func (h *LookupHandler) ByBarcode(c *gin.Context) {
	code := strings.TrimSpace(c.Param("barcode"))
	if code == "" {
		c.JSON(http.StatusBadRequest, apierror.New("barcode is required"))
		return
	}
	product, err := h.svc.Lookup(c.Request.Context(), code)
	if err != nil {
		c.JSON(http.StatusBadGateway, apierror.New("catalog lookup failed"))
		return
	}
	if product == nil {
		c.JSON(http.StatusNotFound, apierror.New("no product found for barcode"))
		return
	}
	c.JSON(http.StatusOK, product)
}
