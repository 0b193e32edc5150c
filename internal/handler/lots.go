package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/marcadamcarter/pantry-scanner/internal/apierror"
	"github.com/marcadamcarter/pantry-scanner/internal/dto"
	"github.com/marcadamcarter/pantry-scanner/internal/service"
)

type LotsHandler struct{ svc service.InventoryService }

func NewLotsHandler(svc service.InventoryService) *LotsHandler {
	return &LotsHandler{svc: svc}
}

func (h *LotsHandler) Add(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid item ID"))
		return
	}
	var req dto.AddLotRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AddLot(c.Request.Context(), itemID, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *LotsHandler) Delete(c *gin.Context) {
	lotID, err := uuid.Parse(c.Param("lot_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid lot ID"))
		return
	}
	if err := h.svc.DeleteLot(c.Request.Context(), lotID); err != nil {
		c.JSON(http.StatusNotFound, apierror.New("lot not found"))
		return
	}
	c.Status(http.StatusNoContent)
}
