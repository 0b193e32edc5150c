package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/marcadamcarter/pantry-scanner/internal/apierror"
	"github.com/marcadamcarter/pantry-scanner/internal/dto"
	"github.com/marcadamcarter/pantry-scanner/internal/service"
)

type ScanHandler struct{ svc service.ScanService }

func NewScanHandler(svc service.ScanService) *ScanHandler {
	return &ScanHandler{svc: svc}
}

func (h *ScanHandler) StartSession(c *gin.Context) {
	resp, err := h.svc.StartSession(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to start scan session"))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ScanHandler) GetSession(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	resp, err := h.svc.GetSession(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Event routes one raw scan event into the session's draft. The draft after
// the event is returned so the client can render the accumulated state.
func (h *ScanHandler) Event(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	var req dto.ScanEventRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.HandleEvent(c.Request.Context(), id, req)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, apierror.New(err.Error()))
			return
		}
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ScanHandler) Edit(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	var req dto.EditDraftRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.EditDraft(c.Request.Context(), id, req)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ScanHandler) Save(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Save(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, apierror.New(err.Error()))
			return
		}
		// Draft is kept on failure so the client can retry the save.
		c.JSON(http.StatusBadGateway, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ScanHandler) Cancel(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	if err := h.svc.Cancel(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}

func sessionID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("session_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid session ID"))
		return uuid.Nil, false
	}
	return id, true
}
