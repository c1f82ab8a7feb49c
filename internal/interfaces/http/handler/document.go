package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	documentapp "github.com/ircomercio/ordens/internal/application/document"
)

// DocumentHandler serves rendered PDF documents
type DocumentHandler struct {
	BaseHandler
	service *documentapp.Service
}

// NewDocumentHandler creates a new DocumentHandler
func NewDocumentHandler(service *documentapp.Service) *DocumentHandler {
	return &DocumentHandler{service: service}
}

// RegisterRoutes registers document routes
func (h *DocumentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/ordens/:id/pdf", h.OrderPDF)
	rg.GET("/ordens/:id/etiquetas", h.VolumeLabels)
}

// OrderPDF streams the rendered order document
func (h *DocumentHandler) OrderPDF(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	pdf, err := h.service.OrderPDF(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`inline; filename="ordem-%s.pdf"`, id))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// VolumeLabels streams a label sheet with one page per volume. The
// "volumes" query parameter defaults to 1.
func (h *DocumentHandler) VolumeLabels(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	volumes := 1
	if raw := c.Query("volumes"); raw != "" {
		volumes, err = strconv.Atoi(raw)
		if err != nil {
			h.BadRequest(c, "Parameter volumes must be an integer")
			return
		}
	}

	pdf, err := h.service.VolumeLabels(c.Request.Context(), id, volumes)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`inline; filename="etiquetas-%s.pdf"`, id))
	c.Data(http.StatusOK, "application/pdf", pdf)
}
