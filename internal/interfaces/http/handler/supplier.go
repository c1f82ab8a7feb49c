package handler

import (
	"github.com/gin-gonic/gin"

	partnerapp "github.com/ircomercio/ordens/internal/application/partner"
)

// SupplierHandler serves the read-only supplier catalog
type SupplierHandler struct {
	BaseHandler
	service *partnerapp.Service
}

// NewSupplierHandler creates a new SupplierHandler
func NewSupplierHandler(service *partnerapp.Service) *SupplierHandler {
	return &SupplierHandler{service: service}
}

// RegisterRoutes registers supplier routes
func (h *SupplierHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/fornecedores", h.List)
}

// List returns every known supplier ordered by company name
func (h *SupplierHandler) List(c *gin.Context) {
	suppliers, err := h.service.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, suppliers)
}
