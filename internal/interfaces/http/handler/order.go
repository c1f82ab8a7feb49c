package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	orderapp "github.com/ircomercio/ordens/internal/application/order"
)

// OrderHandler serves the order CRUD surface
type OrderHandler struct {
	BaseHandler
	service *orderapp.Service
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(service *orderapp.Service) *OrderHandler {
	return &OrderHandler{service: service}
}

// RegisterRoutes registers order routes
func (h *OrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	ordens := rg.Group("/ordens")
	{
		ordens.GET("", h.List)
		ordens.GET("/ultimo-numero", h.LastNumber)
		ordens.GET("/:id", h.Get)
		ordens.POST("", h.Create)
		ordens.PUT("/:id", h.Update)
		ordens.PATCH("/:id/status", h.ToggleStatus)
		ordens.DELETE("/:id", h.Delete)
	}
}

// List returns the orders of one calendar month. The "mes" query
// parameter is zero-based (0 = January), matching the historical wire
// contract; absent parameters default to the current month.
func (h *OrderHandler) List(c *gin.Context) {
	now := time.Now()
	mes := int(now.Month()) - 1
	ano := now.Year()

	if raw := c.Query("mes"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 || v > 11 {
			h.BadRequest(c, "Parameter mes must be between 0 and 11")
			return
		}
		mes = v
	}
	if raw := c.Query("ano"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 2000 || v > 2200 {
			h.BadRequest(c, "Parameter ano must be a four-digit year")
			return
		}
		ano = v
	}

	orders, err := h.service.ListByMonth(c.Request.Context(), time.Month(mes+1), ano)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, orders)
}

// LastNumber returns the highest sequential number ever issued
func (h *OrderHandler) LastNumber(c *gin.Context) {
	resp, err := h.service.LastNumber(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Get returns a single order
func (h *OrderHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	resp, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Create persists a new order
func (h *OrderHandler) Create(c *gin.Context) {
	var req orderapp.OrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Update replaces an existing order
func (h *OrderHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	var req orderapp.OrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ToggleStatus flips an order between its variant's two states
func (h *OrderHandler) ToggleStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	var req orderapp.StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.service.ToggleStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete removes an order
func (h *OrderHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
