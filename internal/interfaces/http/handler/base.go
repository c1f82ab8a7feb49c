package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ircomercio/ordens/internal/domain/shared"
	"github.com/ircomercio/ordens/internal/interfaces/http/dto"
)

// RequestIDKey is the context key for request ID
const RequestIDKey = "request_id"

// BaseHandler provides common handler utilities
type BaseHandler struct{}

func getRequestID(c *gin.Context) string {
	if id := c.GetString(RequestIDKey); id != "" {
		return id
	}
	return c.GetHeader("X-Request-ID")
}

// Success sends a 200 success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// BadRequest sends a 400 validation error response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.ErrCodeValidation, message, getRequestID(c)))
}

// HandleError converts domain and transport errors to HTTP responses
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		status := dto.GetHTTPStatus(domainErr.Code)
		c.JSON(status, dto.NewErrorResponse(domainErr.Code, domainErr.Message, getRequestID(c)))
		return
	}

	c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(
		dto.ErrCodeInternal,
		"An unexpected error occurred",
		getRequestID(c),
	))
}
