package dto

import "net/http"

// Response represents a standard API response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
}

// ErrorInfo represents error details
type ErrorInfo struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// NewSuccessResponse creates a success response
func NewSuccessResponse(data interface{}) Response {
	return Response{
		Success: true,
		Data:    data,
	}
}

// NewErrorResponse creates an error response
func NewErrorResponse(code, message, requestID string) Response {
	return Response{
		Success: false,
		Error: &ErrorInfo{
			Code:      code,
			Message:   message,
			RequestID: requestID,
		},
	}
}

// Error codes shared across handlers
const (
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeValidation   = "VALIDATION"
	ErrCodeInvalidState = "INVALID_STATE"
	ErrCodeOffline      = "OFFLINE"
	ErrCodeInternal     = "INTERNAL"
)

// httpStatusByCode maps error codes to HTTP status codes. Validation
// style codes raised by the domain layer all collapse to 400.
var httpStatusByCode = map[string]int{
	ErrCodeUnauthorized:   http.StatusUnauthorized,
	ErrCodeNotFound:       http.StatusNotFound,
	"ITEM_NOT_FOUND":      http.StatusNotFound,
	ErrCodeValidation:     http.StatusBadRequest,
	"INVALID_INPUT":       http.StatusBadRequest,
	"INVALID_DATE":        http.StatusBadRequest,
	"INVALID_NUMBER":      http.StatusBadRequest,
	"INVALID_RESPONSIBLE": http.StatusBadRequest,
	"INVALID_SUPPLIER":    http.StatusBadRequest,
	ErrCodeInvalidState:   http.StatusUnprocessableEntity,
	ErrCodeOffline:        http.StatusBadGateway,
	ErrCodeInternal:       http.StatusInternalServerError,
}

// GetHTTPStatus maps an error code to its HTTP status, defaulting to 500
func GetHTTPStatus(code string) int {
	if status, ok := httpStatusByCode[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
