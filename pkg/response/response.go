// Package response writes the JSON envelope every API endpoint answers with.
package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// RequestIDKey is the gin context key holding the request correlation id.
const RequestIDKey = "request_id"

type APIResponse[T any] struct {
	Status    int       `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id"`
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	Data      T         `json:"data,omitempty"`
	Meta      any       `json:"meta,omitempty"`
	Error     any       `json:"error,omitempty"`
}

func envelope[T any](c *gin.Context, status int, message string) APIResponse[T] {
	return APIResponse[T]{
		Status:    status,
		Timestamp: time.Now().UTC(),
		RequestID: c.GetString(RequestIDKey),
		Success:   status < http.StatusBadRequest,
		Message:   message,
	}
}

// Success writes data with an optional meta block. Status 0 means 200.
func Success[T any](c *gin.Context, status int, data T, message string, meta any) APIResponse[T] {
	if status == 0 {
		status = http.StatusOK
	}
	res := envelope[T](c, status, message)
	res.Data, res.Meta = data, meta
	c.JSON(status, res)
	return res
}

// Error writes a failure with optional details. Status 0 means 400.
func Error[T any](c *gin.Context, status int, message string, details any) APIResponse[T] {
	if status == 0 {
		status = http.StatusBadRequest
	}
	res := envelope[T](c, status, message)
	res.Success = false
	res.Error = details
	c.JSON(status, res)
	return res
}

// Fail is Error without a data type, for handlers that never return data on failure.
func Fail(c *gin.Context, status int, message string, details any) {
	Error[any](c, status, message, details)
}

// Abort writes the failure and stops the remaining handlers.
func Abort(c *gin.Context, status int, message string, details any) {
	Fail(c, status, message, details)
	c.Abort()
}

func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
