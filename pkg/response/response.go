package response

import (
	"errors"
	"net/http"
	"time"

	"tutor-settlement/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// HeaderRequestID carries the correlation id in both directions.
	HeaderRequestID = "X-Request-ID"
	// CtxRequestID is the gin context key holding the correlation id.
	CtxRequestID = "request_id"
)

// SuccessResponse is the standard success envelope.
type SuccessResponse struct {
	Data      interface{} `json:"data"`
	RequestID string      `json:"request_id"`
	Timestamp string      `json:"timestamp"`
}

// ErrorResponse is the standard error envelope.
type ErrorResponse struct {
	ErrorCode string `json:"error_code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
	Timestamp string `json:"timestamp"`
}

// OK sends a 200 response with data.
func OK(c *gin.Context, data interface{}) {
	success(c, http.StatusOK, data)
}

// Created sends a 201 response with data.
func Created(c *gin.Context, data interface{}) {
	success(c, http.StatusCreated, data)
}

// Error maps err onto the error envelope. Anything that is not an
// *apperror.AppError is reported as a generic internal error so driver
// messages never reach the client.
func Error(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		appErr = apperror.InternalError(err)
	}
	c.JSON(appErr.HTTPStatus, ErrorResponse{
		ErrorCode: appErr.Code,
		Message:   appErr.Message,
		RequestID: RequestID(c),
		Timestamp: now(),
	})
}

func success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, SuccessResponse{
		Data:      data,
		RequestID: RequestID(c),
		Timestamp: now(),
	})
}

// RequestID returns the correlation id for c. It prefers the value stored by
// the request-id middleware, then an inbound X-Request-ID header, and
// otherwise mints one. The result is stored on c so later calls agree.
func RequestID(c *gin.Context) string {
	if id := c.GetString(CtxRequestID); id != "" {
		return id
	}
	id := ""
	if c.Request != nil {
		id = c.GetHeader(HeaderRequestID)
	}
	if id == "" || len(id) > 128 {
		id = uuid.New().String()
	}
	c.Set(CtxRequestID, id)
	return id
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
