/*
Package response - unified API responses

Internal error details are logged with the request ID and never returned to
the client.

	success: { success: true, data: {...}, message: "...", code: 200, request_id: "..." }
	failure: { success: false, error: "ERROR_CODE", message: "...", code: 4xx/5xx, request_id: "..." }
*/
package response

import (
	"net/http"

	"github.com/jsupa/turbo-template/pkg/errors"
	"github.com/jsupa/turbo-template/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestIDKey context key for request id propagation
const RequestIDKey = "request_id"

// Response Common response structure
type Response struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Error     string      `json:"error,omitempty"`
	Code      int         `json:"code"`
	Message   string      `json:"message"`
	RequestID string      `json:"request_id,omitempty"`
}

var httpStatusMap = map[errors.ErrorCode]int{
	errors.CodeInternal:       http.StatusInternalServerError,
	errors.CodeBadRequest:     http.StatusBadRequest,
	errors.CodeNotFound:       http.StatusNotFound,
	errors.CodeConflict:       http.StatusConflict,
	errors.CodeTooManyRequest: http.StatusTooManyRequests,
	errors.CodeValidation:     http.StatusBadRequest,
	errors.CodeConnection:     http.StatusServiceUnavailable,
	errors.CodeUserNotFound:   http.StatusNotFound,
	errors.CodeEmailExists:    http.StatusConflict,
}

// StatusFor maps an error code to its HTTP status.
func StatusFor(code errors.ErrorCode) int {
	if status, ok := httpStatusMap[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// GetRequestID returns the request ID set by the request ID middleware.
func GetRequestID(c *gin.Context) string {
	if requestID, exists := c.Get(RequestIDKey); exists {
		if id, ok := requestID.(string); ok {
			return id
		}
	}
	return ""
}

// HandleBindError Handle request binding errors
func HandleBindError(c *gin.Context, err error) {
	requestID := GetRequestID(c)

	logger.Warn("Invalid request parameters",
		zap.String("request_id", requestID),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err))

	c.JSON(http.StatusBadRequest, &Response{
		Success:   false,
		Error:     string(errors.CodeBadRequest),
		Message:   "invalid request parameters",
		Code:      http.StatusBadRequest,
		RequestID: requestID,
	})
}

// HandleAppError maps err to an HTTP status, logs it and writes the error response.
func HandleAppError(c *gin.Context, err error) {
	requestID := GetRequestID(c)
	appErr := errors.FromDomainError(err)
	httpStatus := StatusFor(appErr.Code)

	fields := []zap.Field{
		zap.String("request_id", requestID),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
		zap.String("error_code", string(appErr.Code)),
		zap.Int("http_status", httpStatus),
	}
	if appErr.Err != nil {
		fields = append(fields, zap.Error(appErr.Err))
	}
	if httpStatus >= http.StatusInternalServerError {
		logger.Error(appErr.Message, fields...)
	} else {
		logger.Warn(appErr.Message, fields...)
	}

	message := appErr.Message
	if appErr.Code == errors.CodeInternal {
		message = "internal server error"
	}

	c.JSON(httpStatus, &Response{
		Success:   false,
		Error:     string(appErr.Code),
		Message:   message,
		Code:      httpStatus,
		RequestID: requestID,
	})
}

// HandleSuccess 200 OK
func HandleSuccess(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, &Response{
		Success:   true,
		Data:      data,
		Message:   message,
		Code:      http.StatusOK,
		RequestID: GetRequestID(c),
	})
}

// HandleCreated 201 Created
func HandleCreated(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusCreated, &Response{
		Success:   true,
		Data:      data,
		Message:   message,
		Code:      http.StatusCreated,
		RequestID: GetRequestID(c),
	})
}
