package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type APIResponse struct {
	Status  string      `json:"status"`
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	TraceID string      `json:"trace_id,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// LoggerKey holds the request scoped *zap.Logger set by the access log middleware.
const LoggerKey = "logger"

func traceID(c *gin.Context) string {
	return c.GetString("trace_id")
}

// RequestLogger returns the logger attached to c, or the global one when the
// request did not pass through the access log middleware.
func RequestLogger(c *gin.Context) *zap.Logger {
	if v, ok := c.Get(LoggerKey); ok {
		if log, ok := v.(*zap.Logger); ok {
			return log
		}
	}
	return zap.L().With(zap.String("trace_id", traceID(c)))
}

// RespondOK writes the resource itself; clients of the payment service read
// DTOs directly rather than an envelope.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

func RespondError(c *gin.Context, code int, message string) {
	c.JSON(code, APIResponse{
		Status:  "error",
		Code:    code,
		Message: message,
		TraceID: traceID(c),
	})
}

func HandleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrPaymentNotFound):
		RespondError(c, http.StatusNotFound, "Payment not found")
	case errors.Is(err, ErrRefundNotFound):
		RespondError(c, http.StatusNotFound, "Refund not found")
	case errors.Is(err, ErrPaymentMethodNotFound):
		RespondError(c, http.StatusNotFound, "Payment method not found")
	case errors.Is(err, ErrInvalidState):
		RespondError(c, http.StatusBadRequest, "Payment not completed")
	case errors.Is(err, ErrInvalidAmount):
		RespondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrPaymentMethodInactive):
		RespondError(c, http.StatusBadRequest, "Payment method is not active")
	case errors.Is(err, ErrInvalidStatus):
		RespondError(c, http.StatusBadRequest, "Unknown payment status")
	case errors.Is(err, ErrInvalidPage):
		RespondError(c, http.StatusBadRequest, "skip must be zero or greater")
	case errors.Is(err, ErrInvalidPageSize):
		RespondError(c, http.StatusBadRequest, "limit must be between 1 and 100")
	case errors.Is(err, ErrDatabaseError):
		RequestLogger(c).Error("database error", zap.Error(err))
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	default:
		RequestLogger(c).Error("unhandled service error", zap.Error(err))
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	}
}
