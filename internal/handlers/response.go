package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/staffrevenue/revenue-manager/internal/services"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// SuccessResponse acknowledges a write that returns nothing else
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

var kindStatus = map[services.ErrorKind]int{
	services.KindValidation:          http.StatusBadRequest,
	services.KindNotFound:            http.StatusNotFound,
	services.KindInsufficientBalance: http.StatusBadRequest,
	services.KindConflict:            http.StatusConflict,
	services.KindUnauthorized:        http.StatusUnauthorized,
	services.KindRateLimited:         http.StatusTooManyRequests,
	services.KindStoreUnavailable:    http.StatusServiceUnavailable,
	services.KindInternal:            http.StatusInternalServerError,
}

// StatusForKind maps a service error kind to its HTTP status
func StatusForKind(kind services.ErrorKind) int {
	if status, ok := kindStatus[kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// respondError writes err as an ErrorResponse. Internal failures are logged with
// their cause and answered with the service message only.
func respondError(c *gin.Context, logger logrus.FieldLogger, err error) {
	kind := services.KindOf(err)
	status := StatusForKind(kind)

	message := "Internal server error"
	var svcErr *services.Error
	if errors.As(err, &svcErr) {
		message = svcErr.Message
	}

	var limited *services.RateLimitError
	if errors.As(err, &limited) {
		c.Header("Retry-After", strconv.Itoa(limited.RetryAfterSeconds()))
	}

	if status >= http.StatusInternalServerError {
		logger.WithError(err).WithFields(logrus.Fields{
			"path": c.Request.URL.Path,
			"kind": kind,
		}).Error("Request failed")
		_ = c.Error(err)
	}

	c.JSON(status, ErrorResponse{Error: string(kind), Message: message})
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   string(services.KindValidation),
		Message: message,
	})
}

func ok(c *gin.Context) {
	c.JSON(http.StatusOK, SuccessResponse{Success: true})
}

// paramID parses a positive integer path parameter, answering 400 when it is not one
func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, "Invalid "+name)
		return 0, false
	}
	return id, true
}

// queryInt parses an optional integer query parameter
func queryInt(c *gin.Context, name string) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		badRequest(c, "Invalid "+name)
		return 0, false
	}
	return v, true
}
