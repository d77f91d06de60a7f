// internal/utils/response.go
package utils

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/price-tracker/internal/i18n"
)

// Context keys shared by middleware and handlers.
const (
	ContextKeyLang     = "lang"
	ContextKeyUserID   = "user_id"
	ContextKeyUsername = "username"
)

type ErrorCode string

const (
	CodeBadRequest   ErrorCode = "BAD_REQUEST"
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"
	CodeForbidden    ErrorCode = "FORBIDDEN"
	CodeNotFound     ErrorCode = "NOT_FOUND"
	CodeRateLimited  ErrorCode = "RATE_LIMITED"
	CodeUpstream     ErrorCode = "UPSTREAM_ERROR"
	CodeInternal     ErrorCode = "INTERNAL_ERROR"
)

// APIResponse is the envelope of every JSON body except the ingestion summary.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *ListMeta   `json:"meta,omitempty"`
}

type APIError struct {
	Code    ErrorCode   `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

type ListMeta struct {
	Total int `json:"total"`
}

func SuccessResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// ListResponse returns an unpaged collection with its size.
func ListResponse(c *gin.Context, data interface{}, total int) {
	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    data,
		Meta:    &ListMeta{Total: total},
	})
}

// ErrorResponse writes the error envelope and aborts the handler chain, so
// middleware can return right after calling it.
func ErrorResponse(c *gin.Context, statusCode int, code ErrorCode, message string, details interface{}) {
	c.AbortWithStatusJSON(statusCode, APIResponse{
		Error: &APIError{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

func BadRequestResponse(c *gin.Context, message string, details interface{}) {
	if message == "" {
		message = i18n.T(GetLangFromContext(c), i18n.KeyValidationInvalid, "request")
	}
	ErrorResponse(c, http.StatusBadRequest, CodeBadRequest, message, details)
}

func UnauthorizedResponse(c *gin.Context, message string) {
	if message == "" {
		message = i18n.T(GetLangFromContext(c), i18n.KeyAuthRequired)
	}
	ErrorResponse(c, http.StatusUnauthorized, CodeUnauthorized, message, nil)
}

func ForbiddenResponse(c *gin.Context, message string) {
	if message == "" {
		message = i18n.T(GetLangFromContext(c), i18n.KeyAdminAccessDenied)
	}
	ErrorResponse(c, http.StatusForbidden, CodeForbidden, message, nil)
}

// NotFoundResponse localises key, e.g. i18n.KeyProductNotFound.
func NotFoundResponse(c *gin.Context, key string) {
	ErrorResponse(c, http.StatusNotFound, CodeNotFound, i18n.T(GetLangFromContext(c), key), nil)
}

// TooManyRequestsResponse tells the client how long to wait, rounded up to whole seconds.
func TooManyRequestsResponse(c *gin.Context, retryAfter time.Duration) {
	if retryAfter > 0 {
		c.Header("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
	}
	ErrorResponse(c, http.StatusTooManyRequests, CodeRateLimited, i18n.T(GetLangFromContext(c), i18n.KeyRateLimited), nil)
}

func BadGatewayResponse(c *gin.Context, message string, details interface{}) {
	ErrorResponse(c, http.StatusBadGateway, CodeUpstream, message, details)
}

func InternalErrorResponse(c *gin.Context, message string) {
	if message == "" {
		message = i18n.T(GetLangFromContext(c), i18n.KeyInternalError)
	}
	ErrorResponse(c, http.StatusInternalServerError, CodeInternal, message, nil)
}

func GetLangFromContext(c *gin.Context) string {
	if lang := c.GetString(ContextKeyLang); lang != "" {
		return lang
	}
	return "en"
}

func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userID := c.GetString(ContextKeyUserID)
	return userID, userID != ""
}
