package common

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// SuccessResponse is the envelope of every successful response
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data"`
}

// ErrorResponse is the envelope of every failed response
type ErrorResponse struct {
	Success bool           `json:"success"`
	Error   string         `json:"error"`
	Details map[string]any `json:"details,omitempty"`
}

// APIError is an error with a public status, message and optional details
type APIError struct {
	Status  int
	Message string
	Details map[string]any
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

// NewAPIError creates an APIError
func NewAPIError(status int, message string, details map[string]any) *APIError {
	return &APIError{Status: status, Message: message, Details: details}
}

func BadRequest(message string) *APIError {
	if message == "" {
		message = "Bad Request"
	}
	return NewAPIError(http.StatusBadRequest, message, nil)
}

func Unauthorized(message string) *APIError {
	if message == "" {
		message = "Unauthorized"
	}
	return NewAPIError(http.StatusUnauthorized, message, nil)
}

func Forbidden(message string) *APIError {
	if message == "" {
		message = "Forbidden"
	}
	return NewAPIError(http.StatusForbidden, message, nil)
}

func NotFound(message string, details map[string]any) *APIError {
	if message == "" {
		message = "Not Found"
	}
	return NewAPIError(http.StatusNotFound, message, details)
}

func MethodNotAllowed() *APIError {
	return NewAPIError(http.StatusMethodNotAllowed, "Method Not Allowed", nil)
}

func TooManyRequests() *APIError {
	return NewAPIError(http.StatusTooManyRequests, "Too Many Requests", nil)
}

func InternalError(message string) *APIError {
	if message == "" {
		message = "Internal Server Error"
	}
	return NewAPIError(http.StatusInternalServerError, message, nil)
}

// SendSuccess writes the success envelope
func SendSuccess(c echo.Context, status int, message string, data any) error {
	return c.JSON(status, SuccessResponse{Success: true, Message: message, Data: data})
}

// SendError writes the error envelope
func SendError(c echo.Context, apiErr *APIError) error {
	return c.JSON(apiErr.Status, ErrorResponse{Success: false, Error: apiErr.Message, Details: apiErr.Details})
}

// NewHTTPErrorHandler renders every error returned by a handler or
// middleware in the error envelope. Unknown errors are logged and hidden.
func NewHTTPErrorHandler(log *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var apiErr *APIError
		var httpErr *echo.HTTPError
		switch {
		case errors.As(err, &apiErr):
		case errors.As(err, &httpErr):
			message := http.StatusText(httpErr.Code)
			if m, ok := httpErr.Message.(string); ok && m != "" {
				message = m
			}
			apiErr = NewAPIError(httpErr.Code, message, nil)
		default:
			log.Error("unhandled error",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Request().URL.Path),
				zap.Error(err),
			)
			apiErr = InternalError("")
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(apiErr.Status)
		} else {
			writeErr = SendError(c, apiErr)
		}
		if writeErr != nil {
			log.Error("failed to write error response", zap.Error(writeErr))
		}
	}
}
