package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	contractx "github.com/tanpawarit/qbd-assistant/agent/contract"
	conductorx "github.com/tanpawarit/qbd-assistant/pkg/conductor"
	"github.com/tanpawarit/qbd-assistant/pkg/validation"
)

type envelope struct {
	Success           bool       `json:"success"`
	Data              any        `json:"data,omitempty"`
	Error             *errorBody `json:"error,omitempty"`
	UserFacingMessage string     `json:"userFacingMessage,omitempty"`
}

type errorBody struct {
	Type    string                  `json:"type,omitempty"`
	Code    string                  `json:"code,omitempty"`
	Message string                  `json:"message"`
	Fields  []validation.FieldError `json:"fields,omitempty"`
}

const (
	errorTypeValidation = "VALIDATION_ERROR"
	errorTypeTimeout    = "TIMEOUT_ERROR"
	errorTypeConfig     = "CONFIGURATION_ERROR"
	errorTypeInternal   = "INTERNAL_ERROR"
)

func respond(c *gin.Context, status int, data any, userFacing string) {
	c.JSON(status, envelope{Success: true, Data: data, UserFacingMessage: userFacing})
}

// respondError maps err to a status and writes the error envelope. Remote
// failures keep their technical message in the body and are logged by the
// request logger through c.Error.
func respondError(c *gin.Context, err error) {
	_ = c.Error(err)
	status := statusFor(err)
	c.AbortWithStatusJSON(status, envelope{
		Success:           false,
		Error:             bodyFor(err),
		UserFacingMessage: userFacingFor(err),
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, contractx.ErrValidation), errors.Is(err, contractx.ErrInvalidMessage):
		return http.StatusBadRequest
	case errors.Is(err, conductorx.ErrTimeout):
		return http.StatusGatewayTimeout
	case conductorx.IsConnectionError(err):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func bodyFor(err error) *errorBody {
	var apiErr *conductorx.APIError
	switch {
	case errors.As(err, &apiErr):
		return &errorBody{Type: apiErr.Type, Code: apiErr.Code, Message: apiErr.Message}
	case errors.Is(err, contractx.ErrValidation), errors.Is(err, contractx.ErrInvalidMessage):
		return &errorBody{Type: errorTypeValidation, Message: err.Error(), Fields: validation.FieldErrors(err)}
	case errors.Is(err, conductorx.ErrTimeout):
		return &errorBody{Type: errorTypeTimeout, Message: err.Error()}
	case errors.Is(err, conductorx.ErrUnreachable):
		return &errorBody{Type: conductorx.ErrorTypeIntegrationConnection, Message: err.Error()}
	case errors.Is(err, conductorx.ErrConfigMissing):
		return &errorBody{Type: errorTypeConfig, Message: err.Error()}
	}
	return &errorBody{Type: errorTypeInternal, Message: err.Error()}
}

func userFacingFor(err error) string {
	if errors.Is(err, contractx.ErrValidation) || errors.Is(err, contractx.ErrInvalidMessage) {
		return err.Error()
	}
	return conductorx.UserFacingMessage(err)
}
