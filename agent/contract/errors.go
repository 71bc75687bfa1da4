package contract

import (
	"errors"

	conductorx "github.com/tanpawarit/qbd-assistant/pkg/conductor"
)

var (
	ErrModelInvoke     = errors.New("model invoke failed")
	ErrSchemaViolation = errors.New("model response violates schema")
	ErrPromptMissing   = errors.New("required prompt is missing")
	ErrValidation      = errors.New("validation failed")
	ErrInvalidMessage  = errors.New("message is empty")

	ErrConfigMissing = conductorx.ErrConfigMissing
	ErrTimeout       = conductorx.ErrTimeout
)
