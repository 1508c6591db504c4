package contract

import "errors"

var (
	ErrModelInvoke     = errors.New("model invoke failed")
	ErrSchemaViolation = errors.New("model response violates schema")
	ErrRemoteDisabled  = errors.New("remote model is not configured")
	ErrValidation      = errors.New("validation failed")
)
