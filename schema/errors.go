package schema

import (
	"errors"
	"fmt"
)

// ErrModelNotLoaded is returned when an operation needs a model that is absent.
var ErrModelNotLoaded = errors.New("model not loaded")

// ErrRegistryDisabled is returned when writing to the none model backend.
var ErrRegistryDisabled = errors.New("model registry is disabled")

// ValidationError reports a missing or malformed input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid field %s: %s", e.Field, e.Reason)
}

// Prediction stages.
const (
	StageScale    = "scale"
	StageClassify = "classify"
)

// PredictionError reports a failure inside the scaler or the classifier.
type PredictionError struct {
	Stage string
	Cause error
}

func (e *PredictionError) Error() string {
	return fmt.Sprintf("prediction failed at %s: %v", e.Stage, e.Cause)
}

func (e *PredictionError) Unwrap() error {
	return e.Cause
}

// IsValidationError reports whether err is or wraps a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
