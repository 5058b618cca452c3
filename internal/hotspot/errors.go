package hotspot

import (
	"errors"
	"fmt"
)

const (
	KindMalformedDocument      ErrorKind = "malformed_document"
	KindInvalidFrameReference  ErrorKind = "invalid_frame_reference"
	KindInvalidWeight          ErrorKind = "invalid_weight"
	KindUnsupportedProfileType ErrorKind = "unsupported_profile_type"
	KindMalformedEventStream   ErrorKind = "malformed_event_stream"
	KindNonMonotonicTimestamps ErrorKind = "non_monotonic_timestamps"
	KindUnbalancedStack        ErrorKind = "unbalanced_stack"
	KindInvalidEventType       ErrorKind = "invalid_event_type"
	KindUnclosedFrames         ErrorKind = "unclosed_frames"
	KindNoMeasurableActivity   ErrorKind = "no_measurable_activity"
)

type (
	ErrorKind string

	// ValidationError reports a structural problem with the analyzed
	// document. The message names the offending profile, sample or event
	// index where applicable and is safe to surface to the client.
	ValidationError struct {
		Kind    ErrorKind
		Message string
	}
)

func (e *ValidationError) Error() string {
	return e.Message
}

func validationErrorf(kind ErrorKind, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// IsValidationError reports whether err was caused by a malformed or
// unprocessable document, as opposed to an internal failure. Callers use it
// to pick between a 400-class and a 500-class response.
func IsValidationError(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}
