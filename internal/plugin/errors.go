package plugin

import "errors"

// ErrSuppressed signals that a plugin stopped the pipeline on purpose.
// It is not a failure: the alert was accepted and deliberately not processed.
var ErrSuppressed = errors.New("alert suppressed")

// SuppressedError carries the human-readable reason the pipeline was stopped.
type SuppressedError struct {
	// Reason explains why the alert was not processed.
	Reason string
}

// Suppressed returns a pipeline stop signal with the given reason.
func Suppressed(reason string) error {
	return &SuppressedError{Reason: reason}
}

// Error implements error.
func (e *SuppressedError) Error() string {
	return e.Reason
}

// Is reports SuppressedError as ErrSuppressed.
func (e *SuppressedError) Is(target error) bool {
	return target == ErrSuppressed
}

// IsSuppressed reports whether err is a pipeline stop signal and returns its reason.
func IsSuppressed(err error) (string, bool) {
	var suppressed *SuppressedError
	if errors.As(err, &suppressed) {
		return suppressed.Reason, true
	}

	if errors.Is(err, ErrSuppressed) {
		return ErrSuppressed.Error(), true
	}

	return "", false
}
