package parser

import (
	"github.com/cockroachdb/errors"
)

// Normalization failures. They are terminal for the payload: no partial trace is returned.
var (
	ErrMalformedPayload  = errors.New("malformed scheduler payload")
	ErrInconsistentShape = errors.New("inconsistent gantt entry shape")
	ErrSchedulerRejected = errors.New("scheduler rejected request")
)

// Error kinds reported by Kind
const (
	KindMalformed         = "malformed"
	KindInconsistentShape = "inconsistent_shape"
	KindRejected          = "rejected"
	KindUnknown           = "unknown"
)

// malformed wraps a detail message under ErrMalformedPayload
func malformed(format string, args ...interface{}) error {
	return errors.Wrapf(ErrMalformedPayload, format, args...)
}

// inconsistent reports a mixed-shape payload. It is marked as malformed as well,
// so callers checking only ErrMalformedPayload treat it the same way.
func inconsistent(format string, args ...interface{}) error {
	return errors.Mark(errors.Wrapf(ErrInconsistentShape, format, args...), ErrMalformedPayload)
}

// Kind classifies a normalization error for logging and metrics
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInconsistentShape):
		return KindInconsistentShape
	case errors.Is(err, ErrSchedulerRejected):
		return KindRejected
	case errors.Is(err, ErrMalformedPayload):
		return KindMalformed
	default:
		return KindUnknown
	}
}

// rejected reports a payload the scheduler itself flagged as failed
func rejected(message string) error {
	return errors.WithDetail(errors.Wrapf(ErrSchedulerRejected, "%s", message), message)
}
