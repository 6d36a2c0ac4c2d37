package hevcdec

import (
	"fmt"

	"github.com/pkg/errors"
)

// Sentinel errors for the fatal error taxonomy. Use errors.Is to test for
// these after wrapping with errors.Wrap/errors.Wrapf.
var (
	// ErrTruncatedBitstream is returned when the arithmetic engine runs
	// past the end of the supplied buffer. Fatal for the slice.
	ErrTruncatedBitstream = errors.New("hevcdec: truncated bitstream")

	// ErrBinaryOverflow is returned when a unary prefix reaches
	// CABAC_MAX_BIN without terminating. Spec-illegal; fatal for the block.
	ErrBinaryOverflow = errors.New("hevcdec: binarization exceeded CABAC_MAX_BIN")

	// ErrInvariantViolation is returned when an internal invariant (e.g. a
	// context state outside [0,124]) is violated. Fatal.
	ErrInvariantViolation = errors.New("hevcdec: internal invariant violated")
)

// Warning represents a non-fatal, ignorable condition: the caller may
// continue decoding with the substitution Warning describes.
type Warning struct {
	msg string
}

func (w *Warning) Error() string { return w.msg }

// warnf builds a Warning with a formatted message.
func warnf(format string, args ...interface{}) *Warning {
	return &Warning{msg: fmt.Sprintf(format, args...)}
}
