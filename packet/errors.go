package packet

import (
	"errors"
	"fmt"
	"io"
)

// Error kinds. Every decode failure that is not an I/O error from the
// underlying source wraps exactly one of these, so callers can classify
// failures with errors.Is without knowing the specific error.
//
// Truncated input is reported as io.ErrUnexpectedEOF; see IsMalformed.
var (
	// ErrMalformed is returned when the read data is impossible to decode.
	ErrMalformed = errors.New("malformed data")

	// ErrProtocolViolation is returned when well-formed data is not legal
	// in the current connection phase.
	ErrProtocolViolation = errors.New("protocol violation")

	// ErrLimitExceeded is returned when a declared size or nesting depth
	// exceeds a configured bound.
	ErrLimitExceeded = errors.New("limit exceeded")
)

var (
	ErrVarIntTooLong  = fmt.Errorf("%w: VarInt is too long", ErrMalformed)
	ErrVarLongTooLong = fmt.Errorf("%w: VarLong is too long", ErrMalformed)
	ErrNegativeLength = fmt.Errorf("%w: negative length", ErrMalformed)
	ErrStringEncoding = fmt.Errorf("%w: invalid string encoding", ErrMalformed)
	ErrStringTooLong  = fmt.Errorf("%w: string too long", ErrLimitExceeded)
	ErrArrayTooLong   = fmt.Errorf("%w: array too long", ErrLimitExceeded)
)

// IsMalformed reports whether err describes bad input data, either
// explicitly malformed or cut short.
func IsMalformed(err error) bool {
	return errors.Is(err, ErrMalformed) || errors.Is(err, io.ErrUnexpectedEOF)
}

// noEOF converts io.EOF into io.ErrUnexpectedEOF. It is used once a value
// has started, where running out of input is never a clean end.
func noEOF(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}
