package outputs

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedResponse reports invalid JSON or nesting beyond the
	// configured depth.
	ErrMalformedResponse = errors.New("outputs: malformed response")
	// ErrDecode is matched by every DecodeError.
	ErrDecode = errors.New("outputs: decode failed")
)

// DecodeError describes a media leaf that could not be decoded.
type DecodeError struct {
	Index int
	Kind  LeafKind
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("outputs: decode %s leaf %d: %v", e.Kind, e.Index, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrDecode) match any DecodeError.
func (e *DecodeError) Is(target error) bool { return target == ErrDecode }

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedResponse, fmt.Sprintf(format, args...))
}
