package roaring

import "github.com/pkg/errors"

var (
	// ErrInvalidCookie is returned when decoding data which does not start with
	// one of the known cookies of the format.
	ErrInvalidCookie = errors.New("roaring: invalid cookie")

	// ErrInvalidFormat is returned when decoding data which is structurally
	// impossible, such as unordered keys or a cardinality that does not match
	// the payload of a container.
	ErrInvalidFormat = errors.New("roaring: invalid format")
)
