package textmap

import "errors"

// Errors returned by New.
var (
	// ErrNilHost indicates New was called without a host.
	ErrNilHost = errors.New("host is nil")

	// ErrInvalidConfig indicates the engine configuration was rejected.
	ErrInvalidConfig = errors.New("invalid engine configuration")
)
