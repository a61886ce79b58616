package posterctl

import "errors"

// Sentinel errors.
var (
	ErrInvalidFormat    = errors.New("invalid output format")
	ErrConflictingInput = errors.New("use either -in or -sample, not both")
	ErrRemote           = errors.New("remote layout failed")
)
