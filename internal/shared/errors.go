package shared

import (
	"errors"
	"fmt"
)

// Sentinel errors. Callers wrap them with %w and the CLI maps them to exit codes.
var (
	ErrMissingArgument = errors.New("missing required argument")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrInvalidConfig   = errors.New("invalid configuration")

	ErrMissingCredentials = errors.New("missing credentials")
	ErrAuthFailed         = errors.New("authentication failed")
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrTimeout            = errors.New("operation timed out")

	// ErrAPIRequest is a non-2xx response; it matches ErrTransport too.
	ErrTransport          = errors.New("transport failure")
	ErrAPIRequest         = fmt.Errorf("%w: API request failed", ErrTransport)
	ErrPaginationExceeded = errors.New("pagination exceeded")

	ErrParse      = errors.New("parse error")
	ErrFilesystem = errors.New("filesystem failure")
)
