package relaypager

import "errors"

var (
	// ErrImproperlyConfigured is returned while building a field whose types
	// cannot back a connection. It is a setup failure, not a request failure.
	ErrImproperlyConfigured = errors.New("improperly configured")

	// ErrInvalidArgument is returned when pagination arguments are rejected.
	// The resolver is never invoked in that case.
	ErrInvalidArgument = errors.New("invalid argument")
)
