package api

import "errors"

// Sentinel kinds for API errors.
var (
	ErrMethodNotAllowed = errors.New("method not allowed")
	ErrNilDependencies  = errors.New("api: nil dependencies")
)
