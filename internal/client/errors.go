package client

import "errors"

// Sentinel errors returned by Client.
var (
	ErrHealthStatus = errors.New("failed to fetch health status")
	ErrBaseURL      = errors.New("invalid base url")
)
