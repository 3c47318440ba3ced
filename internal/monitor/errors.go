package monitor

import "errors"

// Sentinel errors returned by Monitor.
var (
	ErrAlreadyStarted = errors.New("monitor already started")
	ErrNilFetcher     = errors.New("monitor: nil fetcher")
)
