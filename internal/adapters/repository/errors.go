package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrKeyNotFound  = errors.New("key not found")
	ErrInvalidLimit = errors.New("invalid limit")
	ErrOpen         = errors.New("open store failed")
)
