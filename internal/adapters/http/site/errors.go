package site

import "errors"

// Error constants
var (
	ErrNilMonitor = errors.New("site: nil monitor")
	ErrNilConsole = errors.New("site: nil console")
	ErrRender     = errors.New("site: render failed")
)
