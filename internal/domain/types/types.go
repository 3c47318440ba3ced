// Package types contains the wire shapes shared by the biz API, its client
// and the console views.
package types

import (
	"encoding/json"
)

// Status values reported for the service and its dependencies.
const (
	StatusHealthy        = "healthy"
	StatusConnected      = "connected"
	StatusDisconnected   = "disconnected"
	StatusError          = "error"
	StatusNotInitialized = "not_initialized"
)

// Display fallbacks for missing fields.
const (
	Unknown = "Unknown"
	NA      = "N/A"
)

// HealthStatus is the body of GET /api/health.
type HealthStatus struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Redis     string `json:"redis"`
	MySQL     string `json:"mysql"`
	Timestamp string `json:"timestamp"` // RFC 3339
}

// TestOutcome is the console's record of one connectivity test.
type TestOutcome struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// ProbeResult is one dependency entry of GET /api/test-all.
type ProbeResult struct {
	Status string `json:"status"`
	Test   string `json:"test,omitempty"`
	Error  string `json:"error,omitempty"`
}

// ErrorBody is the failure body of every biz endpoint.
type ErrorBody struct {
	Error string `json:"error"`
}

// Color is the tile color a status renders with.
type Color string

const (
	Green  Color = "green"
	Red    Color = "red"
	Yellow Color = "yellow"
)

// StatusColor maps a status string to its tile color.
func StatusColor(status string) Color {
	switch status {
	case StatusConnected, StatusHealthy:
		return Green
	case StatusDisconnected:
		return Red
	default:
		return Yellow
	}
}

// OrUnknown returns s, or "Unknown" when s is empty.
func OrUnknown(s string) string {
	if s == "" {
		return Unknown
	}
	return s
}

// OrNA returns s, or "N/A" when s is empty.
func OrNA(s string) string {
	if s == "" {
		return NA
	}
	return s
}
