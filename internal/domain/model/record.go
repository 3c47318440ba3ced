// Package model contains domain models passed between layers.
package model

import (
	"time"

	"github.com/okian/biz/internal/domain/types"
)

// TestRecord is the row written by the MySQL connectivity test.
type TestRecord struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Message   string    `gorm:"size:255" json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// RedisTestResult is the body of a successful GET /api/test-redis.
type RedisTestResult struct {
	Message   string `json:"message"`
	Key       string `json:"key"`
	Value     string `json:"value"`
	Timestamp string `json:"timestamp"`
}

// MySQLTestResult is the body of a successful GET /api/test-mysql.
type MySQLTestResult struct {
	Message        string       `json:"message"`
	InsertedRecord TestRecord   `json:"inserted_record"`
	RecentRecords  []TestRecord `json:"recent_records"`
	Timestamp      string       `json:"timestamp"`
}

// AllTestResult is the body of GET /api/test-all.
type AllTestResult struct {
	Timestamp string            `json:"timestamp"`
	Redis     types.ProbeResult `json:"redis"`
	MySQL     types.ProbeResult `json:"mysql"`
}
