// Package repository holds the Redis and MySQL stores exercised by the
// connectivity checks.
package repository

import (
	"context"
	"time"

	"github.com/okian/biz/internal/domain/model"
)

// Cache is the Redis surface used by the connectivity service.
type Cache interface {
	Ping(ctx context.Context) error
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
}

// Records is the MySQL surface used by the connectivity service.
type Records interface {
	Ping(ctx context.Context) error
	// Migrate creates or updates the test_records table.
	Migrate(ctx context.Context) error
	// Insert writes rec and fills in its ID.
	Insert(ctx context.Context, rec *model.TestRecord) error
	// Recent returns up to n rows, newest first.
	Recent(ctx context.Context, n int) ([]model.TestRecord, error)
}
