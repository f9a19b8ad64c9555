// Package storage persists the client session (access token and user record)
// across process restarts.
package storage

import (
	"context"
	"errors"
	"fmt"
)

// Well-known keys written by the session manager.
const (
	KeyToken = "token"
	KeyUser  = "user"
)

// Drivers accepted by Open.
const (
	DriverFile     = "file"
	DriverMemory   = "memory"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
)

// ErrNotFound is returned by Get when no value is stored under the key.
var ErrNotFound = errors.New("storage: key not found")

// ErrCorrupt is returned by Get when the backing data cannot be parsed.
// Set and Delete replace corrupt data instead of failing.
var ErrCorrupt = errors.New("storage: stored data is corrupt")

// Store is a small durable key-value store. Implementations must be safe for
// concurrent use.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
	Close() error
}

// Options selects and configures a Store backend.
type Options struct {
	Driver      string
	Path        string
	RedisURL    string
	DatabaseURL string
	Prefix      string
}

// Open returns the Store selected by opts.Driver.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Driver {
	case DriverFile, "":
		return NewFileStore(opts.Path)
	case DriverMemory:
		return NewMemoryStore(), nil
	case DriverRedis:
		return NewRedisStore(ctx, opts.RedisURL, opts.Prefix)
	case DriverPostgres:
		return NewPostgresStore(ctx, opts.DatabaseURL)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", opts.Driver)
	}
}
