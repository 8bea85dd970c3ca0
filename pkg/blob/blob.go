// Package blob provides the durable key-value blob store the shopping state
// is persisted to. Every driver stores opaque byte payloads under string keys
// and reads or writes several keys per call.
package blob

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
)

// Driver identifies a concrete blob storage backend implementation.
type Driver string

const (
	DriverFilesystem Driver = "fs"     // local directory (default)
	DriverSQLite     Driver = "sqlite" // single sqlite database file
	DriverS3         Driver = "s3"     // S3 / MinIO compatible
	DriverMemory     Driver = "memory" // in-memory (tests)
)

// Store is a durable key-value blob store.
type Store interface {
	// ReadMany returns the payload of every requested key that exists. Absent
	// keys are omitted from the result rather than reported as errors.
	ReadMany(ctx context.Context, keys []string) (map[string][]byte, error)
	// WriteMany stores every entry, replacing existing payloads. Each key is
	// written independently; a failure may leave earlier keys written.
	WriteMany(ctx context.Context, entries map[string][]byte) error
	// Driver returns the configured backend driver.
	Driver() Driver
	// Close releases resources held by the store.
	Close() error
}

var (
	// ErrUnknownDriver is returned by Open for an unsupported driver name.
	ErrUnknownDriver = errors.New("blob: unknown driver")
	// ErrInvalidKey is returned for keys that are empty or escape the store.
	ErrInvalidKey = errors.New("blob: invalid key")
)

// sanitizeKey ensures a key can be mapped onto a relative path: no traversal,
// no absolute paths.
func sanitizeKey(key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", fmt.Errorf("%w: empty key", ErrInvalidKey)
	}
	if strings.Contains(key, "..") {
		return "", fmt.Errorf("%w: %q contains '..'", ErrInvalidKey, key)
	}
	if strings.HasPrefix(key, "/") {
		return "", fmt.Errorf("%w: %q is absolute", ErrInvalidKey, key)
	}
	return path.Clean(key), nil
}
