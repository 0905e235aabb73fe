package backend

import (
	"context"
	"time"

	"fintrack/internal/ledger"
)

// Backend is the ledger store every data backend provides.
type Backend = ledger.Store

// CleanupFunc releases the resources held by a backend.
type CleanupFunc func(ctx context.Context) error

// BackendResult contains the backend instance and optional cleanup function
type BackendResult struct {
	Backend Backend
	Cleanup CleanupFunc
}

// Close runs the cleanup function if there is one.
func (r *BackendResult) Close(ctx context.Context) error {
	if r == nil || r.Cleanup == nil {
		return nil
	}
	return r.Cleanup(ctx)
}

// Ping probes the backend when it supports it; in-process backends are always ready.
func (r *BackendResult) Ping(ctx context.Context) error {
	if p, ok := r.Backend.(ledger.Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

// Factory creates backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	// SQLite specific
	SQLiteDBPath string

	// MongoDB specific
	MongoURI      string
	MongoDatabase string
	MongoTimeout  time.Duration

	// Memory backend specific
	DataDirectory string
}

// BackendType represents the type of backend
type BackendType string

const (
	MemoryBackend BackendType = "memory"
	SQLiteBackend BackendType = "sqlite"
	MongoBackend  BackendType = "mongo"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case MemoryBackend, SQLiteBackend, MongoBackend:
		return true
	default:
		return false
	}
}
