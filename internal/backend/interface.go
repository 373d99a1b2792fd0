package backend

import (
	"context"

	"kpitrack/internal/kpi"
)

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// Result contains the created store and an optional cleanup function.
type Result struct {
	Store   kpi.Store
	Cleanup CleanupFunc
}

// Factory creates KPI stores based on configuration
type Factory interface {
	// CreateStore creates a store instance based on the provided config
	CreateStore(ctx context.Context, config Config) (*Result, error)
}

// BackendType represents the type of data backend
type BackendType string

const (
	SQLiteBackend BackendType = "sqlite"
	MemoryBackend BackendType = "memory"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}

// GetBackendTypes returns all valid backend types
func GetBackendTypes() []BackendType {
	return []BackendType{MemoryBackend, SQLiteBackend}
}
