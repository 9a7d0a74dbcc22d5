// Package store persists optical-gain reports by run.
package store

import (
	"context"
	"fmt"

	"github.com/cwbudde/algo-optgain/measure/ogain"
)

// Run is one persisted estimation run.
type Run struct {
	ID     string
	Ticks  int
	Report ogain.Report
}

// Store saves and loads runs.
type Store interface {
	Init(ctx context.Context) error
	SaveRun(ctx context.Context, run Run) error
	GetRun(ctx context.Context, id string) (Run, bool, error)
	RunIDs(ctx context.Context) ([]string, error)
	Close() error
}

// NewStore returns a store of the given kind: "memory" (the default) or
// "sqlite" backed by the file at path.
func NewStore(kind, path string) (Store, error) {
	switch kind {
	case "", "memory":
		return NewMemoryStore(), nil
	case "sqlite":
		return NewSQLiteStore(path), nil
	default:
		return nil, fmt.Errorf("unsupported store backend: %s", kind)
	}
}
