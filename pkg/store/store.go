// Package store persists finished quality reports so runs can be
// compared over time. Two backends: a local directory and Redis.
package store

import (
	"context"

	"github.com/opendq/opendq/pkg/report"
)

// Store archives report JSON by report ID.
type Store interface {
	// Save persists a finalized report.
	Save(ctx context.Context, rep *report.Report) error

	// Get returns the stored JSON for a report ID.
	Get(ctx context.Context, id string) ([]byte, error)

	// List returns the stored report IDs.
	List(ctx context.Context) ([]string, error)

	// Close releases backend resources.
	Close() error
}
