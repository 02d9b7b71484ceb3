// Package store persists solve history: the input scenario, the enriched
// output, and where the request came from.
package store

import (
	"context"
	"time"

	"github.com/ntkit/ntsolve/internal/model"
)

// Solve is one recorded resolution.
type Solve struct {
	ID        string         `json:"id"`
	Input     model.Scenario `json:"input"`
	Output    model.Scenario `json:"output"`
	Source    string         `json:"source"`
	CreatedAt time.Time      `json:"created_at"`
}

// Store defines the persistence interface for solve history.
type Store interface {
	// Save records one resolution. Source identifies the caller surface
	// ("solve", "batch", "serve").
	Save(ctx context.Context, input, output model.Scenario, source string) (*Solve, error)
	// List returns the most recent solves, newest first.
	List(ctx context.Context, limit int) ([]Solve, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
