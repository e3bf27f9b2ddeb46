package storage

import (
	"context"

	"tactile/internal/model"
)

// Store persists prepared training runs.
type Store interface {
	Init(ctx context.Context) error
	SaveRun(ctx context.Context, run model.RunRecord) error
	GetRun(ctx context.Context, id string) (model.RunRecord, bool, error)
	// ListRuns returns runs newest first.
	ListRuns(ctx context.Context) ([]model.RunRecord, error)
}
