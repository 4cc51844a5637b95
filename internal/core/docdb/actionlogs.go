// Package docdb provides the action logs collection interface.
package docdb

import (
	"context"
	"errors"
	"time"

	"github.com/unifiedui/variables-service/internal/domain/models"
)

// ErrUnknownFilterColumn is returned when a search filter names a column that
// cannot be queried.
var ErrUnknownFilterColumn = errors.New("unknown action log filter column")

// FindActionLogsOptions selects entries with From <= actionTime <= To,
// newest first.
type FindActionLogsOptions struct {
	From    time.Time
	To      time.Time
	Filters []models.ActionLogFilter
}

// ActionLogsCollection defines the interface for action log persistence.
type ActionLogsCollection interface {
	// SaveBatch inserts all entries in one call.
	SaveBatch(ctx context.Context, logs []models.ActionLog) error

	// Find returns the entries matching opts.
	Find(ctx context.Context, opts *FindActionLogsOptions) ([]models.ActionLog, error)

	// CountOlderThan counts entries strictly older than t that match filters.
	CountOlderThan(ctx context.Context, t time.Time, filters []models.ActionLogFilter) (int64, error)

	// DeleteOlderThan removes entries strictly older than t.
	DeleteOlderThan(ctx context.Context, t time.Time) (int64, error)

	// EnsureIndexes creates necessary indexes for the collection.
	EnsureIndexes(ctx context.Context) error
}
