package repository

import (
	"context"

	"docvault/internal/model"
)

// ActivityLogRepository is the durable audit sink. Append-only by
// contract: there are no update or delete operations.
type ActivityLogRepository interface {
	Append(ctx context.Context, e *model.ActivityLogEntry) error

	// ListBySubject returns the subject's entries, newest first, capped at
	// limit (a non-positive limit applies a server-side default).
	ListBySubject(ctx context.Context, subjectID string, limit int) ([]model.ActivityLogEntry, error)
}
