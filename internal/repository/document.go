package repository

import (
	"context"
	"time"

	"docvault/internal/model"
)

// DocumentFilter narrows ListByOwner. The zero value selects every active
// document the owner has.
type DocumentFilter struct {
	Category model.Category
}

// DocumentRepository is the persistence contract for document metadata.
// Reads only ever see active rows; soft-deleted rows are retained but
// invisible to every method except the audit trail.
type DocumentRepository interface {
	// Create inserts a new document row and returns the stored record.
	Create(ctx context.Context, doc *model.Document) (*model.Document, error)

	// FindByID returns the active document with the given id, or ErrNotFound.
	FindByID(ctx context.Context, id string) (*model.Document, error)

	// ListByOwner returns the owner's active documents, newest first,
	// optionally narrowed by category.
	ListByOwner(ctx context.Context, ownerID string, f DocumentFilter) ([]model.Document, error)

	// UpdateMeta replaces category and description and bumps updated_at.
	UpdateMeta(ctx context.Context, id string, category model.Category, description string, updatedAt time.Time) error

	// MarkDeleted transitions an active row to deleted. The row is retained.
	MarkDeleted(ctx context.Context, id string, at time.Time) error

	// AddSharedSubject appends a subject to the share list if absent.
	AddSharedSubject(ctx context.Context, id, subject string) error

	// RemoveSharedSubject removes a subject from the share list.
	RemoveSharedSubject(ctx context.Context, id, subject string) error

	// IncrementDownload atomically bumps download_count server-side and
	// stamps last_accessed_at, avoiding the lost-update race of a
	// read-modify-write cycle.
	IncrementDownload(ctx context.Context, id string, at time.Time) error

	// TouchAccessed stamps last_accessed_at.
	TouchAccessed(ctx context.Context, id string, at time.Time) error
}
