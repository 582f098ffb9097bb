package repository

import (
	"context"

	"docvault/internal/model"
)

// ShareGrantRepository persists share grants. Grants are append-only facts;
// revocation flips status rather than deleting the row.
type ShareGrantRepository interface {
	// Create inserts a grant and returns the stored record.
	Create(ctx context.Context, g *model.ShareGrant) (*model.ShareGrant, error)

	// FindByID returns a grant regardless of status, or ErrNotFound.
	FindByID(ctx context.Context, id string) (*model.ShareGrant, error)

	// ListBySubject returns active grants whose subject matches any of the
	// given identifiers, newest first. Empty identifiers are ignored.
	ListBySubject(ctx context.Context, subjects []string) ([]model.ShareGrant, error)

	// ListActiveForDocument returns the active grants for one
	// (document, subject) pair. Used to compute the effective permission
	// and to decide whether revocation clears the document's share list.
	ListActiveForDocument(ctx context.Context, documentID, subject string) ([]model.ShareGrant, error)

	// MarkRevoked flips an active grant to revoked, or ErrNotFound.
	MarkRevoked(ctx context.Context, id string) error
}
