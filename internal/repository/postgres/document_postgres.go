package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"docvault/internal/model"
	"docvault/internal/repository"
)

const documentColumns = `id, owner_id, file_name, content_type, size, retrieval_url, storage_path,
		category, description, status, shared_with, download_count, created_at, updated_at, last_accessed_at`

// DocumentPostgres is a PostgreSQL implementation of
// repository.DocumentRepository. It uses database/sql with parameterized
// queries and contains no business logic.
type DocumentPostgres struct {
	db *sql.DB
}

// NewDocumentPostgres creates a new DocumentPostgres repository.
func NewDocumentPostgres(db *sql.DB) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

func scanDocument(row interface{ Scan(dest ...any) error }) (*model.Document, error) {
	var d model.Document
	if err := row.Scan(
		&d.ID,
		&d.OwnerID,
		&d.FileName,
		&d.ContentType,
		&d.Size,
		&d.RetrievalURL,
		&d.StoragePath,
		&d.Category,
		&d.Description,
		&d.Status,
		pq.Array(&d.SharedWith),
		&d.DownloadCount,
		&d.CreatedAt,
		&d.UpdatedAt,
		&d.LastAccessedAt,
	); err != nil {
		return nil, err
	}
	return &d, nil
}

// Create inserts a new document row and returns the stored record.
func (r *DocumentPostgres) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	const q = `
		INSERT INTO documents (` + documentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING ` + documentColumns
	row := r.db.QueryRowContext(ctx, q,
		doc.ID,
		doc.OwnerID,
		doc.FileName,
		doc.ContentType,
		doc.Size,
		doc.RetrievalURL,
		doc.StoragePath,
		doc.Category,
		doc.Description,
		doc.Status,
		pq.Array(doc.SharedWith),
		doc.DownloadCount,
		doc.CreatedAt,
		doc.UpdatedAt,
		doc.LastAccessedAt,
	)
	return scanDocument(row)
}

// FindByID fetches a single active document by its ID.
func (r *DocumentPostgres) FindByID(ctx context.Context, id string) (*model.Document, error) {
	const q = `
		SELECT ` + documentColumns + `
		FROM documents
		WHERE id = $1 AND status = 'active'
	`
	doc, err := scanDocument(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return doc, nil
}

// ListByOwner returns the owner's active documents ordered by creation time
// descending, optionally narrowed by category.
func (r *DocumentPostgres) ListByOwner(ctx context.Context, ownerID string, f repository.DocumentFilter) ([]model.Document, error) {
	q := `
		SELECT ` + documentColumns + `
		FROM documents
		WHERE owner_id = $1 AND status = 'active'
	`
	args := []any{ownerID}
	if f.Category != "" {
		q += ` AND category = $2`
		args = append(args, f.Category)
	}
	q += ` ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	docs := make([]model.Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return docs, nil
}

// UpdateMeta replaces category and description on an active row.
func (r *DocumentPostgres) UpdateMeta(ctx context.Context, id string, category model.Category, description string, updatedAt time.Time) error {
	const q = `
		UPDATE documents
		SET category = $2, description = $3, updated_at = $4
		WHERE id = $1 AND status = 'active'
	`
	return r.execExpectingRow(ctx, q, id, category, description, updatedAt)
}

// MarkDeleted soft-deletes an active row; the row is retained.
func (r *DocumentPostgres) MarkDeleted(ctx context.Context, id string, at time.Time) error {
	const q = `
		UPDATE documents
		SET status = 'deleted', updated_at = $2
		WHERE id = $1 AND status = 'active'
	`
	return r.execExpectingRow(ctx, q, id, at)
}

// AddSharedSubject appends subject to the share list unless already present.
func (r *DocumentPostgres) AddSharedSubject(ctx context.Context, id, subject string) error {
	const q = `
		UPDATE documents
		SET shared_with = array_append(shared_with, $2)
		WHERE id = $1 AND status = 'active' AND NOT ($2 = ANY(shared_with))
	`
	// Zero rows affected also covers "already shared", which is not an error.
	_, err := r.db.ExecContext(ctx, q, id, subject)
	return err
}

// RemoveSharedSubject removes subject from the share list.
func (r *DocumentPostgres) RemoveSharedSubject(ctx context.Context, id, subject string) error {
	const q = `
		UPDATE documents
		SET shared_with = array_remove(shared_with, $2)
		WHERE id = $1 AND status = 'active'
	`
	_, err := r.db.ExecContext(ctx, q, id, subject)
	return err
}

// IncrementDownload bumps the counter server-side so concurrent downloads
// never lose increments.
func (r *DocumentPostgres) IncrementDownload(ctx context.Context, id string, at time.Time) error {
	const q = `
		UPDATE documents
		SET download_count = download_count + 1, last_accessed_at = $2
		WHERE id = $1 AND status = 'active'
	`
	return r.execExpectingRow(ctx, q, id, at)
}

// TouchAccessed stamps last_accessed_at on an active row.
func (r *DocumentPostgres) TouchAccessed(ctx context.Context, id string, at time.Time) error {
	const q = `
		UPDATE documents
		SET last_accessed_at = $2
		WHERE id = $1 AND status = 'active'
	`
	return r.execExpectingRow(ctx, q, id, at)
}

func (r *DocumentPostgres) execExpectingRow(ctx context.Context, q string, args ...any) error {
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
