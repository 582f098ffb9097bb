package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"docvault/internal/model"
	"docvault/internal/repository"
)

const grantColumns = `id, document_id, owner_id, subject, permission, status, granted_at`

// SharePostgres is a PostgreSQL implementation of
// repository.ShareGrantRepository.
type SharePostgres struct {
	db *sql.DB
}

func NewSharePostgres(db *sql.DB) *SharePostgres {
	return &SharePostgres{db: db}
}

var _ repository.ShareGrantRepository = (*SharePostgres)(nil)

func scanGrant(row interface{ Scan(dest ...any) error }) (*model.ShareGrant, error) {
	var g model.ShareGrant
	if err := row.Scan(
		&g.ID,
		&g.DocumentID,
		&g.OwnerID,
		&g.Subject,
		&g.Permission,
		&g.Status,
		&g.GrantedAt,
	); err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *SharePostgres) Create(ctx context.Context, g *model.ShareGrant) (*model.ShareGrant, error) {
	const q = `
		INSERT INTO share_grants (` + grantColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + grantColumns
	row := r.db.QueryRowContext(ctx, q,
		g.ID,
		g.DocumentID,
		g.OwnerID,
		g.Subject,
		g.Permission,
		g.Status,
		g.GrantedAt,
	)
	return scanGrant(row)
}

func (r *SharePostgres) FindByID(ctx context.Context, id string) (*model.ShareGrant, error) {
	const q = `SELECT ` + grantColumns + ` FROM share_grants WHERE id = $1`
	g, err := scanGrant(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return g, nil
}

func (r *SharePostgres) ListBySubject(ctx context.Context, subjects []string) ([]model.ShareGrant, error) {
	cleaned := make([]string, 0, len(subjects))
	for _, s := range subjects {
		if s != "" {
			cleaned = append(cleaned, s)
		}
	}
	if len(cleaned) == 0 {
		return []model.ShareGrant{}, nil
	}

	const q = `
		SELECT ` + grantColumns + `
		FROM share_grants
		WHERE subject = ANY($1) AND status = 'active'
		ORDER BY granted_at DESC, id DESC
	`
	rows, err := r.db.QueryContext(ctx, q, pq.Array(cleaned))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectGrants(rows)
}

func (r *SharePostgres) ListActiveForDocument(ctx context.Context, documentID, subject string) ([]model.ShareGrant, error) {
	const q = `
		SELECT ` + grantColumns + `
		FROM share_grants
		WHERE document_id = $1 AND subject = $2 AND status = 'active'
		ORDER BY granted_at DESC, id DESC
	`
	rows, err := r.db.QueryContext(ctx, q, documentID, subject)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectGrants(rows)
}

func (r *SharePostgres) MarkRevoked(ctx context.Context, id string) error {
	const q = `UPDATE share_grants SET status = 'revoked' WHERE id = $1 AND status = 'active'`
	res, err := r.db.ExecContext(ctx, q, id)
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

func collectGrants(rows *sql.Rows) ([]model.ShareGrant, error) {
	grants := make([]model.ShareGrant, 0)
	for rows.Next() {
		g, err := scanGrant(rows)
		if err != nil {
			return nil, err
		}
		grants = append(grants, *g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return grants, nil
}
