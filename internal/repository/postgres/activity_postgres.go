package postgres

import (
	"context"
	"database/sql"

	"docvault/internal/model"
	"docvault/internal/repository"
)

const defaultActivityLimit = 50

// ActivityPostgres is a PostgreSQL implementation of
// repository.ActivityLogRepository. Rows are append-only; there are no
// UPDATE or DELETE statements in this file by design of the audit contract.
type ActivityPostgres struct {
	db *sql.DB
}

func NewActivityPostgres(db *sql.DB) *ActivityPostgres {
	return &ActivityPostgres{db: db}
}

var _ repository.ActivityLogRepository = (*ActivityPostgres)(nil)

func (r *ActivityPostgres) Append(ctx context.Context, e *model.ActivityLogEntry) error {
	const q = `
		INSERT INTO activity_logs (id, subject_id, action, detail, document_id, session_id, origin_addr, ts)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, q,
		e.ID,
		e.SubjectID,
		e.Action,
		e.Detail,
		e.DocumentID,
		e.SessionID,
		e.OriginAddr,
		e.Timestamp,
	)
	return err
}

func (r *ActivityPostgres) ListBySubject(ctx context.Context, subjectID string, limit int) ([]model.ActivityLogEntry, error) {
	if limit <= 0 {
		limit = defaultActivityLimit
	}
	const q = `
		SELECT id, subject_id, action, detail, document_id, session_id, origin_addr, ts
		FROM activity_logs
		WHERE subject_id = $1
		ORDER BY ts DESC, id DESC
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, q, subjectID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]model.ActivityLogEntry, 0)
	for rows.Next() {
		var e model.ActivityLogEntry
		if err := rows.Scan(
			&e.ID,
			&e.SubjectID,
			&e.Action,
			&e.Detail,
			&e.DocumentID,
			&e.SessionID,
			&e.OriginAddr,
			&e.Timestamp,
		); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}
