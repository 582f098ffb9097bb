package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docvault/internal/model"
	"docvault/internal/repository"
)

var shareColumns = []string{"id", "document_id", "owner_id", "subject", "permission", "status", "granted_at"}

func sampleGrant(now time.Time) *model.ShareGrant {
	return &model.ShareGrant{
		ID:         "grant-1",
		DocumentID: "doc-1",
		OwnerID:    "owner-1",
		Subject:    "friend@example.com",
		Permission: model.PermissionView,
		Status:     model.GrantActive,
		GrantedAt:  now,
	}
}

func addGrantRow(rows *sqlmock.Rows, g *model.ShareGrant) *sqlmock.Rows {
	return rows.AddRow(g.ID, g.DocumentID, g.OwnerID, g.Subject, string(g.Permission), string(g.Status), g.GrantedAt)
}

func TestSharePostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewSharePostgres(db)
	ctx := context.Background()
	now := time.Now().UTC()
	grant := sampleGrant(now)

	rows := addGrantRow(sqlmock.NewRows(shareColumns), grant)
	mock.ExpectQuery(`INSERT INTO share_grants`).
		WithArgs(grant.ID, grant.DocumentID, grant.OwnerID, grant.Subject, grant.Permission, grant.Status, grant.GrantedAt).
		WillReturnRows(rows)

	stored, err := repo.Create(ctx, grant)
	require.NoError(t, err)
	assert.Equal(t, grant.ID, stored.ID)
	assert.Equal(t, model.GrantActive, stored.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSharePostgres_FindByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewSharePostgres(db)

	mock.ExpectQuery(`SELECT .+ FROM share_grants WHERE id = \$1`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(shareColumns))

	grant, err := repo.FindByID(context.Background(), "missing")
	assert.Nil(t, grant)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSharePostgres_ListBySubject(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewSharePostgres(db)
	now := time.Now().UTC()

	rows := sqlmock.NewRows(shareColumns)
	addGrantRow(rows, sampleGrant(now))

	mock.ExpectQuery(`FROM share_grants\s+WHERE subject = ANY\(\$1\) AND status = 'active'`).
		WillReturnRows(rows)

	grants, err := repo.ListBySubject(context.Background(), []string{"friend@example.com", ""})
	require.NoError(t, err)
	require.Len(t, grants, 1)
	assert.Equal(t, "grant-1", grants[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSharePostgres_ListBySubject_NoIdentifiers(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewSharePostgres(db)

	// Empty identifiers never hit the database.
	grants, err := repo.ListBySubject(context.Background(), []string{""})
	require.NoError(t, err)
	assert.Empty(t, grants)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSharePostgres_MarkRevoked(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewSharePostgres(db)
	ctx := context.Background()

	t.Run("active grant revoked", func(t *testing.T) {
		mock.ExpectExec(`UPDATE share_grants SET status = 'revoked'`).
			WithArgs("grant-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.MarkRevoked(ctx, "grant-1"))
	})

	t.Run("already revoked", func(t *testing.T) {
		mock.ExpectExec(`UPDATE share_grants SET status = 'revoked'`).
			WithArgs("grant-1").
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.MarkRevoked(ctx, "grant-1"), repository.ErrNotFound)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
