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

var docColumns = []string{
	"id", "owner_id", "file_name", "content_type", "size", "retrieval_url", "storage_path",
	"category", "description", "status", "shared_with", "download_count",
	"created_at", "updated_at", "last_accessed_at",
}

func addDocRow(rows *sqlmock.Rows, d *model.Document) *sqlmock.Rows {
	return rows.AddRow(
		d.ID, d.OwnerID, d.FileName, d.ContentType, d.Size, d.RetrievalURL, d.StoragePath,
		string(d.Category), d.Description, string(d.Status), []byte("{}"), d.DownloadCount,
		d.CreatedAt, d.UpdatedAt, d.LastAccessedAt,
	)
}

func sampleDoc(now time.Time) *model.Document {
	return &model.Document{
		ID:             "doc-1",
		OwnerID:        "owner-1",
		FileName:       "passport.pdf",
		ContentType:    "application/pdf",
		Size:           2048,
		RetrievalURL:   "https://blob.local/doc-1",
		StoragePath:    "documents/owner-1/passport.pdf",
		Category:       model.CategoryTravelDocument,
		Description:    "scanned passport pages",
		Status:         model.StatusActive,
		SharedWith:     []string{},
		CreatedAt:      now,
		UpdatedAt:      now,
		LastAccessedAt: now,
	}
}

func TestDocumentPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	now := time.Now().UTC()
	doc := sampleDoc(now)

	rows := addDocRow(sqlmock.NewRows(docColumns), doc)
	mock.ExpectQuery("INSERT INTO documents").WillReturnRows(rows)

	stored, err := repo.Create(ctx, doc)

	assert.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, doc.ID, stored.ID)
	assert.Equal(t, model.StatusActive, stored.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentPostgres_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		doc := sampleDoc(time.Now().UTC())
		rows := addDocRow(sqlmock.NewRows(docColumns), doc)
		mock.ExpectQuery("SELECT (.+) FROM documents").WithArgs("doc-1").WillReturnRows(rows)

		got, err := repo.FindByID(ctx, "doc-1")
		assert.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "owner-1", got.OwnerID)
	})

	t.Run("not found maps to sentinel", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM documents").WithArgs("missing").
			WillReturnRows(sqlmock.NewRows(docColumns))

		got, err := repo.FindByID(ctx, "missing")
		assert.ErrorIs(t, err, repository.ErrNotFound)
		assert.Nil(t, got)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentPostgres_ListByOwner(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	t.Run("all categories", func(t *testing.T) {
		now := time.Now().UTC()
		rows := sqlmock.NewRows(docColumns)
		a := sampleDoc(now)
		b := sampleDoc(now.Add(-time.Hour))
		b.ID = "doc-2"
		addDocRow(rows, a)
		addDocRow(rows, b)

		mock.ExpectQuery("SELECT (.+) FROM documents").WithArgs("owner-1").WillReturnRows(rows)

		docs, err := repo.ListByOwner(ctx, "owner-1", repository.DocumentFilter{})
		assert.NoError(t, err)
		assert.Len(t, docs, 2)
	})

	t.Run("category filter adds predicate", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM documents").
			WithArgs("owner-1", "certificate").
			WillReturnRows(sqlmock.NewRows(docColumns))

		docs, err := repo.ListByOwner(ctx, "owner-1", repository.DocumentFilter{Category: model.CategoryCertificate})
		assert.NoError(t, err)
		assert.Empty(t, docs)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentPostgres_MarkDeleted(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()
	at := time.Now().UTC()

	t.Run("active row deleted", func(t *testing.T) {
		mock.ExpectExec("UPDATE documents").WithArgs("doc-1", at).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.MarkDeleted(ctx, "doc-1", at))
	})

	t.Run("already deleted row is not found", func(t *testing.T) {
		mock.ExpectExec("UPDATE documents").WithArgs("doc-1", at).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.MarkDeleted(ctx, "doc-1", at), repository.ErrNotFound)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentPostgres_IncrementDownload(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()
	at := time.Now().UTC()

	mock.ExpectExec("UPDATE documents").WithArgs("doc-1", at).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.IncrementDownload(ctx, "doc-1", at))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentPostgres_AddSharedSubject(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	// Zero affected rows means the subject was already present; not an error.
	mock.ExpectExec("UPDATE documents").WithArgs("doc-1", "b@example.com").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, repo.AddSharedSubject(ctx, "doc-1", "b@example.com"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
