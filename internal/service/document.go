package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"docvault/internal/audit"
	"docvault/internal/cache"
	"docvault/internal/model"
	"docvault/internal/repository"
	"docvault/internal/storage"
	"docvault/internal/validation"
)

const (
	// uploadURLTTL is the lifetime of the retrieval URL returned right
	// after upload.
	uploadURLTTL = 24 * time.Hour

	// downloadURLTTL is the lifetime of presigned download URLs. Short,
	// since every download re-requests one.
	downloadURLTTL = 10 * time.Minute
)

// UploadInput carries everything needed to store a new document.
// FileName is used for display and for the blob key; the key is always
// derived server-side, never taken from the caller verbatim.
type UploadInput struct {
	Reader      io.Reader
	FileName    string
	ContentType string
	Size        int64
	Category    model.Category
	Description string
	Progress    storage.ProgressFunc
}

// UpdatePatch is a partial metadata update. Nil fields are left unchanged.
type UpdatePatch struct {
	Category    *model.Category
	Description *string
}

// DownloadResult pairs the document with a short-lived presigned URL.
type DownloadResult struct {
	Document *model.Document `json:"document"`
	URL      string          `json:"url"`
}

// blobCleaner is the slice of the janitor the service needs.
type blobCleaner interface {
	Enqueue(path string) bool
}

// DocumentService defines the document lifecycle use cases.
type DocumentService interface {
	// Upload streams the content into object storage and records the
	// metadata. The blob is written first; if the metadata write then
	// fails the blob is left in place and the failure is audited.
	Upload(ctx context.Context, caller Caller, in UploadInput) (*model.Document, error)

	// Get returns a document the caller owns or holds at least a view
	// grant on.
	Get(ctx context.Context, caller Caller, id string) (*model.Document, error)

	// Download returns a presigned URL for a document the caller owns or
	// holds a download grant on, bumping the download counter.
	Download(ctx context.Context, caller Caller, id string) (*DownloadResult, error)

	// Update patches category and/or description. Owner only.
	Update(ctx context.Context, caller Caller, id string, patch UpdatePatch) (*model.Document, error)

	// SoftDelete hides a document from every read path. The metadata row
	// is retained; the blob is removed in the background.
	SoftDelete(ctx context.Context, caller Caller, id string) error

	// List returns the caller's active documents, newest first, optionally
	// narrowed by category.
	List(ctx context.Context, caller Caller, category model.Category) ([]model.Document, error)

	// Search returns the caller's active documents whose file name,
	// description or category contains q, case-insensitively. The match
	// runs in memory over the (cached) owner list; there is no
	// server-side full-text index.
	Search(ctx context.Context, caller Caller, q string) ([]model.Document, error)

	// Profile returns the caller's profile row.
	Profile(ctx context.Context, caller Caller) (*model.User, error)

	// Activity returns the caller's audit trail, newest first.
	Activity(ctx context.Context, caller Caller, limit int) ([]model.ActivityLogEntry, error)
}

type documentService struct {
	docs    repository.DocumentRepository
	grants  repository.ShareGrantRepository
	users   repository.UserRepository
	logs    repository.ActivityLogRepository
	store   storage.Storage
	cleaner blobCleaner
	cache   cache.Store
	audit   audit.Sink
	now     func() time.Time
}

// NewDocumentService wires the document use cases. All collaborators are
// injected; the service holds no globals.
func NewDocumentService(
	docs repository.DocumentRepository,
	grants repository.ShareGrantRepository,
	users repository.UserRepository,
	logs repository.ActivityLogRepository,
	store storage.Storage,
	cleaner blobCleaner,
	c cache.Store,
	sink audit.Sink,
) DocumentService {
	return &documentService{
		docs:    docs,
		grants:  grants,
		users:   users,
		logs:    logs,
		store:   store,
		cleaner: cleaner,
		cache:   c,
		audit:   sink,
		now:     time.Now,
	}
}

func (s *documentService) Upload(ctx context.Context, caller Caller, in UploadInput) (*model.Document, error) {
	var violations []string
	if in.Reader == nil {
		violations = append(violations, "file content is required")
	}
	if !validation.ValidateIdentityNumber(caller.IdentityNumber) {
		violations = append(violations, "identity number failed checksum validation")
	}
	if !in.Category.Valid() {
		violations = append(violations, "unknown category")
	}
	violations = append(violations, validation.ValidateFile(in.ContentType, in.Size)...)
	violations = append(violations, validation.ValidateDescription(in.Description)...)
	if err := validationError(violations); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	key := blobKey(caller.ID, in.FileName, now)

	objInfo, err := s.store.Put(ctx, key, in.Reader, storage.PutObjectOptions{
		Size:        in.Size,
		ContentType: in.ContentType,
		Metadata: map[string]string{
			"original-filename": in.FileName,
			"owner-id":          caller.ID,
		},
		Progress: in.Progress,
	})
	if err != nil {
		s.audit.RecordError(ctx, caller.ID, err, "blob upload failed")
		return nil, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	url, err := s.store.PresignGet(ctx, key, uploadURLTTL)
	if err != nil {
		// The document is still usable; a fresh URL comes from Download.
		s.audit.RecordError(ctx, caller.ID, err, "presign after upload failed")
		url = ""
	}

	doc := &model.Document{
		ID:           uuid.NewString(),
		OwnerID:      caller.ID,
		FileName:     in.FileName,
		ContentType:  objInfo.ContentType,
		Size:         objInfo.Size,
		RetrievalURL: url,
		StoragePath:  objInfo.Key,
		Category:     in.Category,
		Description:  in.Description,
		Status:       model.StatusActive,
		SharedWith:   []string{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	stored, err := s.docs.Create(ctx, doc)
	if err != nil {
		// The blob is kept: a retried upload must not find half the state
		// gone. The orphan is visible in the audit trail for later sweeps.
		s.audit.RecordError(ctx, caller.ID, err, "metadata write failed, blob retained at "+key)
		return nil, err
	}

	s.cache.InvalidateOwner(caller.ID)
	s.recordActivity(ctx, caller, model.ActionUpload, stored.ID, "uploaded "+stored.FileName)
	return stored, nil
}

func (s *documentService) Get(ctx context.Context, caller Caller, id string) (*model.Document, error) {
	doc, err := s.authorize(ctx, caller, id, model.PermissionView)
	if err != nil {
		return nil, err
	}
	if err := s.docs.TouchAccessed(ctx, id, s.now().UTC()); err != nil {
		s.audit.RecordError(ctx, caller.ID, err, "touch last_accessed_at failed")
	}
	s.recordActivity(ctx, caller, model.ActionView, doc.ID, "viewed "+doc.FileName)
	return doc, nil
}

func (s *documentService) Download(ctx context.Context, caller Caller, id string) (*DownloadResult, error) {
	doc, err := s.authorize(ctx, caller, id, model.PermissionDownload)
	if err != nil {
		return nil, err
	}

	url, err := s.store.PresignGet(ctx, doc.StoragePath, downloadURLTTL)
	if err != nil {
		s.audit.RecordError(ctx, caller.ID, err, "presign download failed")
		return nil, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	if err := s.docs.IncrementDownload(ctx, doc.ID, s.now().UTC()); err != nil {
		s.audit.RecordError(ctx, caller.ID, err, "download counter increment failed")
	} else {
		doc.DownloadCount++
	}

	s.recordActivity(ctx, caller, model.ActionDownload, doc.ID, "downloaded "+doc.FileName)
	return &DownloadResult{Document: doc, URL: url}, nil
}

func (s *documentService) Update(ctx context.Context, caller Caller, id string, patch UpdatePatch) (*model.Document, error) {
	doc, err := s.requireOwner(ctx, caller, id, "update")
	if err != nil {
		return nil, err
	}

	category := doc.Category
	description := doc.Description
	var violations []string
	if patch.Category != nil {
		if !patch.Category.Valid() {
			violations = append(violations, "unknown category")
		} else {
			category = *patch.Category
		}
	}
	if patch.Description != nil {
		violations = append(violations, validation.ValidateDescription(*patch.Description)...)
		description = *patch.Description
	}
	if err := validationError(violations); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	if err := s.docs.UpdateMeta(ctx, id, category, description, now); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	doc.Category = category
	doc.Description = description
	doc.UpdatedAt = now

	s.cache.InvalidateOwner(caller.ID)
	s.recordActivity(ctx, caller, model.ActionUpdate, doc.ID, "updated metadata of "+doc.FileName)
	return doc, nil
}

func (s *documentService) SoftDelete(ctx context.Context, caller Caller, id string) error {
	doc, err := s.requireOwner(ctx, caller, id, "delete")
	if err != nil {
		return err
	}

	if err := s.docs.MarkDeleted(ctx, id, s.now().UTC()); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	s.cleaner.Enqueue(doc.StoragePath)
	s.cache.InvalidateOwner(caller.ID)
	s.recordActivity(ctx, caller, model.ActionDelete, doc.ID, "deleted "+doc.FileName)
	return nil
}

func (s *documentService) List(ctx context.Context, caller Caller, category model.Category) ([]model.Document, error) {
	if category != "" && !category.Valid() {
		return nil, validationError([]string{"unknown category"})
	}
	key := cache.Key(caller.ID, "documents", string(category))

	var docs []model.Document
	if s.cache.Get(key, &docs) {
		return docs, nil
	}

	docs, err := s.docs.ListByOwner(ctx, caller.ID, repository.DocumentFilter{Category: category})
	if err != nil {
		return nil, err
	}
	s.cache.Set(key, docs)
	return docs, nil
}

func (s *documentService) Search(ctx context.Context, caller Caller, q string) ([]model.Document, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, validationError([]string{"search query is required"})
	}

	docs, err := s.List(ctx, caller, "")
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(q)
	out := make([]model.Document, 0, len(docs))
	for _, d := range docs {
		if strings.Contains(strings.ToLower(d.FileName), needle) ||
			strings.Contains(strings.ToLower(d.Description), needle) ||
			strings.Contains(string(d.Category), needle) {
			out = append(out, d)
		}
	}
	return out, nil
}

func (s *documentService) Profile(ctx context.Context, caller Caller) (*model.User, error) {
	key := cache.Key(caller.ID, "profile")

	var cached model.User
	if s.cache.Get(key, &cached) {
		return &cached, nil
	}

	user, err := s.users.FindByID(ctx, caller.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	s.cache.Set(key, user)
	return user, nil
}

func (s *documentService) Activity(ctx context.Context, caller Caller, limit int) ([]model.ActivityLogEntry, error) {
	return s.logs.ListBySubject(ctx, caller.ID, limit)
}

// authorize loads the document and checks that the caller has need on it.
// Owners hold every permission; other callers need an active grant whose
// permission covers need. The effective permission over several grants is
// their union. Denials are audited.
func (s *documentService) authorize(ctx context.Context, caller Caller, id string, need model.Permission) (*model.Document, error) {
	doc, err := s.docs.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if doc.OwnerID == caller.ID {
		return doc, nil
	}

	effective, ok, err := s.effectivePermission(ctx, doc.ID, caller)
	if err != nil {
		return nil, err
	}
	if !ok || !effective.Allows(need) {
		s.recordActivity(ctx, caller, model.ActionDenied, doc.ID,
			fmt.Sprintf("denied %s on %s", need, doc.ID))
		return nil, ErrPermissionDenied
	}
	return doc, nil
}

// effectivePermission is the union of the caller's active grants on the
// document, across both identifier forms.
func (s *documentService) effectivePermission(ctx context.Context, documentID string, caller Caller) (model.Permission, bool, error) {
	best := model.Permission("")
	found := false
	for _, subject := range caller.identifiers() {
		grants, err := s.grants.ListActiveForDocument(ctx, documentID, subject)
		if err != nil {
			return "", false, err
		}
		for _, g := range grants {
			found = true
			if g.Permission == model.PermissionDownload {
				return model.PermissionDownload, true, nil
			}
			best = g.Permission
		}
	}
	return best, found, nil
}

// requireOwner loads the document and rejects non-owners. Used by the
// mutating operations, which grants never cover.
func (s *documentService) requireOwner(ctx context.Context, caller Caller, id, verb string) (*model.Document, error) {
	doc, err := s.docs.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if doc.OwnerID != caller.ID {
		s.recordActivity(ctx, caller, model.ActionDenied, doc.ID,
			fmt.Sprintf("denied %s on %s", verb, doc.ID))
		return nil, ErrPermissionDenied
	}
	return doc, nil
}

func (s *documentService) recordActivity(ctx context.Context, caller Caller, action model.Action, documentID, detail string) {
	s.audit.Record(ctx, model.ActivityLogEntry{
		SubjectID:  caller.ID,
		Action:     action,
		Detail:     detail,
		DocumentID: documentID,
		SessionID:  caller.SessionID,
		OriginAddr: caller.Origin,
	})
}

// blobKey derives the object key for a new upload. The file name is
// flattened to its base and spaces are replaced so keys stay URL-friendly;
// the timestamp keeps repeated uploads of the same name distinct.
func blobKey(ownerID, fileName string, at time.Time) string {
	name := filepath.Base(fileName)
	name = strings.ReplaceAll(name, " ", "_")
	return fmt.Sprintf("documents/%s/%d_%s", ownerID, at.UnixNano(), name)
}
