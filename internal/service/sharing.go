package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"docvault/internal/audit"
	"docvault/internal/cache"
	"docvault/internal/model"
	"docvault/internal/repository"
	"docvault/internal/validation"
)

// ShareInput describes a grant request. Subject is the recipient's email
// address or identity number; it is validated but not resolved to an
// account, so documents can be shared ahead of the recipient's first login.
type ShareInput struct {
	Subject    string           `json:"subject"`
	Permission model.Permission `json:"permission"`
}

// SharedDocument is one entry of the shared-with-me listing: the document
// plus the caller's effective permission on it.
type SharedDocument struct {
	Document   model.Document   `json:"document"`
	Permission model.Permission `json:"permission"`
	GrantedAt  time.Time        `json:"granted_at"`
}

// SharingService defines the grant lifecycle use cases.
type SharingService interface {
	// Share creates an active grant on a document the caller owns.
	Share(ctx context.Context, caller Caller, documentID string, in ShareInput) (*model.ShareGrant, error)

	// Revoke deactivates a grant the caller issued. The document's share
	// list entry for the subject is cleared only when no other active
	// grant still names that subject.
	Revoke(ctx context.Context, caller Caller, documentID, grantID string) error

	// ListSharedWithMe returns the documents shared with the caller,
	// newest grant first, one entry per document with the union of the
	// caller's permissions on it. Deleted documents are skipped.
	ListSharedWithMe(ctx context.Context, caller Caller) ([]SharedDocument, error)
}

type sharingService struct {
	docs   repository.DocumentRepository
	grants repository.ShareGrantRepository
	cache  cache.Store
	audit  audit.Sink
	now    func() time.Time
}

// NewSharingService wires the grant use cases.
func NewSharingService(
	docs repository.DocumentRepository,
	grants repository.ShareGrantRepository,
	c cache.Store,
	sink audit.Sink,
) SharingService {
	return &sharingService{docs: docs, grants: grants, cache: c, audit: sink, now: time.Now}
}

func (s *sharingService) Share(ctx context.Context, caller Caller, documentID string, in ShareInput) (*model.ShareGrant, error) {
	var violations []string
	if !validation.ValidateEmail(in.Subject) && !validation.ValidateIdentityNumber(in.Subject) {
		violations = append(violations, "subject must be a valid email address or identity number")
	}
	if !in.Permission.Valid() {
		violations = append(violations, "permission must be view or download")
	}
	if in.Subject != "" && (in.Subject == caller.Email || in.Subject == caller.IdentityNumber) {
		violations = append(violations, "cannot share a document with yourself")
	}
	if err := validationError(violations); err != nil {
		return nil, err
	}

	doc, err := s.docs.FindByID(ctx, documentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if doc.OwnerID != caller.ID {
		s.recordActivity(ctx, caller, model.ActionDenied, doc.ID, "denied share on "+doc.ID)
		return nil, ErrPermissionDenied
	}

	grant := &model.ShareGrant{
		ID:         uuid.NewString(),
		DocumentID: doc.ID,
		OwnerID:    caller.ID,
		Subject:    in.Subject,
		Permission: in.Permission,
		Status:     model.GrantActive,
		GrantedAt:  s.now().UTC(),
	}
	stored, err := s.grants.Create(ctx, grant)
	if err != nil {
		return nil, err
	}

	if err := s.docs.AddSharedSubject(ctx, doc.ID, in.Subject); err != nil {
		s.audit.RecordError(ctx, caller.ID, err, "share list update failed for "+doc.ID)
	}

	s.cache.InvalidateOwner(caller.ID)
	s.recordActivity(ctx, caller, model.ActionShare, doc.ID,
		"shared "+doc.FileName+" with "+in.Subject+" ("+string(in.Permission)+")")
	return stored, nil
}

func (s *sharingService) Revoke(ctx context.Context, caller Caller, documentID, grantID string) error {
	grant, err := s.grants.FindByID(ctx, grantID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if grant.DocumentID != documentID {
		return ErrNotFound
	}
	if grant.OwnerID != caller.ID {
		s.recordActivity(ctx, caller, model.ActionDenied, documentID, "denied revoke on "+documentID)
		return ErrPermissionDenied
	}

	if err := s.grants.MarkRevoked(ctx, grantID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Already revoked. Revocation is idempotent.
			return nil
		}
		return err
	}

	remaining, err := s.grants.ListActiveForDocument(ctx, documentID, grant.Subject)
	if err != nil {
		s.audit.RecordError(ctx, caller.ID, err, "share list check failed for "+documentID)
	} else if len(remaining) == 0 {
		if err := s.docs.RemoveSharedSubject(ctx, documentID, grant.Subject); err != nil {
			s.audit.RecordError(ctx, caller.ID, err, "share list removal failed for "+documentID)
		}
	}

	s.cache.InvalidateOwner(caller.ID)
	s.recordActivity(ctx, caller, model.ActionRevoke, documentID, "revoked grant for "+grant.Subject)
	return nil
}

func (s *sharingService) ListSharedWithMe(ctx context.Context, caller Caller) ([]SharedDocument, error) {
	subjects := caller.identifiers()
	if len(subjects) == 0 {
		return []SharedDocument{}, nil
	}

	grants, err := s.grants.ListBySubject(ctx, subjects)
	if err != nil {
		return nil, err
	}

	// Grants arrive newest first. One grant per document in the output;
	// later (older) grants only widen the permission.
	out := make([]SharedDocument, 0, len(grants))
	index := make(map[string]int, len(grants))
	for _, g := range grants {
		if i, ok := index[g.DocumentID]; ok {
			if g.Permission == model.PermissionDownload {
				out[i].Permission = model.PermissionDownload
			}
			continue
		}

		doc, err := s.docs.FindByID(ctx, g.DocumentID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				// Deleted since the grant was issued.
				continue
			}
			return nil, err
		}

		index[g.DocumentID] = len(out)
		out = append(out, SharedDocument{
			Document:   *doc,
			Permission: g.Permission,
			GrantedAt:  g.GrantedAt,
		})
	}
	return out, nil
}

func (s *sharingService) recordActivity(ctx context.Context, caller Caller, action model.Action, documentID, detail string) {
	s.audit.Record(ctx, model.ActivityLogEntry{
		SubjectID:  caller.ID,
		Action:     action,
		Detail:     detail,
		DocumentID: documentID,
		SessionID:  caller.SessionID,
		OriginAddr: caller.Origin,
	})
}
