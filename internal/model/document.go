package model

import "time"

// Category classifies a stored document. The set is fixed; anything the
// caller cannot name goes under CategoryOther.
type Category string

const (
	CategoryNationalID     Category = "national-id"
	CategoryTaxID          Category = "tax-id"
	CategoryTravelDocument Category = "travel-document"
	CategoryCertificate    Category = "certificate"
	CategoryOther          Category = "other"
)

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryNationalID, CategoryTaxID, CategoryTravelDocument, CategoryCertificate, CategoryOther:
		return true
	}
	return false
}

// Status is the lifecycle state of a document. The only transition is
// StatusActive -> StatusDeleted; deleted rows are retained.
type Status string

const (
	StatusActive  Status = "active"
	StatusDeleted Status = "deleted"
)

// Document represents a citizen-owned file record.
// This is a pure domain model with no database-specific dependencies or tags.
// It can be used across layers (HTTP, service, storage) without coupling to persistence.
type Document struct {
	ID             string    `json:"id"`
	OwnerID        string    `json:"owner_id"`
	FileName       string    `json:"file_name"`
	ContentType    string    `json:"content_type"`
	Size           int64     `json:"size"`
	RetrievalURL   string    `json:"retrieval_url"`
	StoragePath    string    `json:"storage_path"`
	Category       Category  `json:"category"`
	Description    string    `json:"description"`
	Status         Status    `json:"status"`
	SharedWith     []string  `json:"shared_with"`
	DownloadCount  int64     `json:"download_count"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	LastAccessedAt time.Time `json:"last_accessed_at"`
}

// SharedWithSubject reports whether any of the given subject identifiers
// (email or identity number) appears in the document's share list.
func (d *Document) SharedWithSubject(subjects ...string) bool {
	for _, s := range subjects {
		if s == "" {
			continue
		}
		for _, shared := range d.SharedWith {
			if shared == s {
				return true
			}
		}
	}
	return false
}
