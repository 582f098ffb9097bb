package model

import "time"

// Permission is the access level carried by a share grant.
// PermissionDownload is a strict superset of PermissionView.
type Permission string

const (
	PermissionView     Permission = "view"
	PermissionDownload Permission = "download"
)

// Valid reports whether p is a known permission.
func (p Permission) Valid() bool {
	return p == PermissionView || p == PermissionDownload
}

// Allows reports whether a holder of p may perform an action requiring need.
func (p Permission) Allows(need Permission) bool {
	if p == PermissionDownload {
		return true
	}
	return need == PermissionView
}

// GrantStatus is the lifecycle state of a share grant.
type GrantStatus string

const (
	GrantActive  GrantStatus = "active"
	GrantRevoked GrantStatus = "revoked"
)

// ShareGrant is a one-directional access grant from a document owner to a
// subject identified by email or identity number. The subject is not
// resolved to an account at grant time.
type ShareGrant struct {
	ID         string      `json:"id"`
	DocumentID string      `json:"document_id"`
	OwnerID    string      `json:"owner_id"`
	Subject    string      `json:"subject"`
	Permission Permission  `json:"permission"`
	Status     GrantStatus `json:"status"`
	GrantedAt  time.Time   `json:"granted_at"`
}
