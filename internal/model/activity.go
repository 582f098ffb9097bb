package model

import "time"

// Action names an auditable event.
type Action string

const (
	ActionUpload   Action = "UPLOAD"
	ActionView     Action = "VIEW"
	ActionDownload Action = "DOWNLOAD"
	ActionShare    Action = "SHARE"
	ActionRevoke   Action = "REVOKE"
	ActionDelete   Action = "DELETE"
	ActionUpdate   Action = "UPDATE"
	ActionDenied   Action = "DENIED"
	ActionLogin    Action = "LOGIN"
	ActionLogout   Action = "LOGOUT"
	ActionError    Action = "ERROR"
)

// ActivityLogEntry is an append-only audit fact. Entries are never mutated
// or deleted after being written.
type ActivityLogEntry struct {
	ID         string    `json:"id"`
	SubjectID  string    `json:"subject_id"`
	Action     Action    `json:"action"`
	Detail     string    `json:"detail"`
	DocumentID string    `json:"document_id,omitempty"`
	SessionID  string    `json:"session_id,omitempty"`
	OriginAddr string    `json:"origin_addr,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}
