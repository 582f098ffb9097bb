package service

// Caller identifies the authenticated citizen performing an operation.
// It is built by the HTTP layer from the verified token; the services
// never look at credentials.
type Caller struct {
	ID             string
	Email          string
	IdentityNumber string
	SessionID      string
	Origin         string
}

// identifiers returns the caller's shareable identifiers (email and
// identity number), skipping empty ones. Share grants address subjects by
// either form.
func (c Caller) identifiers() []string {
	ids := make([]string, 0, 2)
	if c.Email != "" {
		ids = append(ids, c.Email)
	}
	if c.IdentityNumber != "" {
		ids = append(ids, c.IdentityNumber)
	}
	return ids
}
