package validation

import (
	"fmt"
	"net/mail"
)

const (
	// MaxFileSize is the upper bound for uploaded files (5 MiB).
	MaxFileSize = 5 << 20
	// MinPasswordLength is the minimum accepted password length. There is
	// deliberately no complexity rule beyond length.
	MinPasswordLength = 6
	// MinDescriptionLength is the minimum length of a document description.
	MinDescriptionLength = 10
	// PhoneLength is the required number of digits in a local phone number,
	// without a country code.
	PhoneLength = 10
)

// allowedContentTypes is the MIME allow-list for uploads.
var allowedContentTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/webp":      true,
	"application/pdf": true,
}

// ValidateEmail reports whether value parses as a bare RFC 5322 address.
func ValidateEmail(value string) bool {
	addr, err := mail.ParseAddress(value)
	if err != nil {
		return false
	}
	// Reject display-name forms like "Name <a@b.c>".
	return addr.Address == value
}

// ValidatePhone reports whether value is exactly ten digits.
func ValidatePhone(value string) bool {
	if len(value) != PhoneLength {
		return false
	}
	for i := 0; i < len(value); i++ {
		if value[i] < '0' || value[i] > '9' {
			return false
		}
	}
	return true
}

// ValidatePassword reports whether value satisfies the minimum length.
func ValidatePassword(value string) bool {
	return len(value) >= MinPasswordLength
}

// ValidateFile checks an upload's content type and size against the
// allow-list and size bounds. It returns human-readable violations; an
// empty slice means the file is acceptable.
func ValidateFile(contentType string, size int64) []string {
	var violations []string
	if !allowedContentTypes[contentType] {
		violations = append(violations, fmt.Sprintf("content type %q is not allowed (accepted: JPEG, PNG, WebP, PDF)", contentType))
	}
	if size <= 0 {
		violations = append(violations, "file is empty")
	} else if size > MaxFileSize {
		violations = append(violations, fmt.Sprintf("file size %d exceeds the maximum of %d bytes", size, MaxFileSize))
	}
	return violations
}

// ValidateDescription checks the free-text description attached to an
// upload or update. Returns violations; empty means acceptable.
func ValidateDescription(description string) []string {
	if len(description) < MinDescriptionLength {
		return []string{fmt.Sprintf("description must be at least %d characters", MinDescriptionLength)}
	}
	return nil
}
