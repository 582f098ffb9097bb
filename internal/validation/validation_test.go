package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	valid := []string{
		"a@example.com",
		"first.last@sub.example.co",
		"user+tag@example.org",
	}
	for _, v := range valid {
		assert.True(t, ValidateEmail(v), "expected %q to be valid", v)
	}

	invalid := []string{
		"",
		"plainaddress",
		"@example.com",
		"user@",
		"Name <a@example.com>",
		"two@@example.com",
	}
	for _, v := range invalid {
		assert.False(t, ValidateEmail(v), "expected %q to be invalid", v)
	}
}

func TestValidatePhone(t *testing.T) {
	assert.True(t, ValidatePhone("9876543210"))
	assert.False(t, ValidatePhone("98765432"))     // too short
	assert.False(t, ValidatePhone("98765432101"))  // too long
	assert.False(t, ValidatePhone("+919876543210")) // country code
	assert.False(t, ValidatePhone("98765o3210"))   // non-digit
}

func TestValidatePassword(t *testing.T) {
	assert.True(t, ValidatePassword("123456"))
	assert.True(t, ValidatePassword("correct horse battery staple"))
	assert.False(t, ValidatePassword("12345"))
	assert.False(t, ValidatePassword(""))
}

func TestValidateFile(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		size        int64
		wantCount   int
	}{
		{"pdf within bounds", "application/pdf", 1024, 0},
		{"jpeg at max size", "image/jpeg", MaxFileSize, 0},
		{"png", "image/png", 1, 0},
		{"webp", "image/webp", 100, 0},
		{"oversized", "application/pdf", MaxFileSize + 1, 1},
		{"six MiB upload", "image/png", 6 << 20, 1},
		{"empty file", "application/pdf", 0, 1},
		{"disallowed type", "application/zip", 1024, 1},
		{"disallowed and empty", "text/html", 0, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			violations := ValidateFile(tt.contentType, tt.size)
			assert.Len(t, violations, tt.wantCount)
		})
	}
}

func TestValidateDescription(t *testing.T) {
	assert.Empty(t, ValidateDescription("long enough description"))
	assert.Empty(t, ValidateDescription("exactly 10"))

	violations := ValidateDescription("ok")
	assert.Len(t, violations, 1)
	assert.Contains(t, violations[0], "at least 10")
}
