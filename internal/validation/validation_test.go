package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  string
	}{
		{"valid", "Sup3rSecret!Pass", ""},
		{"too short", "Ab1!xyz", "at least 12 characters"},
		{"too long", "Ab1!" + strings.Repeat("x", 130), "not exceed 128"},
		{"no uppercase", "sup3rsecret!pass", "uppercase"},
		{"no lowercase", "SUP3RSECRET!PASS", "lowercase"},
		{"no digit", "SuperSecret!Pass", "digit"},
		{"no special", "Sup3rSecretPass9", "special"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid", "Grace", false},
		{"minimum length", "Al", false},
		{"too short", "A", true},
		{"whitespace only", "    ", true},
		{"too long", strings.Repeat("x", 51), true},
		{"max length", strings.Repeat("x", 50), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{"valid", "grace@example.com", false},
		{"subdomain", "grace@mail.example.co.uk", false},
		{"plus tag", "grace+test@example.com", false},
		{"missing at", "grace.example.com", true},
		{"missing tld", "grace@example", true},
		{"empty", "", true},
		{"too long", strings.Repeat("x", 250) + "@example.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
