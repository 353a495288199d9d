package validation

import (
	"errors"
	"testing"
)

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{
			name:    "valid email",
			email:   "guest@example.com",
			wantErr: false,
		},
		{
			name:    "valid email with subdomain",
			email:   "guest@mail.example.com",
			wantErr: false,
		},
		{
			name:    "valid email with plus",
			email:   "guest+party@example.com",
			wantErr: false,
		},
		{
			name:    "surrounding whitespace is trimmed",
			email:   "  guest@example.com  ",
			wantErr: false,
		},
		{
			name:    "missing @",
			email:   "guestexample.com",
			wantErr: true,
		},
		{
			name:    "missing domain",
			email:   "guest@",
			wantErr: true,
		},
		{
			name:    "missing local part",
			email:   "@example.com",
			wantErr: true,
		},
		{
			name:    "missing TLD",
			email:   "guest@example",
			wantErr: true,
		},
		{
			name:    "empty string",
			email:   "",
			wantErr: true,
		},
		{
			name:    "spaces inside email",
			email:   "gu est@example.com",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateEmail(%q) error = %v, wantErr %v", tt.email, err, tt.wantErr)
			}
		})
	}
}

func TestValidateRequired(t *testing.T) {
	tests := []struct {
		name    string
		field   string
		value   string
		wantErr bool
	}{
		{
			name:    "non-empty value",
			field:   "firstName",
			value:   "Ana",
			wantErr: false,
		},
		{
			name:    "empty value",
			field:   "firstName",
			value:   "",
			wantErr: true,
		},
		{
			name:    "whitespace only",
			field:   "instagram",
			value:   "   ",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRequired(tt.field, tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRequired(%q, %q) error = %v, wantErr %v", tt.field, tt.value, err, tt.wantErr)
			}
		})
	}
}

func TestValidateRequiredFieldName(t *testing.T) {
	err := ValidateRequired("lastName", "")
	var validationErr ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("ValidateRequired() error type = %T, want ValidationError", err)
	}
	if validationErr.Field != "lastName" {
		t.Errorf("ValidationError.Field = %q, want %q", validationErr.Field, "lastName")
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{
			name:     "valid password",
			password: "longenough",
			wantErr:  false,
		},
		{
			name:     "exactly 8 characters",
			password: "12345678",
			wantErr:  false,
		},
		{
			name:     "too short",
			password: "short",
			wantErr:  true,
		},
		{
			name:     "empty",
			password: "",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePassword(%q) error = %v, wantErr %v", tt.password, err, tt.wantErr)
			}
		})
	}
}
