package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateFullName(t *testing.T) {
	cases := []struct {
		name    string
		value   string
		wantErr string
	}{
		{"valid", "Ana O'Brien-Smith", ""},
		{"empty", "", "Full name is required"},
		{"whitespace only", "   ", "Full name is required"},
		{"too short", "A", "Full name must be at least 2 characters"},
		{"digits", "Ana1", "Full name can only contain letters, spaces, hyphens and apostrophes"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateFullName(tc.value)
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			var fieldErr *FieldError
			require.ErrorAs(t, err, &fieldErr)
			assert.Equal(t, "fullName", fieldErr.Field)
			assert.Equal(t, tc.wantErr, fieldErr.Message)
		})
	}
}

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("ana@test.com"))
	assert.Error(t, ValidateEmail(""))
	assert.Error(t, ValidateEmail("not-an-email"))
	assert.Error(t, ValidateEmail("missing@tld"))
	assert.Error(t, ValidateEmail("two words@test.com"))
}

func TestValidatePassword(t *testing.T) {
	cases := []struct {
		name    string
		value   string
		wantErr string
	}{
		{"valid", "Sup3r$ecret", ""},
		{"empty", "", "Password is required"},
		{"too short", "Ab1$", "Password must be at least 8 characters"},
		{"no uppercase", "sup3r$ecret", "Password must contain at least one uppercase letter"},
		{"no lowercase", "SUP3R$ECRET", "Password must contain at least one lowercase letter"},
		{"no digit", "Super$ecret", "Password must contain at least one number"},
		{"no special", "Sup3rSecret", "Password must contain at least one special character"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidatePassword(tc.value)
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			var fieldErr *FieldError
			require.ErrorAs(t, err, &fieldErr)
			assert.Equal(t, tc.wantErr, fieldErr.Message)
		})
	}
}

func TestPasswordStrength(t *testing.T) {
	assert.Equal(t, 0, PasswordStrength(""))
	assert.Equal(t, 1, PasswordStrength("aaaaaaaa"))
	assert.Equal(t, 3, PasswordStrength("Abcdef1h"))
	assert.Equal(t, 5, PasswordStrength("Abcdef1$long"))
}

func TestPasswordStrengthLabel(t *testing.T) {
	assert.Equal(t, "Very weak", PasswordStrengthLabel(0))
	assert.Equal(t, "Very weak", PasswordStrengthLabel(1))
	assert.Equal(t, "Weak", PasswordStrengthLabel(2))
	assert.Equal(t, "Fair", PasswordStrengthLabel(3))
	assert.Equal(t, "Good", PasswordStrengthLabel(4))
	assert.Equal(t, "Strong", PasswordStrengthLabel(5))
	// Out-of-range scores clamp instead of panicking.
	assert.Equal(t, "Very weak", PasswordStrengthLabel(-1))
	assert.Equal(t, "Strong", PasswordStrengthLabel(9))
}

func TestSlugPreview(t *testing.T) {
	cases := map[string]string{
		"Acme Rockets Inc!": "acme-rockets-inc",
		"  Spaced   Out  ":  "spaced-out",
		"already-a-slug":    "already-a-slug",
		"Symbols & Co. #1":  "symbols-co-1",
		"":                  "",
		"---":               "",
	}
	for input, want := range cases {
		assert.Equal(t, want, SlugPreview(input), "input %q", input)
	}
}
