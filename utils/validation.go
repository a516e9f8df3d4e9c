package utils

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	emailRegex    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	nameRegex     = regexp.MustCompile(`^[a-zA-Z\s'-]+$`)
	upperRegex    = regexp.MustCompile(`[A-Z]`)
	lowerRegex    = regexp.MustCompile(`[a-z]`)
	digitRegex    = regexp.MustCompile(`\d`)
	specialRegex  = regexp.MustCompile(`[!@#$%^&*(),.?":{}|<>]`)
)

// FieldError is a local validation failure tied to one input field. These are
// produced before any request is sent and are never forwarded to the server.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateFullName checks the display name: required, 2-100 characters,
// letters, spaces, hyphens and apostrophes only.
func ValidateFullName(value string) error {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return &FieldError{Field: "fullName", Message: "Full name is required"}
	}
	if len(trimmed) < 2 {
		return &FieldError{Field: "fullName", Message: "Full name must be at least 2 characters"}
	}
	if len(value) > 100 {
		return &FieldError{Field: "fullName", Message: "Full name must be less than 100 characters"}
	}
	if !nameRegex.MatchString(value) {
		return &FieldError{Field: "fullName", Message: "Full name can only contain letters, spaces, hyphens and apostrophes"}
	}
	return nil
}

// ValidateEmail checks the address shape, not deliverability.
func ValidateEmail(value string) error {
	if strings.TrimSpace(value) == "" {
		return &FieldError{Field: "email", Message: "Email is required"}
	}
	if len(value) > 100 {
		return &FieldError{Field: "email", Message: "Email must be less than 100 characters"}
	}
	if !emailRegex.MatchString(value) {
		return &FieldError{Field: "email", Message: "Please enter a valid email address"}
	}
	return nil
}

// ValidatePassword enforces the registration complexity rules: 8-100
// characters with at least one uppercase, lowercase, digit and special
// character.
func ValidatePassword(value string) error {
	if value == "" {
		return &FieldError{Field: "password", Message: "Password is required"}
	}
	if len(value) < 8 {
		return &FieldError{Field: "password", Message: "Password must be at least 8 characters"}
	}
	if len(value) > 100 {
		return &FieldError{Field: "password", Message: "Password must be less than 100 characters"}
	}
	if !upperRegex.MatchString(value) {
		return &FieldError{Field: "password", Message: "Password must contain at least one uppercase letter"}
	}
	if !lowerRegex.MatchString(value) {
		return &FieldError{Field: "password", Message: "Password must contain at least one lowercase letter"}
	}
	if !digitRegex.MatchString(value) {
		return &FieldError{Field: "password", Message: "Password must contain at least one number"}
	}
	if !specialRegex.MatchString(value) {
		return &FieldError{Field: "password", Message: "Password must contain at least one special character"}
	}
	return nil
}

var strengthLabels = []string{"Very weak", "Very weak", "Weak", "Fair", "Good", "Strong"}

// PasswordStrengthLabel renders a strength score as the registration form's
// meter label.
func PasswordStrengthLabel(strength int) string {
	if strength < 0 {
		strength = 0
	}
	if strength >= len(strengthLabels) {
		strength = len(strengthLabels) - 1
	}
	return strengthLabels[strength]
}

// PasswordStrength scores a password 0-5 for the registration form meter.
func PasswordStrength(password string) int {
	strength := 0
	if len(password) >= 8 {
		strength++
	}
	if len(password) >= 12 {
		strength++
	}
	if upperRegex.MatchString(password) && lowerRegex.MatchString(password) {
		strength++
	}
	if digitRegex.MatchString(password) {
		strength++
	}
	if specialRegex.MatchString(password) {
		strength++
	}
	return strength
}
