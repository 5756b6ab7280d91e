package utils

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	SlugMinLength = 3
	SlugMaxLength = 32

	DisplayNameMaxLength = 50
	GameIDMaxLength      = 64
)

// Room codes: letters, digits and hyphens only. The same grammar is shared
// with the web client, so changing it is a breaking API change.
var slugRegex = regexp.MustCompile(`^[A-Za-z0-9-]{3,32}$`)

// ValidateSlug reports whether s is a well-formed room code. Pure check,
// no storage access; every endpoint runs it before touching the database.
func ValidateSlug(s string) bool {
	return slugRegex.MatchString(s)
}

// ValidationError represents a single field validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []*ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// HasErrors returns true if there are any validation errors
func (e ValidationErrors) HasErrors() bool {
	return len(e) > 0
}

// First returns the first validation error, or nil
func (e ValidationErrors) First() *ValidationError {
	if len(e) == 0 {
		return nil
	}
	return e[0]
}

// Validator accumulates field validation errors
type Validator struct {
	errors ValidationErrors
}

// NewValidator creates a new validator
func NewValidator() *Validator {
	return &Validator{
		errors: make(ValidationErrors, 0),
	}
}

// AddError adds a validation error
func (v *Validator) AddError(field, message string) {
	v.errors = append(v.errors, &ValidationError{
		Field:   field,
		Message: message,
	})
}

// Errors returns all validation errors
func (v *Validator) Errors() ValidationErrors {
	return v.errors
}

// HasErrors returns true if there are any validation errors
func (v *Validator) HasErrors() bool {
	return len(v.errors) > 0
}

// Required checks if a string is not blank after trimming
func (v *Validator) Required(field, value string) bool {
	if strings.TrimSpace(value) == "" {
		v.AddError(field, "is required")
		return false
	}
	return true
}

// MaxLength checks if a string doesn't exceed maximum length
func (v *Validator) MaxLength(field, value string, max int) bool {
	if utf8.RuneCountInString(value) > max {
		v.AddError(field, "is too long")
		return false
	}
	return true
}

// NonNegative checks that a counter value is not negative
func (v *Validator) NonNegative(field string, value int64) bool {
	if value < 0 {
		v.AddError(field, "must not be negative")
		return false
	}
	return true
}

// ValidateSlug validates a room code and records an error on failure
func (v *Validator) ValidateSlug(field, value string) bool {
	if !ValidateSlug(value) {
		v.AddError(field, "must be 3-32 letters, digits or hyphens")
		return false
	}
	return true
}

// ValidateDisplayName validates a player display name
func (v *Validator) ValidateDisplayName(field, value string) bool {
	if !v.Required(field, value) {
		return false
	}
	return v.MaxLength(field, strings.TrimSpace(value), DisplayNameMaxLength)
}

// SanitizeString removes control characters and trims surrounding space
func SanitizeString(s string) string {
	s = strings.Map(func(r rune) rune {
		if r < 32 && r != '\n' && r != '\r' && r != '\t' {
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(s)
}
