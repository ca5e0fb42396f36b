package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Validator is a function that validates a string value and returns an error message if invalid.
type Validator func(v string) string

// InvalidEmailMessage is shown when the registration email fails the local check.
const InvalidEmailMessage = "Invalid email address, please try again !"

// emailPattern accepts the local@domain.tld shape: no whitespace, one @, a dot after it.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// IsEmail reports whether v has the local@domain.tld shape.
func IsEmail(v string) bool {
	return emailPattern.MatchString(v)
}

// Email validates the local@domain.tld shape and reports InvalidEmailMessage otherwise.
func Email() Validator {
	return func(v string) string {
		if !IsEmail(v) {
			return InvalidEmailMessage
		}
		return ""
	}
}

// Required validates that a field is not empty and does not exceed maxLen characters.
// Uses rune count for proper Unicode support. A maxLen of 0 disables the length check.
func Required(fieldName string, maxLen int) Validator {
	return func(v string) string {
		v = strings.TrimSpace(v)
		if v == "" {
			return fieldName + " is required."
		}
		if maxLen > 0 && utf8.RuneCountInString(v) > maxLen {
			return fmt.Sprintf("%s cannot exceed %d characters.", fieldName, maxLen)
		}
		return ""
	}
}

// OneOf validates that a field matches one of the provided options (case-insensitive).
func OneOf(fieldName string, options []string) Validator {
	return func(v string) string {
		v = strings.ToLower(strings.TrimSpace(v))
		for _, opt := range options {
			if v == strings.ToLower(opt) {
				return ""
			}
		}
		return fmt.Sprintf("%s must be one of: %s", fieldName, strings.Join(options, ", "))
	}
}

// FieldValidator provides a fluent API for validating multiple fields.
type FieldValidator struct {
	errors map[string]string
	order  []string
}

// New creates a new FieldValidator instance.
func New() *FieldValidator {
	return &FieldValidator{errors: make(map[string]string)}
}

// Validate validates a field with one or more validators.
// It stops at the first error for each field.
func (fv *FieldValidator) Validate(field, value string, validators ...Validator) *FieldValidator {
	for _, v := range validators {
		if err := v(value); err != "" {
			if _, seen := fv.errors[field]; !seen {
				fv.order = append(fv.order, field)
			}
			fv.errors[field] = err
			break // Stop at first error per field
		}
	}
	return fv
}

// First returns the first failing field and its message in validation order.
func (fv *FieldValidator) First() (field, message string, ok bool) {
	if len(fv.order) == 0 {
		return "", "", false
	}
	field = fv.order[0]
	return field, fv.errors[field], true
}
