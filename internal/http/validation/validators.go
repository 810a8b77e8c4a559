package validation

import (
	"fmt"
	"net/mail"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Validator is a function that validates a string value and returns an error message if invalid.
type Validator func(v string) string

// Required validates that a field is not empty and does not exceed maxLen characters.
// Uses rune count for proper Unicode support.
func Required(fieldName string, maxLen int) Validator {
	return func(v string) string {
		v = strings.TrimSpace(v)
		if v == "" {
			return fieldName + " is required."
		}
		if utf8.RuneCountInString(v) > maxLen {
			return fmt.Sprintf("%s cannot exceed %d characters.", fieldName, maxLen)
		}
		return ""
	}
}

// Optional validates that an optional field does not exceed maxLen characters if provided.
func Optional(fieldName string, maxLen int) Validator {
	return func(v string) string {
		v = strings.TrimSpace(v)
		if v == "" {
			return ""
		}
		if utf8.RuneCountInString(v) > maxLen {
			return fmt.Sprintf("%s cannot exceed %d characters.", fieldName, maxLen)
		}
		return ""
	}
}

// Amount validates a non-negative decimal amount such as a price.
// Empty input is accepted; pair with Required when the field is mandatory.
func Amount(fieldName string) Validator {
	return func(v string) string {
		v = strings.TrimSpace(v)
		if v == "" {
			return ""
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fieldName + " must be a number."
		}
		if f < 0 {
			return fieldName + " cannot be negative."
		}
		return ""
	}
}

// IntRange validates that a field is a valid integer between minVal and maxVal.
// Empty input is accepted; pair with Required when the field is mandatory.
func IntRange(fieldName string, minVal, maxVal int) Validator {
	return func(v string) string {
		v = strings.TrimSpace(v)
		if v == "" {
			return ""
		}
		i, err := strconv.Atoi(v)
		if err != nil {
			return fieldName + " must be a whole number."
		}
		if i < minVal || i > maxVal {
			return fmt.Sprintf("%s must be between %d and %d.", fieldName, minVal, maxVal)
		}
		return ""
	}
}

// OneOf validates that a field matches one of the provided options exactly.
func OneOf(fieldName string, options []string) Validator {
	return func(v string) string {
		v = strings.TrimSpace(v)
		for _, opt := range options {
			if v == opt {
				return ""
			}
		}
		return fmt.Sprintf("%s must be one of: %s", fieldName, strings.Join(options, ", "))
	}
}

// MinLength validates that a non-empty field has at least minLen characters.
func MinLength(fieldName string, minLen int) Validator {
	return func(v string) string {
		if v == "" || utf8.RuneCountInString(v) >= minLen {
			return ""
		}
		return fmt.Sprintf("%s must be at least %d characters.", fieldName, minLen)
	}
}

// Email validates a bare address such as ana@example.com.
// Empty input is accepted; pair with Required when the field is mandatory.
func Email(fieldName string) Validator {
	return func(v string) string {
		v = strings.TrimSpace(v)
		if v == "" {
			return ""
		}
		addr, err := mail.ParseAddress(v)
		if err != nil || addr.Address != v || !strings.Contains(v[strings.LastIndex(v, "@"):], ".") {
			return fieldName + " must be a valid email address."
		}
		return ""
	}
}

// FieldValidator provides a fluent API for validating multiple fields.
type FieldValidator struct {
	errors map[string]string
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
			fv.errors[field] = err
			break
		}
	}
	return fv
}

// Errors returns the accumulated validation errors.
func (fv *FieldValidator) Errors() map[string]string {
	return fv.errors
}
