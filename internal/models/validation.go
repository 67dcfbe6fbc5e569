package models

import (
	"errors"
	"fmt"
	"net/mail"
	"net/url"
	"regexp"
	"strings"
)

// FieldError is a single rejected field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every field that failed validation
type ValidationError struct {
	Issues []FieldError `json:"errors"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		parts = append(parts, fmt.Sprintf("%s: %s", issue.Field, issue.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// NewValidationError builds a ValidationError with a single issue
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Issues: []FieldError{{Field: field, Message: message}}}
}

// IsValidationError reports whether err carries field issues
func IsValidationError(err error) bool {
	var vErr *ValidationError
	return errors.As(err, &vErr)
}

// Assignment is a column and the value written to it
type Assignment struct {
	Column string
	Value  any
}

var slugPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

type validator struct {
	issues []FieldError
}

func (v *validator) add(field, message string) {
	v.issues = append(v.issues, FieldError{Field: field, Message: message})
}

func (v *validator) required(field, value string) {
	if strings.TrimSpace(value) == "" {
		v.add(field, "is required")
	}
}

// requiredPtr is used by patches where an explicit value may not be blank
func (v *validator) requiredPtr(field string, value *string) {
	if value != nil {
		v.required(field, *value)
	}
}

func (v *validator) email(field string, value *string, allowEmpty bool) {
	if value == nil || (allowEmpty && *value == "") {
		return
	}
	addr, err := mail.ParseAddress(*value)
	if err != nil || addr.Address != *value {
		v.add(field, "must be a valid email address")
	}
}

func (v *validator) url(field string, value *string) {
	if value == nil || *value == "" {
		return
	}
	u, err := url.ParseRequestURI(*value)
	if err != nil || u.Scheme == "" || u.Host == "" {
		v.add(field, "must be a valid URL")
	}
}

func (v *validator) slug(field string, value *string) {
	if value == nil {
		return
	}
	if !slugPattern.MatchString(*value) {
		v.add(field, "must contain only lowercase letters, digits and hyphens")
	}
}

func (v *validator) positiveID(field string, value *int64) {
	if value != nil && *value <= 0 {
		v.add(field, "must be a positive integer")
	}
}

func (v *validator) positiveInt(field string, value *int32) {
	if value != nil && *value <= 0 {
		v.add(field, "must be greater than 0")
	}
}

func (v *validator) intRange(field string, value *int32, minValue, maxValue int32) {
	if value != nil && (*value < minValue || *value > maxValue) {
		v.add(field, fmt.Sprintf("must be between %d and %d", minValue, maxValue))
	}
}

func (v *validator) err() error {
	if len(v.issues) == 0 {
		return nil
	}
	return &ValidationError{Issues: v.issues}
}

// enum is implemented by every string enumeration
type enum interface {
	~string
	Valid() bool
}

func oneOf[E enum](v *validator, field string, value *E) {
	if value != nil && !(*value).Valid() {
		v.add(field, fmt.Sprintf("invalid value %q", string(*value)))
	}
}

// patchField appends column when the patch carries a value for it
func patchField[T any](a *[]Assignment, column string, value *T) {
	if value != nil {
		*a = append(*a, Assignment{Column: column, Value: *value})
	}
}
