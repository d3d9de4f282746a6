// Package validation provides custom validation rules for the application.
package validation

import (
	"encoding/json"
	"regexp"
	"strings"

	validation "github.com/jellydator/validation"

	apperrors "github.com/dapnet/dbgateway/internal/errors"
)

var (
	// emailRegex is a basic email validation pattern
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

	// documentIDRegex matches record identifiers accepted on create
	documentIDRegex = regexp.MustCompile(`^[a-zA-Z0-9]+$`)
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// Email validates email format using regex
var Email = validation.NewStringRuleWithError(
	func(s string) bool {
		return emailRegex.MatchString(s)
	},
	validation.NewError("validation_email_format", "must be a valid email address"),
)

// NotBlank validates that a string is not empty after trimming whitespace
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)

// DocumentID validates that a record identifier is alphanumeric
var DocumentID = validation.NewStringRuleWithError(
	func(s string) bool {
		return documentIDRegex.MatchString(s)
	},
	validation.NewError("validation_document_id", "must contain only letters and digits"),
)

// IsString validates that a decoded JSON value is a string. Numbers decoded as
// json.Number are rejected.
var IsString = validation.By(func(value interface{}) error {
	if value == nil {
		return nil
	}
	if _, ok := value.(string); !ok {
		return validation.NewError("validation_string", "must be a string")
	}
	return nil
})

// IsBool validates that a decoded JSON value is a boolean.
var IsBool = validation.By(func(value interface{}) error {
	if value == nil {
		return nil // Let NotNil handle missing values
	}
	if _, ok := value.(bool); !ok {
		return validation.NewError("validation_bool", "must be a boolean")
	}
	return nil
})

// IsNumber validates that a decoded JSON value is a number.
var IsNumber = validation.By(func(value interface{}) error {
	switch value.(type) {
	case nil, json.Number, float64, int, int64:
		return nil
	default:
		return validation.NewError("validation_number", "must be a number")
	}
})

// IsStringList validates that a decoded JSON value is an array of non-blank strings.
var IsStringList = validation.By(func(value interface{}) error {
	if value == nil {
		return nil
	}

	items, ok := value.([]interface{})
	if !ok {
		return validation.NewError("validation_string_list", "must be an array of strings")
	}
	for _, item := range items {
		s, ok := item.(string)
		if !ok || strings.TrimSpace(s) == "" {
			return validation.NewError("validation_string_list", "must be an array of non-blank strings")
		}
	}
	return nil
})
