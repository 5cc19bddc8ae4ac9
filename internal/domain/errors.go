package domain

import (
	"fmt"
	"strings"

	"github.com/formco/backend/internal/pkg/apperrors"
)

// FieldError is a single violated rule on one input field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors collects every violated rule of an input instead of stopping at the first
type ValidationErrors []FieldError

// Add records a violation on field
func (v *ValidationErrors) Add(field, format string, args ...interface{}) {
	*v = append(*v, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
}

// HasErrors reports whether any rule was violated
func (v ValidationErrors) HasErrors() bool {
	return len(v) > 0
}

// Messages returns the violation messages in the order they were found
func (v ValidationErrors) Messages() []string {
	msgs := make([]string, len(v))
	for i, e := range v {
		msgs[i] = e.Message
	}
	return msgs
}

func (v ValidationErrors) Error() string {
	return strings.Join(v.Messages(), "; ")
}

func (v ValidationErrors) Unwrap() error {
	return apperrors.ErrValidationFailed
}
