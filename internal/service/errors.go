package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"taxapi/internal/model"
)

// ErrTaxNotFound is returned for ids that do not resolve to a stored tax, malformed ids included.
var ErrTaxNotFound = errors.New("tax not found")

// ValidationError carries field-level messages for a rejected payload
type ValidationError struct {
	Fields model.FieldErrors
}

func newValidationError(fields model.FieldErrors) *ValidationError {
	return &ValidationError{Fields: fields}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
