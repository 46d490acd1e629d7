package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/bikeshare/internal/dataset"
)

// Validation errors.
var (
	ErrNilContext   = errors.New("context cannot be nil")
	ErrEmptyString  = errors.New("string parameter cannot be empty")
	ErrNilParameter = errors.New("parameter cannot be nil")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateTable ensures a table can be cached.
func validateTable(table *dataset.Table) error {
	if table == nil {
		return fmt.Errorf("%w: table", ErrNilParameter)
	}
	return validateString(table.City, "table.City")
}
