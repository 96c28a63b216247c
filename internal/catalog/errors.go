package catalog

import (
	"errors"
	"fmt"
)

// Sentinel errors returned while loading a catalog.
var (
	ErrUnknownDataType = errors.New("invalid data type")
	ErrDuplicateTable  = errors.New("duplicate table")
	ErrMissingName     = errors.New("table name is required")
)

// FormatError describes a malformed table or column declaration.
type FormatError struct {
	Table  string
	Column string
	Err    error
}

func (e *FormatError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("catalog table %q, column %q: %v", e.Table, e.Column, e.Err)
	}
	return fmt.Sprintf("catalog table %q: %v", e.Table, e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}
