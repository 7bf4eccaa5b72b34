package model

import (
	"errors"
	"fmt"
)

// ErrInvalidRecord is returned when a record lacks a key required for storage.
var ErrInvalidRecord = errors.New("invalid record")

// ErrNoSalaryData is returned when no stored listing has a known salary.
var ErrNoSalaryData = errors.New("no salary data")

// HTTPError wraps a non-2xx status code returned by an upstream API.
type HTTPError struct {
	StatusCode int
	Err        error
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("HTTP %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}
