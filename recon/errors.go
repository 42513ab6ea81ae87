/*
errors.go - Centralized error types for the reconciliation engine

PURPOSE:
  All engine error types in one place. Callers (api, cmd) wrap these with
  transport-specific context.

ERROR CATEGORIES:
  1. Config errors - Unrecognized policies, invalid rates. Fatal, caught
     before any computation starts.
  2. Data errors - Statements the engine cannot work with.

USAGE:
  if errors.Is(err, recon.ErrNoData) {
      // empty statement and no explicit reference date
  }
*/
package recon

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrNoData is returned when the reference date must be derived from
	// the statement but no dated transactions exist.
	ErrNoData = errors.New("no dated transactions in statement")

	// ErrInvalidConfig is the base for all configuration failures.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ConfigError reports an unrecognized or invalid configuration value.
type ConfigError struct {
	Field string
	Value string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s=%q", e.Field, e.Value)
}

func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfig
}

// IsClientError returns true if the error is due to invalid caller input
// rather than an internal failure.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidConfig) || errors.Is(err, ErrNoData)
}
