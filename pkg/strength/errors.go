package strength

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument is returned when a caller passes a password or
	// configuration of the wrong shape.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidConfig is returned when configuration values are inconsistent.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// ConfigError describes the configuration entry that failed validation.
type ConfigError struct {
	// Field is the dotted path of the offending field, e.g. "time.periods".
	Field string
	// Index is the list position of the entry, or -1 for scalar fields.
	Index int
	// Reason explains the violated constraint.
	Reason string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("invalid configuration: %s[%d]: %s", e.Field, e.Index, e.Reason)
	}
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

// Unwrap allows errors.Is(err, ErrInvalidConfig).
func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfig
}

func configErr(field string, index int, format string, args ...any) *ConfigError {
	return &ConfigError{Field: field, Index: index, Reason: fmt.Sprintf(format, args...)}
}
