package core

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound    = errors.New("resource not found")
	ErrRunNotFound = fmt.Errorf("%w: run", ErrNotFound)

	// Validation errors
	ErrInvalidConfig    = errors.New("invalid configuration")
	ErrInsufficientData = errors.New("insufficient data for analysis")
	ErrEmptyPopulation  = errors.New("empty result population")
	ErrLengthMismatch   = errors.New("sequence length mismatch")

	// Registry errors
	ErrDuplicateRun = errors.New("run identifier already exists")

	// Schema errors
	ErrSchemaIncompatible = errors.New("incompatible schema version")
)

// MissingMetricError reports a metric key absent from a result's metrics
// mapping, naming the available keys to make the misconfiguration obvious.
type MissingMetricError struct {
	Metric    string
	Available []string
}

func (e *MissingMetricError) Error() string {
	avail := append([]string(nil), e.Available...)
	sort.Strings(avail)
	return fmt.Sprintf("metric %q not found in result metrics (available: %s)",
		e.Metric, strings.Join(avail, ", "))
}

// NewMissingMetricError builds a MissingMetricError from a metrics mapping
func NewMissingMetricError(metric string, metrics map[string]float64) error {
	available := make([]string, 0, len(metrics))
	for k := range metrics {
		available = append(available, k)
	}
	return &MissingMetricError{Metric: metric, Available: available}
}

// Error constructors with context
func NewNotFoundError(resource string, id string) error {
	return fmt.Errorf("%w: %s with id %s", ErrNotFound, resource, id)
}

func NewValidationError(field string, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidConfig, field, reason)
}

func NewInsufficientDataError(have, need int, unit string) error {
	return fmt.Errorf("%w: have %d %s, need at least %d", ErrInsufficientData, have, unit, need)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidConfig) ||
		errors.Is(err, ErrEmptyPopulation) ||
		errors.Is(err, ErrLengthMismatch)
}

func IsInsufficientDataError(err error) bool {
	return errors.Is(err, ErrInsufficientData)
}

func IsMissingMetricError(err error) bool {
	var m *MissingMetricError
	return errors.As(err, &m)
}

func IsSchemaError(err error) bool {
	return errors.Is(err, ErrSchemaIncompatible)
}
