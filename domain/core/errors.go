package core

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors - centralized error definitions
var (
	// Input shape errors
	ErrColumnNotFound  = errors.New("column not found")
	ErrMissingColumns  = errors.New("missing required columns")
	ErrEmptyDataset    = errors.New("dataset is empty")
	ErrUnknownStrategy = errors.New("unknown cleaning strategy")

	// Aggregation errors
	ErrNoValidPrices   = errors.New("no valid price data")
	ErrNoFeatureSource = errors.New("no feature column specified and none auto-detected")

	// Options errors
	ErrInvalidOptions = errors.New("invalid analysis options")
)

// NewColumnNotFoundError reports a column the caller asked for that the table lacks.
func NewColumnNotFoundError(column string) error {
	return fmt.Errorf("%w: column '%s' not found", ErrColumnNotFound, column)
}

// NewNoValidPricesError reports a price column with nothing numeric in it.
func NewNoValidPricesError(column string) error {
	return fmt.Errorf("%w: no valid price data found in column '%s'", ErrNoValidPrices, column)
}

func NewMissingColumnsError(columns []string) error {
	return fmt.Errorf("%w: [%s]", ErrMissingColumns, strings.Join(columns, ", "))
}

func NewUnknownStrategyError(strategy string) error {
	return fmt.Errorf("%w: %q", ErrUnknownStrategy, strategy)
}

func NewEmptyDatasetError(stage string) error {
	return fmt.Errorf("%w after %s", ErrEmptyDataset, stage)
}

func NewInvalidOptionsError(field string, reason string) error {
	return fmt.Errorf("%w: %s %s", ErrInvalidOptions, field, reason)
}

// Error checking helpers
func IsColumnNotFound(err error) bool {
	return errors.Is(err, ErrColumnNotFound)
}

// IsInputError reports errors caused by the shape of the caller's data or options,
// as opposed to internal failures.
func IsInputError(err error) bool {
	return errors.Is(err, ErrColumnNotFound) ||
		errors.Is(err, ErrMissingColumns) ||
		errors.Is(err, ErrEmptyDataset) ||
		errors.Is(err, ErrUnknownStrategy) ||
		errors.Is(err, ErrNoValidPrices) ||
		errors.Is(err, ErrNoFeatureSource) ||
		errors.Is(err, ErrInvalidOptions)
}
