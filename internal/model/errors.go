package model

import (
	"errors"
	"fmt"
)

// ErrNoData is wrapped by DataUnavailableError when a provider returned nothing usable.
var ErrNoData = errors.New("no data")

// ErrEntryOutOfRange marks an entry point whose index does not address the series.
var ErrEntryOutOfRange = errors.New("entry index out of range")

// ValidationError reports a rejected request parameter.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// DataUnavailableError reports that no usable price history exists for a symbol.
type DataUnavailableError struct {
	Symbol string
	Err    error
}

func (e *DataUnavailableError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("no data for %s", e.Symbol)
	}
	return fmt.Sprintf("no data for %s: %v", e.Symbol, e.Err)
}

func (e *DataUnavailableError) Unwrap() error {
	if e.Err == nil {
		return ErrNoData
	}
	return e.Err
}

// NewDataUnavailable wraps cause (which may be nil) for symbol.
func NewDataUnavailable(symbol string, cause error) *DataUnavailableError {
	if cause == nil {
		cause = ErrNoData
	}
	return &DataUnavailableError{Symbol: symbol, Err: cause}
}
