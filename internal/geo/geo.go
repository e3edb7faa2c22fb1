// Package geo resolves the country of an IP address. Locators are
// best-effort: callers treat any error as "no country".
package geo

import (
	"context"
	"errors"
	"fmt"
)

// Result is the outcome of one lookup. CountryCode is empty when the source
// had no answer for the address.
type Result struct {
	CountryCode string
	Source      string
}

// Locator resolves an IP address to a country.
type Locator interface {
	Locate(ctx context.Context, ip string) (Result, error)
}

// ErrorCategory is the normalized failure taxonomy for lookups.
type ErrorCategory string

const (
	// ErrorTimeout indicates the lookup exceeded its deadline.
	ErrorTimeout ErrorCategory = "timeout"

	// ErrorBadData indicates the source returned an unreadable answer.
	ErrorBadData ErrorCategory = "bad_data"

	// ErrorProviderOutage indicates the source was unreachable or refused.
	ErrorProviderOutage ErrorCategory = "provider_outage"

	// ErrorInternal indicates an unexpected failure.
	ErrorInternal ErrorCategory = "internal"
)

// LocatorError wraps lookup failures with a normalized category.
type LocatorError struct {
	Category ErrorCategory
	Source   string
	Message  string
	Err      error
}

func (e *LocatorError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("geo %s [%s]: %s: %v", e.Source, e.Category, e.Message, e.Err)
	}
	return fmt.Sprintf("geo %s [%s]: %s", e.Source, e.Category, e.Message)
}

func (e *LocatorError) Unwrap() error {
	return e.Err
}

// NewLocatorError creates a categorized lookup error.
func NewLocatorError(category ErrorCategory, source, message string, err error) *LocatorError {
	return &LocatorError{Category: category, Source: source, Message: message, Err: err}
}

// Category extracts the error category, defaulting to ErrorInternal. A bare
// context deadline is reported as a timeout.
func Category(err error) ErrorCategory {
	var le *LocatorError
	if errors.As(err, &le) {
		return le.Category
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrorTimeout
	}
	return ErrorInternal
}
