package domain

import (
	"errors"
	"fmt"
)

// Pipeline errors.
var (
	// ErrProvider marks a failed or timed out provider call.
	// It is always absorbed inside the pipeline.
	ErrProvider = errors.New("provider error")

	// ErrDataUnavailable is returned when no provider yielded any usable fact.
	ErrDataUnavailable = errors.New("token data unavailable")

	// ErrAnalysisFailed is the only error surfaced by an analysis.
	ErrAnalysisFailed = errors.New("analysis failed")
)

// ProviderError wraps a failure of a named provider.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s: %v", e.Provider, e.Err)
}

// Unwrap returns the cause.
func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Is reports ErrProvider as a match.
func (e *ProviderError) Is(target error) bool {
	return target == ErrProvider
}

// NewProviderError wraps err as a ProviderError. Nil stays nil.
func NewProviderError(provider string, err error) error {
	if err == nil {
		return nil
	}
	return &ProviderError{Provider: provider, Err: err}
}

// analysisError matches both ErrAnalysisFailed and its cause.
type analysisError struct {
	cause error
}

func (e *analysisError) Error() string {
	return fmt.Sprintf("%v: %v", ErrAnalysisFailed, e.cause)
}

func (e *analysisError) Unwrap() []error {
	return []error{ErrAnalysisFailed, e.cause}
}

// NewAnalysisFailed wraps cause so that errors.Is matches ErrAnalysisFailed and cause.
func NewAnalysisFailed(cause error) error {
	return &analysisError{cause: cause}
}
