package generator

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyResponse is wrapped in a ProviderError when the model returns no text.
var ErrEmptyResponse = errors.New("model returned an empty response")

// MissingPlaceholderError reports template placeholders with no bound value.
type MissingPlaceholderError struct {
	Names []string
}

func (e *MissingPlaceholderError) Error() string {
	return fmt.Sprintf("missing value for placeholder(s): %s", strings.Join(e.Names, ", "))
}

// ProviderError wraps any failure of the external text-generation call.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Provider == "" {
		return fmt.Sprintf("generation failed: %v", e.Err)
	}
	return fmt.Sprintf("%s: generation failed: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// IsMissingPlaceholder reports whether err is (or wraps) a MissingPlaceholderError.
func IsMissingPlaceholder(err error) bool {
	var mp *MissingPlaceholderError
	return errors.As(err, &mp)
}

// IsProviderError reports whether err is (or wraps) a ProviderError.
func IsProviderError(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe)
}
