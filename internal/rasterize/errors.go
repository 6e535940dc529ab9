package rasterize

import "fmt"

// DocumentReadError indicates the input was not a valid or renderable PDF.
// Rasterization failures are deterministic, so the error is surfaced
// verbatim to the caller with no retry; a partially rendered document is
// never returned.
type DocumentReadError struct {
	Message string
	Cause   error
}

func (e *DocumentReadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("document read error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("document read error: %s", e.Message)
}

func (e *DocumentReadError) Unwrap() error {
	return e.Cause
}
