package parsing

import "fmt"

// ResponseParseError indicates that the model returned text but no valid
// findings array could be recovered from it, even after repair. Raw carries
// the original untruncated response so callers can surface it for manual
// diagnosis.
type ResponseParseError struct {
	Message string
	Raw     string
	Cause   error
}

func (e *ResponseParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("response parse error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("response parse error: %s", e.Message)
}

func (e *ResponseParseError) Unwrap() error {
	return e.Cause
}
