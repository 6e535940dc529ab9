package llm

import "fmt"

// SafetyBlockError indicates the model declined to respond normally: no
// candidates came back, or the finish reason was a safety or recitation
// stop with no usable text. It is distinct from a parse failure because
// the remedy differs (rephrase or resubmit, rather than reduce volume).
type SafetyBlockError struct {
	Message string
	Reason  string // provider finish reason or block reason, for logs
}

func (e *SafetyBlockError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("safety block: %s (reason: %s)", e.Message, e.Reason)
	}
	return fmt.Sprintf("safety block: %s", e.Message)
}
