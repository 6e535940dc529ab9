package verify

// ValidationError represents an invalid verification request, such as a
// missing evidence or target document set.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
