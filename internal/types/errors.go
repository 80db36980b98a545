package types

import "fmt"

// InputMalformedError indicates a request body that cannot be read as the expected JSON shape.
type InputMalformedError struct {
	Message string
	Cause   error
}

func (e *InputMalformedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("malformed input: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("malformed input: %s", e.Message)
}

func (e *InputMalformedError) Unwrap() error {
	return e.Cause
}
