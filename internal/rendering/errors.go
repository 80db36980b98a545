package rendering

import "fmt"

// TemplateMismatchError indicates the loaded template is not the résumé skeleton.
// It is a deployment error; no user input can trigger it.
type TemplateMismatchError struct {
	Message string
	Missing []string
}

func (e *TemplateMismatchError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("template mismatch: %s (missing %v)", e.Message, e.Missing)
	}
	return fmt.Sprintf("template mismatch: %s", e.Message)
}
