package shindan

import (
	"errors"
	"fmt"
)

// ErrSessionCookieNotFound is returned when the initial page response did
// not set a _session cookie, without it the submission POST is rejected.
var ErrSessionCookieNotFound = errors.New("session cookie not found")

// TokenNotFoundError reports a hidden form field required for submission
// that was missing from the initial page, either the input element itself
// or its value attribute.
type TokenNotFoundError struct {
	Field string
}

func (e TokenNotFoundError) Error() string {
	return fmt.Sprintf("hidden form token not found: %s", e.Field)
}

// ElementNotFoundError reports a structurally required element that was
// absent from a fetched document. Name is the id of the expected element.
type ElementNotFoundError struct {
	Name string
}

func (e ElementNotFoundError) Error() string {
	return fmt.Sprintf("element not found: %s", e.Name)
}

// ScriptNotFoundError is returned when a result page declares chart
// support but carries no script referencing the shindan id.
type ScriptNotFoundError struct {
	ID string
}

func (e ScriptNotFoundError) Error() string {
	return fmt.Sprintf("could not find script with id %s", e.ID)
}
