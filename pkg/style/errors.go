package style

import "fmt"

// ValidationError reports a merged field that could not be coerced into
// the typed catalog.
type ValidationError struct {
	Key    Key
	Field  string
	Value  any
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("style: %s.%s: invalid value %#v: %s", e.Key, e.Field, e.Value, e.Reason)
}
