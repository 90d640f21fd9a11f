package models

import "fmt"

// MissingFieldError reports a required form field that was left empty.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field: %s", e.Field)
}

// OutOfRangeError reports a numeric form field that failed to parse as an
// integer or fell outside its allowed range.
type OutOfRangeError struct {
	Field string
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("value out of range: %s", e.Field)
}
