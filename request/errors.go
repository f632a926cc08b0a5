package request

import "strings"

// ValidationError names a single offending input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// ValidationErrors collects every field error found in one input.
type ValidationErrors []*ValidationError

func (e ValidationErrors) Error() string {
	messages := make([]string, len(e))
	for i, err := range e {
		messages[i] = err.Error()
	}
	return strings.Join(messages, "; ")
}

// Unwrap exposes the individual field errors to errors.As.
func (e ValidationErrors) Unwrap() []error {
	errs := make([]error, len(e))
	for i, err := range e {
		errs[i] = err
	}
	return errs
}

// Messages returns the human-readable message of every field error.
func (e ValidationErrors) Messages() []string {
	messages := make([]string, len(e))
	for i, err := range e {
		messages[i] = err.Message
	}
	return messages
}

// Field returns the error for the named field, if any.
func (e ValidationErrors) Field(name string) *ValidationError {
	for _, err := range e {
		if err.Field == name {
			return err
		}
	}
	return nil
}
