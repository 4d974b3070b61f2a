package cli

import (
	"errors"
	"fmt"
	"strings"
)

// NotFoundError reports a keyword, filter or preference that does not exist.
type NotFoundError struct {
	Type string // "keyword", "filter" or "preference"
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Type, e.Name)
}

// AmbiguousError reports a name prefix that matches more than one candidate.
type AmbiguousError struct {
	Type    string
	Prefix  string
	Matches []string
}

func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("ambiguous %s %q matches: %s", e.Type, e.Prefix, strings.Join(e.Matches, ", "))
}

// ValidationError reports a rejected user-supplied value.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
	}
	return e.Message
}

// FormatError prefixes err with "error: " for the terminal. Validation
// failures get a hint to check the value.
func FormatError(err error) string {
	if err == nil {
		return ""
	}
	msg := "error: " + err.Error()

	var ve *ValidationError
	if errors.As(err, &ve) && ve.Field != "" {
		msg += fmt.Sprintf("\nsee 'wallsafe config --help' for accepted %s values", ve.Field)
	}
	return msg
}
