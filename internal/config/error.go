package config

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalid matches any *Error with errors.Is.
var ErrInvalid = errors.New("invalid configuration")

// Error collects every problem found while loading one file: environment
// references that could not be resolved and failed validation rules.
type Error struct {
	Path    string
	Missing []string
	Errors  []string
}

// HasErrors reports whether any problem was recorded.
func (e *Error) HasErrors() bool {
	return len(e.Missing)+len(e.Errors) > 0
}

func (e *Error) Is(target error) bool {
	return target == ErrInvalid
}

func (e *Error) Error() string {
	if !e.HasErrors() {
		return ""
	}

	var b strings.Builder
	if e.Path != "" {
		fmt.Fprintf(&b, "config %s: ", e.Path)
	}
	if len(e.Missing) > 0 {
		fmt.Fprintf(&b, "missing environment variables: %s", strings.Join(e.Missing, ", "))
	}
	if len(e.Errors) > 0 {
		if len(e.Missing) > 0 {
			b.WriteString("; ")
		}
		fmt.Fprintf(&b, "validation failed (%d):", len(e.Errors))
		for _, msg := range e.Errors {
			b.WriteString("\n  - ")
			b.WriteString(msg)
		}
	}
	return b.String()
}
