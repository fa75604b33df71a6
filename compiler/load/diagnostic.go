package load

import (
	"errors"
	"fmt"
	"strings"
)

// Severity classifies a Diagnostic.
type Severity uint8

const (
	// SeverityWarning reports a suspicious but non-fatal declaration.
	SeverityWarning Severity = iota + 1
	// SeverityError reports a declaration or resource that cannot be generated.
	SeverityError
)

// String implements fmt.Stringer.
func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return fmt.Sprintf("Severity(%d)", s)
	}
}

// Diagnostic is a build diagnostic attached to a type declaration or a
// resource file.
type Diagnostic struct {
	Severity Severity `msgpack:"severity"`
	Pos      string   `msgpack:"pos,omitempty"` // file:line:col or resource path
	Message  string   `msgpack:"message"`
}

// Error implements the error interface.
func (d Diagnostic) Error() string {
	var b strings.Builder
	if d.Pos != "" {
		b.WriteString(d.Pos)
		b.WriteString(": ")
	}
	b.WriteString(d.Severity.String())
	b.WriteString(": ")
	b.WriteString(d.Message)
	return b.String()
}

// Warnf returns a warning diagnostic.
func Warnf(pos, format string, args ...any) Diagnostic {
	return Diagnostic{Severity: SeverityWarning, Pos: pos, Message: fmt.Sprintf(format, args...)}
}

// Errorf returns an error diagnostic.
func Errorf(pos, format string, args ...any) Diagnostic {
	return Diagnostic{Severity: SeverityError, Pos: pos, Message: fmt.Sprintf(format, args...)}
}

// Diagnostics is a list of diagnostics.
type Diagnostics []Diagnostic

// HasErrors reports whether any diagnostic has error severity.
func (ds Diagnostics) HasErrors() bool {
	for _, d := range ds {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Err joins the error diagnostics into one error, or returns nil.
func (ds Diagnostics) Err() error {
	var errs []error
	for _, d := range ds {
		if d.Severity == SeverityError {
			errs = append(errs, d)
		}
	}
	return errors.Join(errs...)
}
