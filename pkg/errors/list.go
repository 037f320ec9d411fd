package errors

import (
	"fmt"
	"strings"
)

// List collects several coded errors so callers can fix every problem in one pass.
type List struct {
	Errors []*Error
}

// Add appends err to the list. Plain errors are wrapped as ErrInternal and
// nested lists are flattened.
func (l *List) Add(err error) {
	if err == nil {
		return
	}
	switch e := err.(type) {
	case *Error:
		l.Errors = append(l.Errors, e)
	case *List:
		l.Errors = append(l.Errors, e.Errors...)
	default:
		l.Errors = append(l.Errors, Wrap(err, ErrInternal, "unexpected error"))
	}
}

// Len returns the number of collected errors
func (l *List) Len() int {
	if l == nil {
		return 0
	}
	return len(l.Errors)
}

// ErrOrNil returns nil for an empty list, the single member for a list of
// one, and the list itself otherwise.
func (l *List) ErrOrNil() error {
	switch l.Len() {
	case 0:
		return nil
	case 1:
		return l.Errors[0]
	default:
		return l
	}
}

// Error implements the error interface
func (l *List) Error() string {
	if l.Len() == 0 {
		return "no errors"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d errors occurred:", len(l.Errors))
	for _, e := range l.Errors {
		b.WriteString("\n  * ")
		b.WriteString(e.Error())
	}
	return b.String()
}

// Unwrap exposes the members to errors.Is and errors.As
func (l *List) Unwrap() []error {
	out := make([]error, len(l.Errors))
	for i, e := range l.Errors {
		out[i] = e
	}
	return out
}

// Codes returns the code of every member, in order
func (l *List) Codes() []ErrorCode {
	codes := make([]ErrorCode, 0, l.Len())
	for _, e := range l.Errors {
		codes = append(codes, e.Code)
	}
	return codes
}

// Has reports whether any member carries code
func (l *List) Has(code ErrorCode) bool {
	for _, e := range l.Errors {
		if e.Code == code {
			return true
		}
	}
	return false
}

// Flatten returns the members of err as a slice, whether err is a single
// *Error, a *List, or a plain error.
func Flatten(err error) []*Error {
	if err == nil {
		return nil
	}
	var l List
	l.Add(err)
	return l.Errors
}
