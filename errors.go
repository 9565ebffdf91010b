package afile

import (
	"errors"
	"fmt"
	"strings"
)

// Error is the single reporting type for every backend failure. It is
// constructed at the failure site and propagated to the caller unchanged;
// nothing in this module retries or falls back between backends.
type Error struct {
	// Code discriminates the failure class.
	Code Code

	// Op is the operation that failed: "open", "read", "seek", "metadata".
	Op string

	// Path is the file path or URL the operation targeted.
	Path string

	// Status is the HTTP status for CodeUnexpectedStatus, zero otherwise.
	Status int

	// Err is the underlying cause, when one exists.
	Err error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("afile: ")
	b.WriteString(e.Op)
	if e.Path != "" {
		fmt.Fprintf(&b, " %q", e.Path)
	}
	fmt.Fprintf(&b, ": %s", e.Code)
	if e.Status != 0 {
		fmt.Fprintf(&b, " (http %d)", e.Status)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

// Unwrap exposes the underlying cause for errors.Is / errors.As chains.
func (e *Error) Unwrap() error { return e.Err }

// CodeOf extracts the Code from err, walking wrapped errors. Errors that did
// not originate here report CodeUnknown.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeUnknown
}

// IsNotFound reports whether err indicates a missing resource.
func IsNotFound(err error) bool { return CodeOf(err) == CodeNotFound }

// IsBusy reports whether err indicates an operation was already in flight on
// the handle.
func IsBusy(err error) bool { return CodeOf(err) == CodeBusy }
