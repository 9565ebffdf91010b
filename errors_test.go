package afile

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	t.Run("code only", func(t *testing.T) {
		err := &Error{Code: CodeBusy, Op: "read", Path: "data/a.bin"}
		want := `afile: read "data/a.bin": HANDLE_BUSY`
		if got := err.Error(); got != want {
			t.Errorf("Error() = %q, want %q", got, want)
		}
	})

	t.Run("with status", func(t *testing.T) {
		err := &Error{Code: CodeUnexpectedStatus, Op: "read", Path: "a", Status: 503}
		want := `afile: read "a": UNEXPECTED_STATUS (http 503)`
		if got := err.Error(); got != want {
			t.Errorf("Error() = %q, want %q", got, want)
		}
	})

	t.Run("with cause", func(t *testing.T) {
		cause := errors.New("connection reset")
		err := &Error{Code: CodeIO, Op: "metadata", Path: "b", Err: cause}
		want := `afile: metadata "b": IO_ERROR: connection reset`
		if got := err.Error(); got != want {
			t.Errorf("Error() = %q, want %q", got, want)
		}
	})

	t.Run("no path", func(t *testing.T) {
		err := &Error{Code: CodeNoOrigin, Op: "new"}
		want := "afile: new: ORIGIN_UNSET"
		if got := err.Error(); got != want {
			t.Errorf("Error() = %q, want %q", got, want)
		}
	})
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := &Error{Code: CodeIO, Op: "read", Err: cause}
	if !errors.Is(err, cause) {
		t.Errorf("errors.Is(err, cause) = false, want true")
	}
}

func TestCodeOf(t *testing.T) {
	t.Run("direct", func(t *testing.T) {
		err := &Error{Code: CodeNotFound, Op: "open"}
		if got := CodeOf(err); got != CodeNotFound {
			t.Errorf("CodeOf = %s, want %s", got, CodeNotFound)
		}
	})

	t.Run("wrapped", func(t *testing.T) {
		err := fmt.Errorf("outer: %w", &Error{Code: CodeBadLength, Op: "metadata"})
		if got := CodeOf(err); got != CodeBadLength {
			t.Errorf("CodeOf = %s, want %s", got, CodeBadLength)
		}
	})

	t.Run("foreign", func(t *testing.T) {
		if got := CodeOf(errors.New("plain")); got != CodeUnknown {
			t.Errorf("CodeOf = %s, want %s", got, CodeUnknown)
		}
	})

	t.Run("nil", func(t *testing.T) {
		if got := CodeOf(nil); got != CodeUnknown {
			t.Errorf("CodeOf(nil) = %s, want %s", got, CodeUnknown)
		}
	})
}

func TestPredicates(t *testing.T) {
	if !IsNotFound(&Error{Code: CodeNotFound, Op: "open"}) {
		t.Error("IsNotFound = false for CodeNotFound")
	}
	if IsNotFound(&Error{Code: CodeIO, Op: "open"}) {
		t.Error("IsNotFound = true for CodeIO")
	}
	if !IsBusy(&Error{Code: CodeBusy, Op: "seek"}) {
		t.Error("IsBusy = false for CodeBusy")
	}
}
