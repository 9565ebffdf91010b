package afile

// Code identifies a specific failure condition. Codes are string-based for
// debuggability and natural serialization.
type Code string

const (
	// Resource errors.

	// CodeNotFound indicates the resource does not exist: a missing local
	// file or a remote path whose existence probe failed.
	CodeNotFound Code = "NOT_FOUND"

	// CodeBusy indicates an operation was attempted while another was
	// already in flight on the same handle. Operations are never queued;
	// callers retry after the in-flight operation resolves.
	CodeBusy Code = "HANDLE_BUSY"

	// Transport errors.

	// CodeIO indicates an underlying syscall or transport failure. The
	// cause is preserved and reachable through errors.Unwrap.
	CodeIO Code = "IO_ERROR"

	// CodeUnexpectedStatus indicates an HTTP response outside the success
	// range. The status is preserved on the error.
	CodeUnexpectedStatus Code = "UNEXPECTED_STATUS"

	// CodeEmptyBody indicates a response carried no body where one was
	// required.
	CodeEmptyBody Code = "EMPTY_BODY"

	// CodeBadLength indicates a Content-Length header that was absent or
	// not numeric.
	CodeBadLength Code = "BAD_CONTENT_LENGTH"

	// Usage errors.

	// CodeSeekRange indicates cursor arithmetic that would overflow or
	// produce a negative position. The cursor is left unchanged.
	CodeSeekRange Code = "SEEK_OUT_OF_RANGE"

	// CodeUnsupported indicates an operation the backend declines to
	// emulate, such as an end-relative seek on a cursor backend.
	CodeUnsupported Code = "UNSUPPORTED"

	// Configuration errors.

	// CodeNoOrigin indicates the remote backend could not resolve an
	// origin URL from the environment or its configuration.
	CodeNoOrigin Code = "ORIGIN_UNSET"

	// CodeUnknown classifies errors that did not originate in this
	// module.
	CodeUnknown Code = "UNKNOWN"
)
