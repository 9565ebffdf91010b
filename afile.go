// Package afile provides asynchronous, priority-aware, read-only file access
// behind one narrow API that can be served by interchangeable backends: a
// local filesystem (blocking syscalls offloaded to a worker pool) or a remote
// HTTP origin (reads emulated with ranged requests).
//
// Every operation carries a Priority, an opaque scheduling hint that is
// threaded through to the Runner collaborator and never interpreted here.
//
// Only one operation may be in flight per file handle. Starting a second
// operation before the first has resolved fails fast with CodeBusy; it is
// never queued.
package afile

import "context"

// Handle is the per-open-file contract a backend implements.
//
// Whence values for Seek are io.SeekStart, io.SeekCurrent and io.SeekEnd.
// Backends that emulate seeking with a client-side cursor reject io.SeekEnd
// with CodeUnsupported rather than issuing hidden I/O to learn the length.
type Handle interface {
	// Read returns up to size bytes from the current position. A short
	// result is not an error; it signals end of resource or partial
	// delivery.
	Read(ctx context.Context, size int, pri Priority) (Data, error)

	// Seek repositions the handle and returns the new absolute offset.
	Seek(ctx context.Context, offset int64, whence int, pri Priority) (int64, error)

	// Metadata reports the size of the underlying resource.
	Metadata(ctx context.Context, pri Priority) (Metadata, error)

	Close() error
	Name() string
}

// FS opens files on one backend. Backend selection is a construction-time
// choice: build the FS you want and every File it opens stays on it.
type FS interface {
	Open(ctx context.Context, path string, pri Priority) (*File, error)

	// Exists reports whether a resource is present. It is best-effort and
	// never returns an error; any failure reads as absent.
	Exists(ctx context.Context, path string, pri Priority) bool
}

// File is the unified handle facade. It delegates each operation to the
// backend Handle it wraps and adds the read-whole-file convenience; it has no
// behavior of its own beyond that.
type File struct {
	h Handle
}

// NewFile wraps a backend handle in the unified facade. Backend packages call
// this from their Open implementations.
func NewFile(h Handle) *File {
	return &File{h: h}
}

// Name returns the path the file was opened with.
func (f *File) Name() string { return f.h.Name() }

// Read returns up to size bytes from the current position. The result may be
// shorter than requested when the end of the resource is reached first.
func (f *File) Read(ctx context.Context, size int, pri Priority) (Data, error) {
	return f.h.Read(ctx, size, pri)
}

// Seek repositions the file and returns the new offset from the start.
func (f *File) Seek(ctx context.Context, offset int64, whence int, pri Priority) (int64, error) {
	return f.h.Seek(ctx, offset, whence, pri)
}

// Metadata reports the size of the file.
func (f *File) Metadata(ctx context.Context, pri Priority) (Metadata, error) {
	return f.h.Metadata(ctx, pri)
}

// ReadAll reads the entire file: Metadata for the length, then a single Read
// of that many bytes from the current position.
func (f *File) ReadAll(ctx context.Context, pri Priority) (Data, error) {
	md, err := f.h.Metadata(ctx, pri)
	if err != nil {
		return Data{}, err
	}
	size, err := md.Int(f.h.Name())
	if err != nil {
		return Data{}, err
	}
	return f.h.Read(ctx, size, pri)
}

// Close releases backend resources held by the file.
func (f *File) Close() error { return f.h.Close() }
