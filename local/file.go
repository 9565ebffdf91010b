package local

import (
	"context"
	"errors"
	"io"

	"github.com/go-git/go-billy/v5"

	afile "github.com/drewcrawford/async-file"
	"github.com/drewcrawford/async-file/internal/opslot"
)

// Handle is one open local file. The descriptor lives in the possession slot;
// every operation takes it out for the duration of its syscall.
type Handle struct {
	fs   *FS
	name string
	slot *opslot.Slot[billy.File]
}

// Read implements afile.Handle.Read. The buffer is allocated inside the
// offloaded closure and truncated to the byte count actually read; a short
// read or end of file is not an error.
func (h *Handle) Read(ctx context.Context, size int, pri afile.Priority) (afile.Data, error) {
	file, ok := h.slot.TryTake()
	if !ok {
		return afile.Data{}, &afile.Error{Code: afile.CodeBusy, Op: "read", Path: h.name}
	}
	return afile.Offload(ctx, h.fs.runner, pri, func() { h.slot.Put(file) }, func() (afile.Data, error) {
		defer h.slot.Put(file)
		buf := make([]byte, size)
		n, err := file.Read(buf)
		if err != nil && !errors.Is(err, io.EOF) {
			return afile.Data{}, &afile.Error{Code: afile.CodeIO, Op: "read", Path: h.name, Err: err}
		}
		return afile.NewData(buf[:n]), nil
	})
}

// Seek implements afile.Handle.Seek with standard whence semantics; all three
// whence values are supported here.
func (h *Handle) Seek(ctx context.Context, offset int64, whence int, pri afile.Priority) (int64, error) {
	file, ok := h.slot.TryTake()
	if !ok {
		return 0, &afile.Error{Code: afile.CodeBusy, Op: "seek", Path: h.name}
	}
	return afile.Offload(ctx, h.fs.runner, pri, func() { h.slot.Put(file) }, func() (int64, error) {
		defer h.slot.Put(file)
		pos, err := file.Seek(offset, whence)
		if err != nil {
			return 0, &afile.Error{Code: afile.CodeIO, Op: "seek", Path: h.name, Err: err}
		}
		return pos, nil
	})
}

// Metadata implements afile.Handle.Metadata. The stat goes by name, the way
// billy exposes it, but still takes possession so it serializes with reads
// and seeks on the same handle.
func (h *Handle) Metadata(ctx context.Context, pri afile.Priority) (afile.Metadata, error) {
	file, ok := h.slot.TryTake()
	if !ok {
		return afile.Metadata{}, &afile.Error{Code: afile.CodeBusy, Op: "metadata", Path: h.name}
	}
	return afile.Offload(ctx, h.fs.runner, pri, func() { h.slot.Put(file) }, func() (afile.Metadata, error) {
		defer h.slot.Put(file)
		info, err := h.fs.fs.Stat(h.name)
		if err != nil {
			return afile.Metadata{}, &afile.Error{Code: afile.CodeIO, Op: "metadata", Path: h.name, Err: err}
		}
		return afile.NewMetadata(uint64(info.Size())), nil
	})
}

// Close releases the descriptor. Closing while an operation is in flight
// fails with CodeBusy rather than yanking the descriptor out from under it.
func (h *Handle) Close() error {
	file, ok := h.slot.TryTake()
	if !ok {
		return &afile.Error{Code: afile.CodeBusy, Op: "close", Path: h.name}
	}
	defer h.slot.Put(file)
	if err := file.Close(); err != nil {
		return &afile.Error{Code: afile.CodeIO, Op: "close", Path: h.name, Err: err}
	}
	return nil
}

// Name returns the path the handle was opened with.
func (h *Handle) Name() string { return h.name }

var _ afile.Handle = (*Handle)(nil)
