package objstore

import (
	"context"
	"errors"
	"io"

	"github.com/minio/minio-go/v7"

	afile "github.com/drewcrawford/async-file"
	"github.com/drewcrawford/async-file/internal/cursor"
	"github.com/drewcrawford/async-file/internal/opslot"
)

type position struct {
	off int64
}

// Handle is one open object: a key and a cursor.
type Handle struct {
	fs   *FS
	key  string
	slot *opslot.Slot[*position]
}

// Read fetches the byte range the cursor implies and accumulates the object
// stream until size bytes arrive or the stream ends. A range that starts at
// or past the end of the object is a zero-byte read, mirroring local EOF
// semantics. A successful read advances the cursor.
func (h *Handle) Read(ctx context.Context, size int, pri afile.Priority) (afile.Data, error) {
	pos, ok := h.slot.TryTake()
	if !ok {
		return afile.Data{}, &afile.Error{Code: afile.CodeBusy, Op: "read", Path: h.key}
	}
	return afile.Offload(ctx, h.fs.runner, pri, func() { h.slot.Put(pos) }, func() (afile.Data, error) {
		defer h.slot.Put(pos)

		opts := minio.GetObjectOptions{}
		if err := opts.SetRange(pos.off, pos.off+int64(size)); err != nil {
			return afile.Data{}, &afile.Error{Code: afile.CodeIO, Op: "read", Path: h.key, Err: err}
		}
		obj, err := h.fs.client.GetObject(ctx, h.fs.bucket, h.key, opts)
		if err != nil {
			return afile.Data{}, &afile.Error{Code: afile.CodeIO, Op: "read", Path: h.key, Err: err}
		}
		defer func() { _ = obj.Close() }()

		buf := make([]byte, 0, size)
		chunk := make([]byte, min(32*1024, max(size, 1)))
		for len(buf) < size {
			n, readErr := obj.Read(chunk)
			if n > 0 {
				buf = append(buf, chunk[:min(n, size-len(buf))]...)
			}
			if readErr != nil {
				if errors.Is(readErr, io.EOF) {
					break
				}
				if outOfRange(readErr) {
					break
				}
				return afile.Data{}, &afile.Error{Code: afile.CodeIO, Op: "read", Path: h.key, Err: readErr}
			}
		}
		pos.off += int64(len(buf))
		return afile.NewData(buf), nil
	})
}

// outOfRange recognizes the store refusing a range that starts past the end
// of the object, which local semantics treat as EOF rather than a failure.
func outOfRange(err error) bool {
	resp := minio.ToErrorResponse(err)
	return resp.Code == "InvalidRange" || resp.StatusCode == 416
}

// Seek is local cursor bookkeeping, identical to the remote backend: no
// request, CodeUnsupported for io.SeekEnd, CodeSeekRange on overflow.
func (h *Handle) Seek(ctx context.Context, offset int64, whence int, pri afile.Priority) (int64, error) {
	pos, ok := h.slot.TryTake()
	if !ok {
		return 0, &afile.Error{Code: afile.CodeBusy, Op: "seek", Path: h.key}
	}
	defer h.slot.Put(pos)
	next, err := cursor.Apply(h.key, pos.off, offset, whence)
	if err != nil {
		return 0, err
	}
	pos.off = next
	return next, nil
}

// Metadata stats the object and reports its size.
func (h *Handle) Metadata(ctx context.Context, pri afile.Priority) (afile.Metadata, error) {
	pos, ok := h.slot.TryTake()
	if !ok {
		return afile.Metadata{}, &afile.Error{Code: afile.CodeBusy, Op: "metadata", Path: h.key}
	}
	return afile.Offload(ctx, h.fs.runner, pri, func() { h.slot.Put(pos) }, func() (afile.Metadata, error) {
		defer h.slot.Put(pos)
		info, err := h.fs.client.StatObject(ctx, h.fs.bucket, h.key, minio.StatObjectOptions{})
		if err != nil {
			if isNoSuchKey(err) {
				return afile.Metadata{}, &afile.Error{Code: afile.CodeNotFound, Op: "metadata", Path: h.key, Err: err}
			}
			return afile.Metadata{}, &afile.Error{Code: afile.CodeIO, Op: "metadata", Path: h.key, Err: err}
		}
		return afile.NewMetadata(uint64(info.Size)), nil
	})
}

// Close is a no-op: the handle holds no connection state.
func (h *Handle) Close() error { return nil }

// Name returns the object key the handle was opened with.
func (h *Handle) Name() string { return h.key }

var _ afile.Handle = (*Handle)(nil)
