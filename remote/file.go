package remote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	afile "github.com/drewcrawford/async-file"
	"github.com/drewcrawford/async-file/internal/cursor"
	"github.com/drewcrawford/async-file/internal/opslot"
)

// readChunk is the size of each pull from the response stream while
// accumulating a ranged read.
const readChunk = 32 * 1024

// position is the mutable per-handle state. It lives in the possession slot
// so that cursor updates serialize exactly like descriptor access does on the
// local backend.
type position struct {
	off int64
}

// Handle is one open remote file: a path and a cursor, nothing else. The
// cursor has no relation to any server-side state and is only used to compute
// the next Range header.
type Handle struct {
	fs   *FS
	path string
	slot *opslot.Slot[*position]
}

// Read issues a ranged GET for [cursor, cursor+size] and accumulates the
// response stream chunk by chunk until size bytes arrive or the stream ends,
// whichever comes first. A successful read advances the cursor by the bytes
// returned, matching local file-position semantics.
func (h *Handle) Read(ctx context.Context, size int, pri afile.Priority) (afile.Data, error) {
	pos, ok := h.slot.TryTake()
	if !ok {
		return afile.Data{}, &afile.Error{Code: afile.CodeBusy, Op: "read", Path: h.path}
	}
	return afile.Offload(ctx, h.fs.runner, pri, func() { h.slot.Put(pos) }, func() (afile.Data, error) {
		defer h.slot.Put(pos)

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.fs.url(h.path), nil)
		if err != nil {
			return afile.Data{}, &afile.Error{Code: afile.CodeIO, Op: "read", Path: h.path, Err: err}
		}
		req.Header.Set("Range", fmt.Sprintf("bytes=%d-%d", pos.off, pos.off+int64(size)))

		resp, err := h.fs.client.Do(req)
		if err != nil {
			return afile.Data{}, &afile.Error{Code: afile.CodeIO, Op: "read", Path: h.path, Err: err}
		}
		defer func() { _ = resp.Body.Close() }()
		if !success(resp.StatusCode) {
			h.fs.logger.Debug("ranged read refused", "path", h.path, "status", resp.StatusCode)
			return afile.Data{}, &afile.Error{Code: afile.CodeUnexpectedStatus, Op: "read", Path: h.path, Status: resp.StatusCode}
		}
		// A 206 carrying no stream at all is malformed: the server accepted
		// the range but delivered nothing. A plain 200 with an empty body is
		// a legitimate empty resource.
		if resp.Body == nil || (size > 0 && resp.StatusCode == http.StatusPartialContent && resp.Body == http.NoBody) {
			return afile.Data{}, &afile.Error{Code: afile.CodeEmptyBody, Op: "read", Path: h.path}
		}

		buf, err := accumulate(resp.Body, size)
		if err != nil {
			return afile.Data{}, &afile.Error{Code: afile.CodeIO, Op: "read", Path: h.path, Err: err}
		}
		pos.off += int64(len(buf))
		return afile.NewData(buf), nil
	})
}

// accumulate pulls chunks from the stream, appending each, until the
// accumulator reaches size bytes or the stream completes. The result may be
// shorter than size; that is the remote short read.
func accumulate(body io.Reader, size int) ([]byte, error) {
	buf := make([]byte, 0, size)
	chunk := make([]byte, min(readChunk, max(size, 1)))
	for len(buf) < size {
		n, err := body.Read(chunk)
		if n > 0 {
			buf = append(buf, chunk[:min(n, size-len(buf))]...)
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}
	}
	return buf, nil
}

// Seek is pure cursor arithmetic; it never issues a request. End-relative
// seeks fail with CodeUnsupported, overflowing or negative results with
// CodeSeekRange, and in both cases the cursor is unchanged.
func (h *Handle) Seek(ctx context.Context, offset int64, whence int, pri afile.Priority) (int64, error) {
	pos, ok := h.slot.TryTake()
	if !ok {
		return 0, &afile.Error{Code: afile.CodeBusy, Op: "seek", Path: h.path}
	}
	defer h.slot.Put(pos)
	next, err := cursor.Apply(h.path, pos.off, offset, whence)
	if err != nil {
		return 0, err
	}
	pos.off = next
	return next, nil
}

// Metadata issues a HEAD request and reads the Content-Length header. A
// missing or non-numeric header fails with CodeBadLength.
func (h *Handle) Metadata(ctx context.Context, pri afile.Priority) (afile.Metadata, error) {
	pos, ok := h.slot.TryTake()
	if !ok {
		return afile.Metadata{}, &afile.Error{Code: afile.CodeBusy, Op: "metadata", Path: h.path}
	}
	return afile.Offload(ctx, h.fs.runner, pri, func() { h.slot.Put(pos) }, func() (afile.Metadata, error) {
		defer h.slot.Put(pos)

		req, err := http.NewRequestWithContext(ctx, http.MethodHead, h.fs.url(h.path), nil)
		if err != nil {
			return afile.Metadata{}, &afile.Error{Code: afile.CodeIO, Op: "metadata", Path: h.path, Err: err}
		}
		resp, err := h.fs.client.Do(req)
		if err != nil {
			return afile.Metadata{}, &afile.Error{Code: afile.CodeIO, Op: "metadata", Path: h.path, Err: err}
		}
		defer func() { _ = resp.Body.Close() }()
		if !success(resp.StatusCode) {
			return afile.Metadata{}, &afile.Error{Code: afile.CodeUnexpectedStatus, Op: "metadata", Path: h.path, Status: resp.StatusCode}
		}
		raw := resp.Header.Get("Content-Length")
		if raw == "" {
			return afile.Metadata{}, &afile.Error{Code: afile.CodeBadLength, Op: "metadata", Path: h.path}
		}
		size, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return afile.Metadata{}, &afile.Error{Code: afile.CodeBadLength, Op: "metadata", Path: h.path, Err: err}
		}
		return afile.NewMetadata(size), nil
	})
}

// Close is a no-op: the handle holds no network state.
func (h *Handle) Close() error { return nil }

// Name returns the path the handle was opened with.
func (h *Handle) Name() string { return h.path }

var _ afile.Handle = (*Handle)(nil)
