// Package cursor implements the client-side seek arithmetic shared by the
// backends that emulate file position with a local offset instead of an OS
// descriptor.
package cursor

import (
	"io"
	"math"

	afile "github.com/drewcrawford/async-file"
)

// Apply computes the position that results from seeking relative to pos.
// On failure the returned error carries CodeSeekRange (overflow or negative
// target) or CodeUnsupported (io.SeekEnd, which would require hidden I/O to
// learn the resource length); the caller keeps its cursor unchanged.
func Apply(path string, pos, offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart:
		if offset < 0 {
			return 0, &afile.Error{Code: afile.CodeSeekRange, Op: "seek", Path: path}
		}
		return offset, nil
	case io.SeekCurrent:
		if offset > 0 && pos > math.MaxInt64-offset {
			return 0, &afile.Error{Code: afile.CodeSeekRange, Op: "seek", Path: path}
		}
		next := pos + offset
		if next < 0 {
			return 0, &afile.Error{Code: afile.CodeSeekRange, Op: "seek", Path: path}
		}
		return next, nil
	case io.SeekEnd:
		return 0, &afile.Error{Code: afile.CodeUnsupported, Op: "seek", Path: path}
	default:
		return 0, &afile.Error{Code: afile.CodeUnsupported, Op: "seek", Path: path}
	}
}
