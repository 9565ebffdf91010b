package afile

import "math"

// Metadata describes a file at the moment an operation observed it. It holds
// no reference back to the handle that produced it and stays valid after the
// handle is closed.
type Metadata struct {
	size uint64
}

// NewMetadata builds a Metadata reporting the given size. Intended for
// backend implementations.
func NewMetadata(size uint64) Metadata {
	return Metadata{size: size}
}

// Len returns the size of the file in bytes.
func (m Metadata) Len() uint64 { return m.size }

// Int returns the size as an int for use as a read length. name is the file
// path used in the error when the size does not fit.
func (m Metadata) Int(name string) (int, error) {
	if m.size > math.MaxInt {
		return 0, &Error{Code: CodeIO, Op: "readall", Path: name}
	}
	return int(m.size), nil
}
