package afile

import "bytes"

// Data is an immutable owned byte buffer returned from reads.
//
// Backends construct a Data only after the underlying read has fully
// completed, from memory the reading layer itself allocated. An operation
// that is abandoned mid-flight therefore can never scribble on bytes the
// caller already holds; the incomplete buffer simply stays inside the
// abandoned unit of work and is discarded.
type Data struct {
	b []byte
}

// NewData wraps b as an immutable buffer, taking ownership of it. It is
// intended for backend implementations; callers of this package receive Data
// from reads and never build one themselves.
func NewData(b []byte) Data {
	return Data{b: b}
}

// Len reports the number of bytes held.
func (d Data) Len() int { return len(d.b) }

// Bytes converts the buffer into a caller-owned slice. The conversion is
// zero-copy; treat it as consuming the Data and do not use the Data
// afterwards if the slice will be modified.
func (d Data) Bytes() []byte { return d.b }

// Equal reports whether two buffers hold the same bytes.
func (d Data) Equal(other Data) bool {
	return bytes.Equal(d.b, other.b)
}
