// Package opslot implements the Idle/Busy possession slot that serializes
// operations on a file handle.
//
// A Slot holds the one resource a backend needs exclusive ownership of to
// perform an operation: the open descriptor for a local file, the mutable
// cursor record for a remote one. An operation checks the resource out before
// doing any work and checks it back in when the work finishes, on success or
// failure. Because the check-in runs inside the unit of work itself, an
// operation whose caller stopped waiting still restores the slot when it
// eventually completes; until then the handle reads as busy.
package opslot

// Slot is a single-resource checkout. The zero value is not usable; build
// one with New.
type Slot[T any] struct {
	ch chan T
}

// New returns a slot in the Idle state holding v.
func New[T any](v T) *Slot[T] {
	s := &Slot[T]{ch: make(chan T, 1)}
	s.ch <- v
	return s
}

// TryTake checks the resource out, moving the slot to Busy. It never blocks:
// ok is false when an operation already holds the resource.
func (s *Slot[T]) TryTake() (v T, ok bool) {
	select {
	case v = <-s.ch:
		return v, true
	default:
		return v, false
	}
}

// Put checks the resource back in, moving the slot to Idle. Putting into an
// Idle slot is a caller defect.
func (s *Slot[T]) Put(v T) {
	select {
	case s.ch <- v:
	default:
		panic("opslot: Put on an idle slot")
	}
}
