package afile

// Priority is an opaque ordering hint attached to every operation. This
// package threads it through to the Runner unchanged and never inspects it;
// whatever scheduler backs the Runner decides what, if anything, it means.
type Priority struct {
	class uint8
}

const (
	classBackground uint8 = iota
	classUserInitiated
	classHighest
	classUnitTest
)

// Background is the lowest hint, for work nobody is waiting on.
func Background() Priority { return Priority{class: classBackground} }

// UserInitiated marks work a user is actively waiting for.
func UserInitiated() Priority { return Priority{class: classUserInitiated} }

// Highest marks work that should run before anything else.
func Highest() Priority { return Priority{class: classHighest} }

// UnitTest is the conventional priority for tests.
func UnitTest() Priority { return Priority{class: classUnitTest} }

func (p Priority) String() string {
	switch p.class {
	case classUserInitiated:
		return "user-initiated"
	case classHighest:
		return "highest"
	case classUnitTest:
		return "unit-test"
	default:
		return "background"
	}
}
