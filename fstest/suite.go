// Package fstest provides a conformance suite for afile backend
// implementations.
//
// Backend packages import it from their tests and run the suite against a
// factory that builds a fresh backend pre-populated with the given fixture
// files. The suite validates the interface contract every backend shares;
// behavior that legitimately differs between backends (end-relative seeks)
// is skippable by name.
//
// Example usage:
//
//	func TestConformance(t *testing.T) {
//	    fstest.TestSuiteWithSkip(t, newBackend, []string{"SeekEndUnsupported"})
//	}
package fstest

import (
	"bytes"
	"context"
	"io"
	"testing"

	afile "github.com/drewcrawford/async-file"
)

// Factory builds a fresh backend serving exactly the given files. Each
// invocation must produce an independent instance.
type Factory func(t *testing.T, files map[string][]byte) afile.FS

// Fixture paths every factory must serve (or refuse, for Missing).
const (
	FixtureAlpha   = "data/alpha.bin"
	FixtureEmpty   = "data/empty.bin"
	FixtureMissing = "data/missing.bin"
)

// FixtureSize is the length of the alpha fixture.
const FixtureSize = 4096

// Files returns the canonical fixture content.
func Files() map[string][]byte {
	return map[string][]byte{
		FixtureAlpha: AlphaContent(),
		FixtureEmpty: {},
	}
}

// AlphaContent is a deterministic non-repeating-ish pattern long enough to
// make offset mistakes visible.
func AlphaContent() []byte {
	b := make([]byte, FixtureSize)
	for i := range b {
		b[i] = byte(i % 251)
	}
	return b
}

// TestSuite runs all conformance tests against the factory.
func TestSuite(t *testing.T, newFS Factory) {
	TestSuiteWithSkip(t, newFS, nil)
}

// TestSuiteWithSkip runs the conformance tests, skipping the named ones.
// Backends that support end-relative seeks skip "SeekEndUnsupported".
func TestSuiteWithSkip(t *testing.T, newFS Factory, skipTests []string) {
	shouldSkip := func(name string) bool {
		for _, skip := range skipTests {
			if skip == name {
				return true
			}
		}
		return false
	}

	run := func(name string, fn func(t *testing.T, fs afile.FS)) {
		t.Run(name, func(t *testing.T) {
			if shouldSkip(name) {
				t.Skip("skipped by backend configuration")
				return
			}
			fn(t, newFS(t, Files()))
		})
	}

	run("OpenMetadataReadAll", testOpenMetadataReadAll)
	run("ShortRead", testShortRead)
	run("ReadEmpty", testReadEmpty)
	run("ReadAdvances", testReadAdvances)
	run("SeekRoundTrip", testSeekRoundTrip)
	run("SeekNegative", testSeekNegative)
	run("SeekEndUnsupported", testSeekEndUnsupported)
	run("Exists", testExists)
	run("OpenMissing", testOpenMissing)
}

// testOpenMetadataReadAll checks that open, metadata, then a read of exactly
// that length yields the fixture bytes.
func testOpenMetadataReadAll(t *testing.T, fs afile.FS) {
	ctx := context.Background()
	f, err := fs.Open(ctx, FixtureAlpha, afile.UnitTest())
	if err != nil {
		t.Fatalf("Open(%q): %v", FixtureAlpha, err)
	}
	defer func() { _ = f.Close() }()

	md, err := f.Metadata(ctx, afile.UnitTest())
	if err != nil {
		t.Fatalf("Metadata(): %v", err)
	}
	if md.Len() != FixtureSize {
		t.Errorf("Metadata().Len() = %d, want %d", md.Len(), FixtureSize)
	}

	data, err := f.ReadAll(ctx, afile.UnitTest())
	if err != nil {
		t.Fatalf("ReadAll(): %v", err)
	}
	if data.Len() != FixtureSize {
		t.Errorf("ReadAll(): got %d bytes, want %d", data.Len(), FixtureSize)
	}
	if !bytes.Equal(data.Bytes(), AlphaContent()) {
		t.Errorf("ReadAll(): content mismatch")
	}
}

// testShortRead checks that a read larger than the resource returns exactly
// the remaining bytes, never more, and without an error.
func testShortRead(t *testing.T, fs afile.FS) {
	ctx := context.Background()
	f, err := fs.Open(ctx, FixtureAlpha, afile.UnitTest())
	if err != nil {
		t.Fatalf("Open(%q): %v", FixtureAlpha, err)
	}
	defer func() { _ = f.Close() }()

	data, err := f.Read(ctx, FixtureSize+100, afile.UnitTest())
	if err != nil {
		t.Fatalf("Read(%d): %v", FixtureSize+100, err)
	}
	if data.Len() != FixtureSize {
		t.Errorf("Read(%d): got %d bytes, want %d", FixtureSize+100, data.Len(), FixtureSize)
	}
}

// testReadEmpty pins the zero-length fixture behavior: reading 1024 bytes
// from an empty resource returns a zero-byte buffer on every backend.
func testReadEmpty(t *testing.T, fs afile.FS) {
	ctx := context.Background()
	f, err := fs.Open(ctx, FixtureEmpty, afile.UnitTest())
	if err != nil {
		t.Fatalf("Open(%q): %v", FixtureEmpty, err)
	}
	defer func() { _ = f.Close() }()

	data, err := f.Read(ctx, 1024, afile.UnitTest())
	if err != nil {
		t.Fatalf("Read(1024): %v", err)
	}
	if data.Len() != 0 {
		t.Errorf("Read(1024) on empty resource: got %d bytes, want 0", data.Len())
	}
}

// testReadAdvances checks that consecutive reads walk forward through the
// resource the way a real file position does.
func testReadAdvances(t *testing.T, fs afile.FS) {
	ctx := context.Background()
	f, err := fs.Open(ctx, FixtureAlpha, afile.UnitTest())
	if err != nil {
		t.Fatalf("Open(%q): %v", FixtureAlpha, err)
	}
	defer func() { _ = f.Close() }()

	want := AlphaContent()
	first, err := f.Read(ctx, 10, afile.UnitTest())
	if err != nil {
		t.Fatalf("first Read(10): %v", err)
	}
	second, err := f.Read(ctx, 10, afile.UnitTest())
	if err != nil {
		t.Fatalf("second Read(10): %v", err)
	}
	if !bytes.Equal(first.Bytes(), want[0:10]) {
		t.Errorf("first Read(10): got % x, want % x", first.Bytes(), want[0:10])
	}
	if !bytes.Equal(second.Bytes(), want[10:20]) {
		t.Errorf("second Read(10): got % x, want % x", second.Bytes(), want[10:20])
	}
}

// testSeekRoundTrip checks Start(0), Current(+100), Current(-100) lands back
// on offset 0.
func testSeekRoundTrip(t *testing.T, fs afile.FS) {
	ctx := context.Background()
	f, err := fs.Open(ctx, FixtureAlpha, afile.UnitTest())
	if err != nil {
		t.Fatalf("Open(%q): %v", FixtureAlpha, err)
	}
	defer func() { _ = f.Close() }()

	pos, err := f.Seek(ctx, 0, io.SeekStart, afile.UnitTest())
	if err != nil || pos != 0 {
		t.Fatalf("Seek(0, Start) = %d, %v; want 0, nil", pos, err)
	}
	pos, err = f.Seek(ctx, 100, io.SeekCurrent, afile.UnitTest())
	if err != nil || pos != 100 {
		t.Fatalf("Seek(+100, Current) = %d, %v; want 100, nil", pos, err)
	}
	pos, err = f.Seek(ctx, -100, io.SeekCurrent, afile.UnitTest())
	if err != nil || pos != 0 {
		t.Fatalf("Seek(-100, Current) = %d, %v; want 0, nil", pos, err)
	}
}

// testSeekNegative checks that a seek producing a negative position fails and
// leaves the position unchanged.
func testSeekNegative(t *testing.T, fs afile.FS) {
	ctx := context.Background()
	f, err := fs.Open(ctx, FixtureAlpha, afile.UnitTest())
	if err != nil {
		t.Fatalf("Open(%q): %v", FixtureAlpha, err)
	}
	defer func() { _ = f.Close() }()

	if _, err := f.Seek(ctx, 5, io.SeekStart, afile.UnitTest()); err != nil {
		t.Fatalf("Seek(5, Start): %v", err)
	}
	_, err = f.Seek(ctx, -10, io.SeekCurrent, afile.UnitTest())
	if err == nil {
		t.Fatal("Seek(-10, Current) from 5: want error, got nil")
	}
	switch code := afile.CodeOf(err); code {
	case afile.CodeSeekRange, afile.CodeIO:
		// Cursor backends report the arithmetic failure; descriptor
		// backends surface the OS refusal.
	default:
		t.Errorf("Seek(-10, Current): code = %s, want %s or %s", code, afile.CodeSeekRange, afile.CodeIO)
	}

	pos, err := f.Seek(ctx, 0, io.SeekCurrent, afile.UnitTest())
	if err != nil {
		t.Fatalf("Seek(0, Current): %v", err)
	}
	if pos != 5 {
		t.Errorf("position after failed seek = %d, want 5", pos)
	}
}

// testSeekEndUnsupported checks cursor backends refuse end-relative seeks
// outright.
func testSeekEndUnsupported(t *testing.T, fs afile.FS) {
	ctx := context.Background()
	f, err := fs.Open(ctx, FixtureAlpha, afile.UnitTest())
	if err != nil {
		t.Fatalf("Open(%q): %v", FixtureAlpha, err)
	}
	defer func() { _ = f.Close() }()

	_, err = f.Seek(ctx, 0, io.SeekEnd, afile.UnitTest())
	if code := afile.CodeOf(err); code != afile.CodeUnsupported {
		t.Errorf("Seek(0, End): code = %s, want %s", code, afile.CodeUnsupported)
	}
}

// testExists checks present resources read as true, absent ones as false.
func testExists(t *testing.T, fs afile.FS) {
	ctx := context.Background()
	if !fs.Exists(ctx, FixtureAlpha, afile.UnitTest()) {
		t.Errorf("Exists(%q) = false, want true", FixtureAlpha)
	}
	if fs.Exists(ctx, FixtureMissing, afile.UnitTest()) {
		t.Errorf("Exists(%q) = true, want false", FixtureMissing)
	}
}

// testOpenMissing checks opening an absent resource fails with CodeNotFound.
func testOpenMissing(t *testing.T, fs afile.FS) {
	ctx := context.Background()
	_, err := fs.Open(ctx, FixtureMissing, afile.UnitTest())
	if !afile.IsNotFound(err) {
		t.Errorf("Open(%q): err = %v, want %s", FixtureMissing, err, afile.CodeNotFound)
	}
}
