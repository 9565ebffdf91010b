// Package local implements the afile backend for a local filesystem.
//
// Blocking syscalls are not run on the calling goroutine: each operation
// checks the open descriptor out of its handle's possession slot, hands a
// closure to the worker pool, and the closure checks the descriptor back in
// when the syscall finishes. The checkout is what guarantees no two
// operations ever touch the same descriptor concurrently, and the in-closure
// check-in is what keeps an abandoned operation from corrupting the handle.
//
// This is a thread-pool bridge, not true asynchronous I/O; the backend logs a
// warning to that effect the first time it is used.
package local

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"sync"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"

	afile "github.com/drewcrawford/async-file"
	"github.com/drewcrawford/async-file/internal/opslot"
	"github.com/drewcrawford/async-file/pool"
)

// FS opens files on a billy filesystem. The default is the native filesystem
// rooted at /; tests typically inject memfs.
type FS struct {
	fs     billy.Filesystem
	runner afile.Runner
	logger *slog.Logger

	perfwarn sync.Once
}

// Option configures an FS.
type Option func(*FS)

// WithFilesystem replaces the native filesystem with any billy filesystem.
func WithFilesystem(bfs billy.Filesystem) Option {
	return func(f *FS) { f.fs = bfs }
}

// WithRunner replaces the default worker pool.
func WithRunner(r afile.Runner) Option {
	return func(f *FS) { f.runner = r }
}

// WithLogger replaces slog.Default.
func WithLogger(l *slog.Logger) Option {
	return func(f *FS) { f.logger = l }
}

// New builds a local backend.
func New(opts ...Option) *FS {
	f := &FS{}
	for _, opt := range opts {
		opt(f)
	}
	if f.fs == nil {
		f.fs = osfs.New("/")
	}
	if f.runner == nil {
		f.runner = pool.New()
	}
	if f.logger == nil {
		f.logger = slog.Default()
	}
	return f
}

// Open resolves the path eagerly and returns a usable handle, or CodeNotFound
// when the file does not exist.
func (f *FS) Open(ctx context.Context, path string, pri afile.Priority) (*afile.File, error) {
	f.warnBlocking()
	file, err := afile.Offload(ctx, f.runner, pri, nil, func() (billy.File, error) {
		bf, openErr := f.fs.Open(path)
		if openErr != nil {
			if errors.Is(openErr, fs.ErrNotExist) {
				return nil, &afile.Error{Code: afile.CodeNotFound, Op: "open", Path: path, Err: openErr}
			}
			return nil, &afile.Error{Code: afile.CodeIO, Op: "open", Path: path, Err: openErr}
		}
		return bf, nil
	})
	if err != nil {
		return nil, err
	}
	return afile.NewFile(&Handle{
		fs:   f,
		name: path,
		slot: opslot.New(file),
	}), nil
}

// Exists implements afile.FS.Exists: a stat resolved to a boolean, never an
// error.
func (f *FS) Exists(ctx context.Context, path string, pri afile.Priority) bool {
	f.warnBlocking()
	ok, err := afile.Offload(ctx, f.runner, pri, nil, func() (bool, error) {
		_, statErr := f.fs.Stat(path)
		return statErr == nil, nil
	})
	return err == nil && ok
}

func (f *FS) warnBlocking() {
	f.perfwarn.Do(func() {
		f.logger.Warn("local backend offloads blocking syscalls to a worker pool; this is not true asynchronous I/O")
	})
}

var _ afile.FS = (*FS)(nil)
