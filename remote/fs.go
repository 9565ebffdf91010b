// Package remote implements the afile backend for an HTTP origin, for
// environments with no direct filesystem access. A file is a URL plus a
// client-tracked cursor: reads are ranged GETs, metadata is a HEAD
// Content-Length, existence is a HEAD status check, and seeking is pure local
// bookkeeping that never touches the network.
//
// The emulation is deliberately not a byte-for-byte filesystem: end-relative
// seeks are refused (learning the length would require hidden I/O) and the
// server is free to deliver short ranges, which surface as short reads.
package remote

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"strings"

	afile "github.com/drewcrawford/async-file"
	"github.com/drewcrawford/async-file/internal/opslot"
	"github.com/drewcrawford/async-file/pool"
)

// OriginEnv is the environment variable consulted before any configured
// origin. The resolution order is ambient environment, then WithOrigin, then
// failure with CodeNoOrigin.
const OriginEnv = "ASYNC_FILE_ORIGIN"

// FS opens files against one HTTP origin.
type FS struct {
	origin string
	client *http.Client
	runner afile.Runner
	logger *slog.Logger
}

// Option configures an FS.
type Option func(*FS)

// WithOrigin sets the base URL relative paths resolve against, e.g.
// "http://localhost:8080". The OriginEnv environment variable takes
// precedence when set.
func WithOrigin(origin string) Option {
	return func(f *FS) { f.origin = origin }
}

// WithHTTPClient replaces http.DefaultClient.
func WithHTTPClient(c *http.Client) Option {
	return func(f *FS) { f.client = c }
}

// WithRunner replaces the default worker pool.
func WithRunner(r afile.Runner) Option {
	return func(f *FS) { f.runner = r }
}

// WithLogger replaces slog.Default.
func WithLogger(l *slog.Logger) Option {
	return func(f *FS) { f.logger = l }
}

// New builds a remote backend. It fails with CodeNoOrigin when neither the
// environment nor the options supply an origin; nothing in this package
// panics on a missing configuration.
func New(opts ...Option) (*FS, error) {
	f := &FS{}
	for _, opt := range opts {
		opt(f)
	}
	if env := os.Getenv(OriginEnv); env != "" {
		f.origin = env
	}
	if f.origin == "" {
		return nil, &afile.Error{Code: afile.CodeNoOrigin, Op: "new"}
	}
	f.origin = strings.TrimSuffix(f.origin, "/")
	if f.client == nil {
		f.client = http.DefaultClient
	}
	if f.runner == nil {
		f.runner = pool.New()
	}
	if f.logger == nil {
		f.logger = slog.Default()
	}
	return f, nil
}

func (f *FS) url(path string) string {
	return f.origin + "/" + strings.TrimPrefix(path, "/")
}

// Exists issues a HEAD request and resolves it to a boolean. Any non-success
// status or transport failure reads as absent; the probe itself never raises
// an error.
func (f *FS) Exists(ctx context.Context, path string, pri afile.Priority) bool {
	ok, err := afile.Offload(ctx, f.runner, pri, nil, func() (bool, error) {
		req, reqErr := http.NewRequestWithContext(ctx, http.MethodHead, f.url(path), nil)
		if reqErr != nil {
			return false, nil
		}
		resp, doErr := f.client.Do(req)
		if doErr != nil {
			f.logger.Debug("existence probe failed", "path", path, "error", doErr)
			return false, nil
		}
		_ = resp.Body.Close()
		return success(resp.StatusCode), nil
	})
	return err == nil && ok
}

// Open verifies the resource exists, then returns a handle with its cursor at
// zero. No network state is retained beyond the path string.
func (f *FS) Open(ctx context.Context, path string, pri afile.Priority) (*afile.File, error) {
	if !f.Exists(ctx, path, pri) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return nil, &afile.Error{Code: afile.CodeNotFound, Op: "open", Path: path}
	}
	return afile.NewFile(&Handle{
		fs:   f,
		path: path,
		slot: opslot.New(&position{}),
	}), nil
}

func success(status int) bool {
	return status >= 200 && status < 300
}

var _ afile.FS = (*FS)(nil)
