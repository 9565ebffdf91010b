// Package objstore implements the afile backend for an S3-compatible object
// store via minio-go. It follows the remote backend's cursor discipline:
// seeking is local bookkeeping, reads fetch exactly the byte range the cursor
// implies, and end-relative seeks are refused.
package objstore

import (
	"context"
	"log/slog"

	"github.com/minio/minio-go/v7"

	afile "github.com/drewcrawford/async-file"
	"github.com/drewcrawford/async-file/internal/opslot"
	"github.com/drewcrawford/async-file/pool"
)

// FS opens objects in one bucket.
type FS struct {
	client *minio.Client
	bucket string
	runner afile.Runner
	logger *slog.Logger
}

// Option configures an FS.
type Option func(*FS)

// WithRunner replaces the default worker pool.
func WithRunner(r afile.Runner) Option {
	return func(f *FS) { f.runner = r }
}

// WithLogger replaces slog.Default.
func WithLogger(l *slog.Logger) Option {
	return func(f *FS) { f.logger = l }
}

// New builds an object-store backend over an existing client.
func New(client *minio.Client, bucket string, opts ...Option) *FS {
	f := &FS{client: client, bucket: bucket}
	for _, opt := range opts {
		opt(f)
	}
	if f.runner == nil {
		f.runner = pool.New()
	}
	if f.logger == nil {
		f.logger = slog.Default()
	}
	return f
}

// Exists resolves a stat to a boolean; any failure reads as absent.
func (f *FS) Exists(ctx context.Context, path string, pri afile.Priority) bool {
	ok, err := afile.Offload(ctx, f.runner, pri, nil, func() (bool, error) {
		_, statErr := f.client.StatObject(ctx, f.bucket, path, minio.StatObjectOptions{})
		if statErr != nil {
			f.logger.Debug("existence probe failed", "bucket", f.bucket, "key", path, "error", statErr)
			return false, nil
		}
		return true, nil
	})
	return err == nil && ok
}

// Open verifies the object exists, then returns a handle with its cursor at
// zero.
func (f *FS) Open(ctx context.Context, path string, pri afile.Priority) (*afile.File, error) {
	_, err := afile.Offload(ctx, f.runner, pri, nil, func() (struct{}, error) {
		_, statErr := f.client.StatObject(ctx, f.bucket, path, minio.StatObjectOptions{})
		if statErr != nil {
			if isNoSuchKey(statErr) {
				return struct{}{}, &afile.Error{Code: afile.CodeNotFound, Op: "open", Path: path, Err: statErr}
			}
			return struct{}{}, &afile.Error{Code: afile.CodeIO, Op: "open", Path: path, Err: statErr}
		}
		return struct{}{}, nil
	})
	if err != nil {
		return nil, err
	}
	return afile.NewFile(&Handle{
		fs:   f,
		key:  path,
		slot: opslot.New(&position{}),
	}), nil
}

func isNoSuchKey(err error) bool {
	resp := minio.ToErrorResponse(err)
	return resp.Code == "NoSuchKey" || resp.StatusCode == 404
}

var _ afile.FS = (*FS)(nil)
