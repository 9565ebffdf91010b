package remote_test

import (
	"context"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	afile "github.com/drewcrawford/async-file"
	"github.com/drewcrawford/async-file/fstest"
	"github.com/drewcrawford/async-file/remote"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// rangeHandler serves the fixture files the way a static HTTP origin would:
// HEAD with Content-Length, GET honoring an inclusive bytes=start-end Range.
// A range starting at or past the end is pinned to an empty 200 so zero-length
// resources read as empty rather than erroring.
func rangeHandler(files map[string][]byte, hits *atomic.Int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			hits.Add(1)
		}
		content, ok := files[strings.TrimPrefix(r.URL.Path, "/")]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		switch r.Method {
		case http.MethodHead:
			w.Header().Set("Content-Length", strconv.Itoa(len(content)))
			w.WriteHeader(http.StatusOK)
		case http.MethodGet:
			start, end, ranged := parseRange(r.Header.Get("Range"), len(content))
			if !ranged {
				_, _ = w.Write(content)
				return
			}
			if start >= len(content) {
				w.WriteHeader(http.StatusOK)
				return
			}
			w.WriteHeader(http.StatusPartialContent)
			_, _ = w.Write(content[start : end+1])
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}
}

// parseRange understands the single form this backend emits: bytes=start-end,
// end inclusive, clamped to the resource.
func parseRange(header string, size int) (start, end int, ok bool) {
	spec, found := strings.CutPrefix(header, "bytes=")
	if !found {
		return 0, 0, false
	}
	lo, hi, found := strings.Cut(spec, "-")
	if !found {
		return 0, 0, false
	}
	start, err := strconv.Atoi(lo)
	if err != nil {
		return 0, 0, false
	}
	end, err = strconv.Atoi(hi)
	if err != nil {
		return 0, 0, false
	}
	if end > size-1 {
		end = size - 1
	}
	return start, end, true
}

func newServerFS(t *testing.T, files map[string][]byte) afile.FS {
	t.Helper()
	srv := httptest.NewServer(rangeHandler(files, nil))
	t.Cleanup(srv.Close)
	// Shadow any ambient origin so the suite always talks to its own server.
	t.Setenv(remote.OriginEnv, srv.URL)
	fs, err := remote.New(remote.WithLogger(quietLogger()))
	require.NoError(t, err)
	return fs
}

func TestConformance(t *testing.T) {
	fstest.TestSuite(t, newServerFS)
}

func TestOriginRequired(t *testing.T) {
	t.Setenv(remote.OriginEnv, "")
	_, err := remote.New()
	assert.Equal(t, afile.CodeNoOrigin, afile.CodeOf(err))
}

func TestOriginFromEnvironment(t *testing.T) {
	srv := httptest.NewServer(rangeHandler(map[string][]byte{"f.bin": []byte("x")}, nil))
	t.Cleanup(srv.Close)

	t.Setenv(remote.OriginEnv, srv.URL)
	fs, err := remote.New()
	require.NoError(t, err)
	assert.True(t, fs.Exists(context.Background(), "f.bin", afile.UnitTest()))
}

func TestEnvironmentTakesPrecedenceOverOption(t *testing.T) {
	var envHits, optHits atomic.Int64
	envSrv := httptest.NewServer(rangeHandler(map[string][]byte{"f.bin": []byte("x")}, &envHits))
	t.Cleanup(envSrv.Close)
	optSrv := httptest.NewServer(rangeHandler(map[string][]byte{"f.bin": []byte("x")}, &optHits))
	t.Cleanup(optSrv.Close)

	t.Setenv(remote.OriginEnv, envSrv.URL)
	fs, err := remote.New(remote.WithOrigin(optSrv.URL))
	require.NoError(t, err)

	fs.Exists(context.Background(), "f.bin", afile.UnitTest())
	assert.Equal(t, int64(1), envHits.Load(), "ambient origin should be used")
	assert.Equal(t, int64(0), optHits.Load(), "configured origin should be shadowed")
}

func TestHeadNotFound(t *testing.T) {
	ctx := context.Background()
	fs := newServerFS(t, map[string][]byte{})

	assert.False(t, fs.Exists(ctx, "absent.bin", afile.UnitTest()))
	_, err := fs.Open(ctx, "absent.bin", afile.UnitTest())
	assert.True(t, afile.IsNotFound(err))
}

func TestExistsOnUnreachableOrigin(t *testing.T) {
	fs, err := remote.New(
		remote.WithOrigin("http://127.0.0.1:1"),
		remote.WithLogger(quietLogger()),
	)
	require.NoError(t, err)
	assert.False(t, fs.Exists(context.Background(), "f.bin", afile.UnitTest()))
}

func TestSeekIssuesNoRequest(t *testing.T) {
	ctx := context.Background()
	var hits atomic.Int64
	srv := httptest.NewServer(rangeHandler(map[string][]byte{"f.bin": []byte("0123456789")}, &hits))
	t.Cleanup(srv.Close)
	fs, err := remote.New(remote.WithOrigin(srv.URL), remote.WithLogger(quietLogger()))
	require.NoError(t, err)

	f, err := fs.Open(ctx, "f.bin", afile.UnitTest())
	require.NoError(t, err)
	opened := hits.Load()

	_, err = f.Seek(ctx, 5, io.SeekStart, afile.UnitTest())
	require.NoError(t, err)
	_, err = f.Seek(ctx, -2, io.SeekCurrent, afile.UnitTest())
	require.NoError(t, err)
	_, err = f.Seek(ctx, 0, io.SeekEnd, afile.UnitTest())
	assert.Equal(t, afile.CodeUnsupported, afile.CodeOf(err))

	assert.Equal(t, opened, hits.Load(), "seek must be pure bookkeeping")
}

func TestSeekOverflow(t *testing.T) {
	ctx := context.Background()
	fs := newServerFS(t, map[string][]byte{"f.bin": []byte("abc")})
	f, err := fs.Open(ctx, "f.bin", afile.UnitTest())
	require.NoError(t, err)

	_, err = f.Seek(ctx, math.MaxInt64, io.SeekStart, afile.UnitTest())
	require.NoError(t, err)
	_, err = f.Seek(ctx, 10, io.SeekCurrent, afile.UnitTest())
	assert.Equal(t, afile.CodeSeekRange, afile.CodeOf(err))

	// Cursor unchanged by the failed seek.
	pos, err := f.Seek(ctx, 0, io.SeekCurrent, afile.UnitTest())
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64), pos)
}

func TestReadUnexpectedStatus(t *testing.T) {
	ctx := context.Background()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.Header().Set("Content-Length", "10")
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)
	fs, err := remote.New(remote.WithOrigin(srv.URL), remote.WithLogger(quietLogger()))
	require.NoError(t, err)

	f, err := fs.Open(ctx, "f.bin", afile.UnitTest())
	require.NoError(t, err)

	_, err = f.Read(ctx, 10, afile.UnitTest())
	var e *afile.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, afile.CodeUnexpectedStatus, e.Code)
	assert.Equal(t, http.StatusInternalServerError, e.Status)
}

func TestMetadataMissingLength(t *testing.T) {
	ctx := context.Background()
	// Hijack the connection to emit a HEAD response with no Content-Length
	// at all, which the net/http server would otherwise add.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hj, ok := w.(http.Hijacker)
		require.True(t, ok, "server does not support hijacking")
		conn, buf, err := hj.Hijack()
		require.NoError(t, err)
		defer conn.Close()
		_, _ = buf.WriteString("HTTP/1.1 200 OK\r\nConnection: close\r\n\r\n")
		_ = buf.Flush()
	}))
	t.Cleanup(srv.Close)
	fs, err := remote.New(remote.WithOrigin(srv.URL), remote.WithLogger(quietLogger()))
	require.NoError(t, err)

	f, err := fs.Open(ctx, "f.bin", afile.UnitTest())
	require.NoError(t, err)

	_, err = f.Metadata(ctx, afile.UnitTest())
	assert.Equal(t, afile.CodeBadLength, afile.CodeOf(err))
}

type rtFunc func(*http.Request) (*http.Response, error)

func (f rtFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func TestReadEmptyBody(t *testing.T) {
	ctx := context.Background()
	client := &http.Client{Transport: rtFunc(func(r *http.Request) (*http.Response, error) {
		return &http.Response{
			Status:     "206 Partial Content",
			StatusCode: http.StatusPartialContent,
			Proto:      "HTTP/1.1",
			ProtoMajor: 1,
			ProtoMinor: 1,
			Header:     http.Header{},
			Body:       http.NoBody,
			Request:    r,
		}, nil
	})}
	fs, err := remote.New(
		remote.WithOrigin("http://origin.invalid"),
		remote.WithHTTPClient(client),
		remote.WithLogger(quietLogger()),
	)
	require.NoError(t, err)

	f, err := fs.Open(ctx, "f.bin", afile.UnitTest())
	require.NoError(t, err)

	_, err = f.Read(ctx, 10, afile.UnitTest())
	assert.Equal(t, afile.CodeEmptyBody, afile.CodeOf(err))
}

func TestSecondOperationWhileInFlightIsBusy(t *testing.T) {
	ctx := context.Background()
	entered := make(chan struct{}, 8)
	release := make(chan struct{})
	content := []byte("0123456789")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.Header().Set("Content-Length", strconv.Itoa(len(content)))
			return
		}
		entered <- struct{}{}
		<-release
		w.WriteHeader(http.StatusPartialContent)
		_, _ = w.Write(content[:4])
	}))
	t.Cleanup(srv.Close)
	fs, err := remote.New(remote.WithOrigin(srv.URL), remote.WithLogger(quietLogger()))
	require.NoError(t, err)

	f, err := fs.Open(ctx, "f.bin", afile.UnitTest())
	require.NoError(t, err)

	result := make(chan error, 1)
	go func() {
		_, readErr := f.Read(ctx, 4, afile.UnitTest())
		result <- readErr
	}()
	<-entered // the read holds the cursor now

	_, err = f.Metadata(ctx, afile.UnitTest())
	assert.True(t, afile.IsBusy(err), "metadata during in-flight read: %v", err)
	_, err = f.Seek(ctx, 0, io.SeekStart, afile.UnitTest())
	assert.True(t, afile.IsBusy(err), "seek during in-flight read: %v", err)

	close(release)
	require.NoError(t, <-result)

	// Possession restored; the cursor advanced past the bytes read.
	pos, err := f.Seek(ctx, 0, io.SeekCurrent, afile.UnitTest())
	require.NoError(t, err)
	assert.Equal(t, int64(4), pos)
}
