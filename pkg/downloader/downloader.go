// Package downloader materializes a flipbook PDF from an ordered list of
// candidate URLs.
//
// Candidates are tried in order. A candidate is skipped when the request
// fails, the status is not 2xx, the declared content type is not a PDF, or
// the body breaks off mid-stream; only local file errors stop the run
// early. The body is written to "<dest>.part" and renamed into place once
// complete, so dest never holds a partial file.
package downloader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/ztrue/tracerr"

	"github.com/dtnitsch/flipbook-dl/pkg/progress"
	"github.com/dtnitsch/flipbook-dl/pkg/storage"
)

// ChunkSize is the fixed read/write unit while streaming a body.
const ChunkSize = 8192

// ErrTransferExhausted is returned when every candidate failed or was skipped.
var ErrTransferExhausted = errors.New("failed to download from all URLs")

var errNotPDF = errors.New("response is not a PDF")

// Opener issues a streamed GET. *fetcher.Fetcher implements it.
type Opener interface {
	Open(ctx context.Context, rawURL string) (*http.Response, error)
}

type Options struct {
	// NoOverwrites treats an existing destination as already downloaded.
	NoOverwrites bool
	// Progress receives the progress bar; nil disables it.
	Progress io.Writer
}

type Downloader struct {
	opener  Opener
	storage *storage.Storage
	logger  *slog.Logger
	opts    Options
}

// Result describes a successful Download.
type Result struct {
	Path          string
	URL           string // candidate that was used, empty when AlreadyExists
	Bytes         int64
	AlreadyExists bool
}

// localError wraps failures of the local file system, which end the
// download instead of moving on to the next candidate.
type localError struct {
	err error
}

func (e *localError) Error() string { return e.err.Error() }
func (e *localError) Unwrap() error { return e.err }

func NewDownloader(opener Opener, logger *slog.Logger, opts Options) *Downloader {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Downloader{
		opener:  opener,
		storage: &storage.Storage{},
		logger:  logger,
		opts:    opts,
	}
}

// Download fetches the first usable candidate into dest.
func (d *Downloader) Download(ctx context.Context, candidates []string, dest string) (*Result, error) {
	if d.opts.NoOverwrites && d.storage.HasFile(dest) {
		d.logger.Warn("destination already exists, skipping download", "path", dest)
		return &Result{Path: dest, AlreadyExists: true}, nil
	}

	for i, candidate := range candidates {
		d.logger.Info("downloading", "url", candidate, "candidate", i+1, "of", len(candidates))

		n, err := d.fetchCandidate(ctx, candidate, dest)
		if err == nil {
			d.logger.Info("saved", "path", dest, "size", progress.FormatBytes(n))
			return &Result{Path: dest, URL: candidate, Bytes: n}, nil
		}

		var le *localError
		if errors.As(err, &le) {
			return nil, tracerr.Wrap(le.err)
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, tracerr.Wrap(ctxErr)
		}
		d.logger.Debug("candidate failed", "url", candidate, "error", err)
	}

	return nil, tracerr.Wrap(fmt.Errorf("%w (%d tried)", ErrTransferExhausted, len(candidates)))
}

func (d *Downloader) fetchCandidate(ctx context.Context, candidate, dest string) (int64, error) {
	resp, err := d.opener.Open(ctx, candidate)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	contentType := resp.Header.Get("Content-Type")
	if !isPDF(contentType) {
		return 0, fmt.Errorf("%w: content type %q", errNotPDF, contentType)
	}

	part := d.storage.PartPath(dest)
	f, err := d.storage.Create(part)
	if err != nil {
		return 0, &localError{err: err}
	}

	bar := progress.NewBar(resp.ContentLength, d.opts.Progress)
	written, err := copyChunks(f, resp.Body, bar)
	closeErr := f.Close()
	if err == nil && closeErr != nil {
		err = &localError{err: fmt.Errorf("error closing %s: %w", part, closeErr)}
	}
	if err != nil {
		d.storage.Discard(part)
		return written, err
	}
	bar.Finish()

	if err := d.storage.Commit(part, dest); err != nil {
		d.storage.Discard(part)
		return written, &localError{err: err}
	}
	return written, nil
}

// copyChunks streams src to dst in ChunkSize pieces. Read errors come back
// as-is; write errors come back as *localError.
func copyChunks(dst io.Writer, src io.Reader, bar *progress.Bar) (int64, error) {
	buf := make([]byte, ChunkSize)
	var written int64
	for {
		n, readErr := src.Read(buf)
		if n > 0 {
			if _, err := dst.Write(buf[:n]); err != nil {
				return written, &localError{err: fmt.Errorf("error writing file: %w", err)}
			}
			written += int64(n)
			bar.Add(n)
		}
		if readErr == io.EOF {
			return written, nil
		}
		if readErr != nil {
			return written, fmt.Errorf("error reading response body: %w", readErr)
		}
	}
}

func isPDF(contentType string) bool {
	return strings.Contains(strings.ToLower(contentType), "pdf")
}
