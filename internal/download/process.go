package download

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/ztrue/tracerr"
	"gopkg.in/yaml.v3"

	"github.com/dtnitsch/flipbook-dl/internal/common"
	"github.com/dtnitsch/flipbook-dl/models"
	"github.com/dtnitsch/flipbook-dl/pkg/caching"
	"github.com/dtnitsch/flipbook-dl/pkg/db"
	"github.com/dtnitsch/flipbook-dl/pkg/detector"
	"github.com/dtnitsch/flipbook-dl/pkg/downloader"
	"github.com/dtnitsch/flipbook-dl/pkg/extractor"
	"github.com/dtnitsch/flipbook-dl/pkg/fetcher"
	"github.com/dtnitsch/flipbook-dl/pkg/formatter"
	"github.com/dtnitsch/flipbook-dl/pkg/storage"
)

// URLState tracks one URL through a batch.
type URLState int

const (
	StatePending URLState = iota
	StateProcessing
	StateDone
	StateFailed
)

func (s URLState) String() string {
	switch s {
	case StatePending:
		return "PENDING"
	case StateProcessing:
		return "PROCESSING"
	case StateDone:
		return "DONE"
	case StateFailed:
		return "FAILED"
	default:
		return fmt.Sprintf("URLState(%d)", int(s))
	}
}

// Summary counts the outcome of a batch.
type Summary struct {
	States []URLState
	Done   int
	Failed int
}

// Runner processes flipbook URLs one after another.
type Runner struct {
	cfg        *models.DownloadConfig
	logger     *slog.Logger
	fetcher    *fetcher.Fetcher
	extractor  *extractor.Extractor
	downloader *downloader.Downloader
	storage    *storage.Storage
	cache      *caching.PageCache // nil when --cache-dir is unset
	archive    *db.DB             // nil when --download-archive is unset
	stdout     io.Writer
	stderr     io.Writer
}

// NewRunner wires the components for cfg. Close releases the archive.
func NewRunner(cfg *models.DownloadConfig, logger *slog.Logger, stdout, stderr io.Writer) (*Runner, error) {
	f, err := fetcher.NewFetcher(fetcher.Options{
		Proxy:     cfg.Proxy,
		UserAgent: cfg.UserAgent,
		Timeout:   cfg.Timeout,
		RateLimit: cfg.LimitRate,
	})
	if err != nil {
		return nil, &common.ValidationError{Msg: err.Error()}
	}

	var progressOut io.Writer
	if !cfg.Quiet {
		progressOut = stderr
	}

	r := &Runner{
		cfg:     cfg,
		logger:  logger,
		fetcher: f,
		extractor: extractor.NewExtractor(extractor.Options{
			CDNBase:       cfg.CDNBase,
			Mirrors:       cfg.Mirrors,
			TitleFromPage: cfg.TitleFromPage,
		}),
		downloader: downloader.NewDownloader(f, logger, downloader.Options{
			NoOverwrites: cfg.NoOverwrites,
			Progress:     progressOut,
		}),
		storage: &storage.Storage{},
		stdout:  stdout,
		stderr:  stderr,
	}

	if cfg.CacheDir != "" {
		r.cache, err = caching.NewPageCache(cfg.CacheDir, cfg.CacheTTL)
		if err != nil {
			return nil, err
		}
	}

	if cfg.DownloadArchive != "" {
		r.archive, err = db.Open(cfg.DownloadArchive)
		if err != nil {
			return nil, err
		}
	}

	return r, nil
}

func (r *Runner) Close() error {
	if r.archive != nil {
		return r.archive.Close()
	}
	return nil
}

// Run processes every configured URL in order. Without IgnoreErrors the
// first failure stops the batch and is returned; with it, failures are
// reported and counted and Run returns nil.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	summary := &Summary{States: make([]URLState, len(r.cfg.URLs))}

	for i, pageURL := range r.cfg.URLs {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		summary.States[i] = StateProcessing
		if len(r.cfg.URLs) > 1 {
			r.logger.Info("processing", "url", pageURL, "index", i+1, "of", len(r.cfg.URLs))
		}

		err := r.ProcessURL(ctx, pageURL)
		if err == nil {
			summary.States[i] = StateDone
			summary.Done++
			continue
		}

		summary.States[i] = StateFailed
		summary.Failed++
		r.report(pageURL, err)

		if !r.cfg.IgnoreErrors {
			return summary, err
		}
	}

	if summary.Failed > 0 {
		r.logger.Warn("batch finished with failures", "done", summary.Done, "failed", summary.Failed)
	}
	return summary, nil
}

// ProcessURL extracts one flipbook and, depending on the mode, prints its
// metadata or downloads its PDF.
func (r *Runner) ProcessURL(ctx context.Context, pageURL string) error {
	html, err := r.loadPage(ctx, pageURL)
	if err != nil {
		return err
	}

	info, err := r.extractor.Extract(pageURL, string(html))
	if err != nil {
		return err
	}
	r.enrich(info, string(html))

	r.logger.Info("extracted flipbook",
		"url", pageURL,
		"title", info.TitleOr(""),
		"id", info.IDOr(""),
		"pages", pageCount(info),
		"pdf", info.PDFFilename,
	)

	if r.cfg.ExtractOnly() {
		return r.printExtracted(info)
	}

	if r.archive != nil {
		recorded, err := r.archive.HasDownload(info.ArchiveKey())
		if err != nil {
			return tracerr.Wrap(err)
		}
		if recorded {
			r.printf("[download] %s has already been recorded in the archive\n", info.TitleOr(info.PDFFilename))
			return nil
		}
	}

	dest := r.destination(info)

	if r.cfg.Simulate {
		r.printf("[simulate] Would download to: %s\n", dest)
		return nil
	}

	res, err := r.downloader.Download(ctx, info.PDFURLs, dest)
	if err != nil {
		return err
	}

	if res.AlreadyExists {
		r.printf("[download] %s has already been downloaded\n", res.Path)
	} else {
		r.printf("[download] Saved to %s\n", res.Path)
	}

	return r.record(info, res)
}

func (r *Runner) loadPage(ctx context.Context, pageURL string) ([]byte, error) {
	if r.cache != nil {
		if html, ok := r.cache.Get(pageURL); ok {
			r.logger.Debug("page cache hit", "url", pageURL)
			return html, nil
		}
	}

	r.logger.Info("fetching page", "url", pageURL)
	html, err := r.fetcher.GetHtmlBytes(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	if r.cache != nil {
		if err := r.cache.Put(pageURL, html); err != nil {
			r.logger.Warn("failed to cache page", "url", pageURL, "error", err)
		}
	}
	return html, nil
}

// enrich adds what readability finds on the page. Failures only cost the
// extra fields.
func (r *Runner) enrich(info *models.FlipbookInfo, html string) {
	meta, err := detector.Analyze(info.SourceURL, html, r.cfg.DetectLanguage)
	if err != nil {
		r.logger.Debug("page analysis failed", "url", info.SourceURL, "error", err)
		return
	}
	info.Description = meta.Description
	info.SiteName = meta.SiteName
	info.Language = meta.Language
}

// printExtracted writes the -j dump, or the candidate URLs for -g.
func (r *Runner) printExtracted(info *models.FlipbookInfo) error {
	if r.cfg.DumpJSON {
		return r.dump(info)
	}
	for _, u := range info.PDFURLs {
		fmt.Fprintln(r.stdout, u)
	}
	return nil
}

func pageCount(info *models.FlipbookInfo) string {
	if info.NumPages == nil {
		return "N/A"
	}
	return strconv.Itoa(*info.NumPages)
}

func (r *Runner) dump(info *models.FlipbookInfo) error {
	if r.cfg.DumpFormat == "yaml" {
		enc := yaml.NewEncoder(r.stdout)
		enc.SetIndent(2)
		if err := enc.Encode(info); err != nil {
			return tracerr.Wrap(fmt.Errorf("failed to encode metadata: %w", err))
		}
		return enc.Close()
	}

	enc := json.NewEncoder(r.stdout)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(info); err != nil {
		return tracerr.Wrap(fmt.Errorf("failed to encode metadata: %w", err))
	}
	return nil
}

func (r *Runner) destination(info *models.FlipbookInfo) string {
	if r.cfg.Output != "" {
		return r.cfg.Output
	}
	return formatter.Format(r.cfg.OutputTemplate, info, r.cfg.RestrictFilenames)
}

func (r *Runner) record(info *models.FlipbookInfo, res *downloader.Result) error {
	if r.archive == nil {
		return nil
	}

	size := res.Bytes
	if res.AlreadyExists {
		if stats, err := r.storage.GetFileStats(res.Path); err == nil {
			size = stats.SizeBytes
		}
	}

	err := r.archive.RecordDownload(db.Download{
		ArchiveKey: info.ArchiveKey(),
		SourceURL:  info.SourceURL,
		PDFURL:     res.URL,
		FilePath:   res.Path,
		Title:      info.TitleOr(""),
		SizeBytes:  size,
	})
	if err != nil {
		return tracerr.Wrap(err)
	}
	return nil
}

func (r *Runner) report(pageURL string, err error) {
	r.logger.Error("failed to process flipbook", "url", pageURL, "error", err)
	if r.cfg.Verbosity > 0 {
		fmt.Fprintln(r.stderr, tracerr.SprintSource(traceOf(err)))
	}
}

func (r *Runner) printf(format string, args ...any) {
	if r.cfg.Quiet {
		return
	}
	fmt.Fprintf(r.stdout, format, args...)
}

// traceOf finds the innermost tracerr layer so its frames can be printed.
func traceOf(err error) error {
	var traced tracerr.Error
	if errors.As(err, &traced) {
		return traced
	}
	return err
}
