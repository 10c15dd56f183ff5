package download

import (
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/flipbook-dl/internal/common"
	"github.com/dtnitsch/flipbook-dl/pkg/caching"
)

const (
	ExitFailure    = 1
	ExitValidation = 2
)

// DownloadAction is the default command: extract and download every URL
// given on the command line or in the batch file.
func DownloadAction(c *cli.Context) error {
	cfg, err := LoadConfig(c)
	if err != nil {
		return exitFor(err)
	}

	logger := NewLogger(c.App.ErrWriter, cfg.Quiet, cfg.Verbosity)

	if c.Bool("rm-cache-dir") {
		if cfg.CacheDir == "" {
			logger.Warn("--rm-cache-dir given without --cache-dir, nothing to remove")
		} else if err := caching.Remove(cfg.CacheDir); err != nil {
			logger.Error("failed to remove cache directory", "dir", cfg.CacheDir, "error", err)
			return cli.Exit("", ExitFailure)
		} else {
			logger.Info("removed cache directory", "dir", cfg.CacheDir)
		}
	}

	runner, err := NewRunner(cfg, logger, c.App.Writer, c.App.ErrWriter)
	if err != nil {
		return exitFor(err)
	}
	defer runner.Close()

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	summary, err := runner.Run(ctx)
	if err != nil {
		if ctx.Err() != nil {
			logger.Error("interrupted", "done", summary.Done, "remaining", len(cfg.URLs)-summary.Done-summary.Failed)
		}
		return cli.Exit("", ExitFailure)
	}
	if summary.Failed > 0 {
		return cli.Exit("", ExitFailure)
	}

	logger.Debug("all done", "urls", len(cfg.URLs))
	return nil
}

// exitFor maps an error to the process exit code: validation problems exit
// 2, everything else 1.
func exitFor(err error) error {
	var ve *common.ValidationError
	if errors.As(err, &ve) {
		return cli.Exit(ve.Msg, ExitValidation)
	}
	return cli.Exit(err.Error(), ExitFailure)
}
