package download

import (
	"fmt"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/flipbook-dl/internal/common"
	"github.com/dtnitsch/flipbook-dl/models"
	"github.com/dtnitsch/flipbook-dl/pkg/fetcher"
)

// LoadConfig builds the run configuration. Precedence is flag, then
// environment, then the --config file, then the flag default. Every error
// is a *common.ValidationError.
func LoadConfig(c *cli.Context) (*models.DownloadConfig, error) {
	fileCfg := &models.FileConfig{}
	if path := c.String("config"); path != "" {
		loaded, err := models.LoadFileConfig(path)
		if err != nil {
			return nil, &common.ValidationError{Msg: err.Error()}
		}
		fileCfg = loaded
	}

	cfg := &models.DownloadConfig{
		Simulate:   c.Bool("simulate"),
		GetURL:     c.Bool("get-url"),
		DumpJSON:   c.Bool("dump-json"),
		DumpFormat: strings.ToLower(c.String("dump-format")),

		Output:            c.String("output"),
		OutputTemplate:    stringOption(c, "output-template", fileCfg.OutputTemplate),
		RestrictFilenames: boolOption(c, "restrict-filenames", fileCfg.RestrictFilenames),
		NoOverwrites:      boolOption(c, "no-overwrites", fileCfg.NoOverwrites),
		IgnoreErrors:      boolOption(c, "ignore-errors", fileCfg.IgnoreErrors),

		Quiet:     c.Bool("quiet"),
		Verbosity: c.Count("verbose"),

		Proxy:     stringOption(c, "proxy", fileCfg.Proxy),
		UserAgent: stringOption(c, "user-agent", fileCfg.UserAgent),
		CDNBase:   stringOption(c, "cdn-base", fileCfg.CDNBase),
		Mirrors:   c.StringSlice("mirror"),

		TitleFromPage:  c.Bool("title-from-page"),
		DetectLanguage: c.Bool("detect-language"),

		DownloadArchive: stringOption(c, "download-archive", fileCfg.DownloadArchive),
		CacheDir:        stringOption(c, "cache-dir", fileCfg.CacheDir),
	}
	if !c.IsSet("mirror") && len(fileCfg.Mirrors) > 0 {
		cfg.Mirrors = fileCfg.Mirrors
	}

	switch cfg.DumpFormat {
	case "json", "yaml":
	default:
		return nil, &common.ValidationError{Msg: fmt.Sprintf("unsupported dump format %q (use json or yaml)", cfg.DumpFormat)}
	}

	var err error
	if cfg.Timeout, err = durationOption(c, "timeout", fileCfg.Timeout); err != nil {
		return nil, err
	}
	if cfg.CacheTTL, err = durationOption(c, "cache-ttl", fileCfg.CacheTTL); err != nil {
		return nil, err
	}

	if rate := stringOption(c, "limit-rate", fileCfg.LimitRate); rate != "" {
		cfg.LimitRate, err = fetcher.ParseRate(rate)
		if err != nil {
			return nil, &common.ValidationError{Msg: err.Error()}
		}
	}

	urls, err := collectURLs(c)
	if err != nil {
		return nil, err
	}
	cfg.URLs = urls

	return cfg, nil
}

// collectURLs gathers positional URLs and the batch file, and validates
// all of them before anything touches the network.
func collectURLs(c *cli.Context) ([]string, error) {
	batchFile := c.String("batch-file")
	if c.NArg() == 0 && batchFile == "" {
		return nil, &common.ValidationError{Msg: "you must provide either a URL or --batch-file"}
	}

	urls := c.Args().Slice()
	if batchFile != "" {
		batchURLs, err := readBatchFile(batchFile, c.App.Reader)
		if err != nil {
			return nil, &common.ValidationError{Msg: err.Error()}
		}
		urls = append(urls, batchURLs...)
	}

	valid, errs := common.SanitizeAndValidateURLs(urls)
	if len(errs) > 0 {
		return nil, errs[0]
	}
	if len(valid) == 0 {
		return nil, &common.ValidationError{Msg: "no URLs to process"}
	}
	return valid, nil
}

func stringOption(c *cli.Context, name, fromFile string) string {
	if !c.IsSet(name) && fromFile != "" {
		return fromFile
	}
	return c.String(name)
}

func boolOption(c *cli.Context, name string, fromFile *bool) bool {
	if !c.IsSet(name) && fromFile != nil {
		return *fromFile
	}
	return c.Bool(name)
}

func durationOption(c *cli.Context, name, fromFile string) (time.Duration, error) {
	if !c.IsSet(name) && fromFile != "" {
		d, err := time.ParseDuration(fromFile)
		if err != nil {
			return 0, &common.ValidationError{Msg: fmt.Sprintf("invalid %s %q in config file: %v", name, fromFile, err)}
		}
		return d, nil
	}
	return c.Duration(name), nil
}
