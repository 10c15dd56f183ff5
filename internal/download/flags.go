package download

import (
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/flipbook-dl/models"
)

const envPrefix = "FLIPBOOK_DL_"

// Flags are the options of the default (download) action.
func Flags() []cli.Flag {
	return []cli.Flag{
		// general
		&cli.StringFlag{Name: "config", Usage: "read option defaults from a YAML `FILE`", EnvVars: []string{envPrefix + "CONFIG"}, Category: "General"},
		&cli.BoolFlag{Name: "ignore-errors", Aliases: []string{"i"}, Usage: "continue with the next URL when one fails", Category: "General"},

		// download
		&cli.StringFlag{Name: "batch-file", Aliases: []string{"a"}, Usage: "read URLs from `FILE`, one per line (\"-\" for stdin)", Category: "Download"},
		&cli.StringFlag{Name: "proxy", Usage: "use the specified HTTP/HTTPS/SOCKS5 proxy `URL`", EnvVars: []string{envPrefix + "PROXY"}, Category: "Download"},
		&cli.BoolFlag{Name: "simulate", Aliases: []string{"s"}, Usage: "do not download the PDF, report where it would go", Category: "Download"},
		&cli.BoolFlag{Name: "get-url", Aliases: []string{"g"}, Usage: "print the candidate PDF URLs and exit", Category: "Download"},
		&cli.BoolFlag{Name: "dump-json", Aliases: []string{"j"}, Usage: "print the flipbook metadata and exit", Category: "Download"},
		&cli.StringFlag{Name: "dump-format", Value: "json", Usage: "metadata dump format: json or yaml", Category: "Download"},
		&cli.StringFlag{Name: "limit-rate", Aliases: []string{"r"}, Usage: "maximum download rate, e.g. 50K or 4.2M", EnvVars: []string{envPrefix + "LIMIT_RATE"}, Category: "Download"},
		&cli.StringFlag{Name: "cdn-base", Value: models.DefaultCDNBase, Usage: "CDN `URL` candidate PDF locations are built on", Category: "Download"},
		&cli.StringSliceFlag{Name: "mirror", Usage: "extra base `URL` to try after the CDN (repeatable)", Category: "Download"},
		&cli.StringFlag{Name: "user-agent", Usage: "HTTP User-Agent header", EnvVars: []string{envPrefix + "USER_AGENT"}, Category: "Download"},
		&cli.DurationFlag{Name: "timeout", Usage: "per-request timeout, 0 for none", Category: "Download"},
		&cli.StringFlag{Name: "download-archive", Usage: "record downloads in the SQLite `FILE` and skip those already in it", EnvVars: []string{envPrefix + "ARCHIVE"}, Category: "Download"},

		// filesystem
		&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "output `FILE` name", Category: "Filesystem"},
		&cli.StringFlag{Name: "output-template", Value: models.DefaultOutputTemplate, Usage: "output file name `TEMPLATE`: {title} {id} {uploader} {ext} {pdf_filename}", Category: "Filesystem"},
		&cli.BoolFlag{Name: "restrict-filenames", Usage: "restrict file names to ASCII characters", Category: "Filesystem"},
		&cli.BoolFlag{Name: "no-overwrites", Aliases: []string{"w"}, Usage: "do not overwrite existing files", Category: "Filesystem"},
		&cli.StringFlag{Name: "cache-dir", Usage: "cache fetched pages in `DIR`", EnvVars: []string{envPrefix + "CACHE_DIR"}, Category: "Filesystem"},
		&cli.DurationFlag{Name: "cache-ttl", Value: models.DefaultCacheTTL, Usage: "how long cached pages stay fresh", Category: "Filesystem"},
		&cli.BoolFlag{Name: "rm-cache-dir", Usage: "delete the page cache before running", Category: "Filesystem"},

		// metadata
		&cli.BoolFlag{Name: "title-from-page", Usage: "use the page title when the flipbook has none", Category: "Metadata"},
		&cli.BoolFlag{Name: "detect-language", Usage: "detect the flipbook language from its title and description", Category: "Metadata"},

		// verbosity
		&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Usage: "activate quiet mode", Category: "Verbosity"},
		&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "print debugging information (repeat for more)", Category: "Verbosity"},
	}
}

// ReorderArgs moves options in front of positional URLs, so that
// "flipbook-dl URL -s" parses like "flipbook-dl -s URL". args excludes the
// program name. Everything after "--" stays positional.
func ReorderArgs(args []string) []string {
	takesValue := map[string]bool{}
	for _, f := range Flags() {
		_, isBool := f.(*cli.BoolFlag)
		for _, name := range f.Names() {
			takesValue[name] = !isBool
		}
	}

	flags := make([]string, 0, len(args))
	var positional []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			positional = append(positional, args[i:]...)
			break
		}
		if arg == "-" || !strings.HasPrefix(arg, "-") {
			positional = append(positional, arg)
			continue
		}

		flags = append(flags, arg)
		if strings.Contains(arg, "=") {
			continue
		}
		name := strings.TrimLeft(arg, "-")
		needsValue, known := takesValue[name]
		if !known && !strings.HasPrefix(arg, "--") && len(name) > 1 {
			// combined short options such as -sr 50K: the last one may take a value
			needsValue = takesValue[name[len(name)-1:]]
		}
		if needsValue && i+1 < len(args) {
			i++
			flags = append(flags, args[i])
		}
	}
	return append(flags, positional...)
}
