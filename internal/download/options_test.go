package download

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/flipbook-dl/internal/common"
	"github.com/dtnitsch/flipbook-dl/models"
)

const bookURL = "https://heyzine.com/flip-book/abc123.html"

// loadConfig runs LoadConfig inside a cli.App carrying the download flags.
func loadConfig(t *testing.T, stdin string, args ...string) (*models.DownloadConfig, error) {
	t.Helper()

	var cfg *models.DownloadConfig
	var loadErr error
	app := &cli.App{
		Name:                   "flipbook-dl",
		UseShortOptionHandling: true,
		Reader:                 strings.NewReader(stdin),
		Writer:                 io.Discard,
		ErrWriter:              io.Discard,
		ExitErrHandler:         func(*cli.Context, error) {},
		Flags:                  Flags(),
		Action: func(c *cli.Context) error {
			cfg, loadErr = LoadConfig(c)
			return nil
		},
	}
	if err := app.Run(append([]string{"flipbook-dl"}, args...)); err != nil {
		t.Fatalf("app.Run() error = %v", err)
	}
	return cfg, loadErr
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig(t, "", bookURL)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if !reflect.DeepEqual(cfg.URLs, []string{bookURL}) {
		t.Errorf("URLs = %v", cfg.URLs)
	}
	if cfg.OutputTemplate != models.DefaultOutputTemplate {
		t.Errorf("OutputTemplate = %q", cfg.OutputTemplate)
	}
	if cfg.CDNBase != models.DefaultCDNBase {
		t.Errorf("CDNBase = %q", cfg.CDNBase)
	}
	if cfg.CacheTTL != models.DefaultCacheTTL {
		t.Errorf("CacheTTL = %v", cfg.CacheTTL)
	}
	if cfg.DumpFormat != "json" {
		t.Errorf("DumpFormat = %q", cfg.DumpFormat)
	}
	if cfg.RestrictFilenames || cfg.NoOverwrites || cfg.IgnoreErrors || cfg.Simulate || cfg.Quiet {
		t.Errorf("unexpected boolean defaults: %+v", cfg)
	}
	if cfg.LimitRate != 0 || cfg.Timeout != 0 {
		t.Errorf("LimitRate = %d, Timeout = %v", cfg.LimitRate, cfg.Timeout)
	}
}

func TestLoadConfigFlags(t *testing.T) {
	cfg, err := loadConfig(t, "",
		"-sgjvv", "-w", "-i",
		"-r", "50K",
		"-o", "out.pdf",
		"--restrict-filenames",
		"--mirror", "https://a.example", "--mirror", "https://b.example",
		"--timeout", "30s",
		bookURL,
	)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if !cfg.Simulate || !cfg.GetURL || !cfg.DumpJSON {
		t.Errorf("short options not combined: %+v", cfg)
	}
	if cfg.Verbosity != 2 {
		t.Errorf("Verbosity = %d, want 2", cfg.Verbosity)
	}
	if !cfg.NoOverwrites || !cfg.IgnoreErrors || !cfg.RestrictFilenames {
		t.Errorf("booleans not set: %+v", cfg)
	}
	if cfg.LimitRate != 50*1024 {
		t.Errorf("LimitRate = %d", cfg.LimitRate)
	}
	if cfg.Output != "out.pdf" {
		t.Errorf("Output = %q", cfg.Output)
	}
	if !reflect.DeepEqual(cfg.Mirrors, []string{"https://a.example", "https://b.example"}) {
		t.Errorf("Mirrors = %v", cfg.Mirrors)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v", cfg.Timeout)
	}
}

func TestLoadConfigPrecedence(t *testing.T) {
	path := writeConfigFile(t, `
proxy: socks5://127.0.0.1:9050
output_template: "{id}.{ext}"
no_overwrites: true
limit_rate: 1M
cdn_base: https://cdn.example.com
mirrors:
  - https://mirror.example.com
cache_ttl: 1h
timeout: 10s
`)

	t.Run("file over defaults", func(t *testing.T) {
		cfg, err := loadConfig(t, "", "--config", path, bookURL)
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Proxy != "socks5://127.0.0.1:9050" {
			t.Errorf("Proxy = %q", cfg.Proxy)
		}
		if cfg.OutputTemplate != "{id}.{ext}" {
			t.Errorf("OutputTemplate = %q", cfg.OutputTemplate)
		}
		if !cfg.NoOverwrites {
			t.Error("NoOverwrites not read from file")
		}
		if cfg.LimitRate != 1024*1024 {
			t.Errorf("LimitRate = %d", cfg.LimitRate)
		}
		if cfg.CDNBase != "https://cdn.example.com" {
			t.Errorf("CDNBase = %q", cfg.CDNBase)
		}
		if !reflect.DeepEqual(cfg.Mirrors, []string{"https://mirror.example.com"}) {
			t.Errorf("Mirrors = %v", cfg.Mirrors)
		}
		if cfg.CacheTTL != time.Hour || cfg.Timeout != 10*time.Second {
			t.Errorf("CacheTTL = %v, Timeout = %v", cfg.CacheTTL, cfg.Timeout)
		}
	})

	t.Run("environment over file", func(t *testing.T) {
		t.Setenv("FLIPBOOK_DL_PROXY", "http://proxy.example:8080")
		cfg, err := loadConfig(t, "", "--config", path, bookURL)
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Proxy != "http://proxy.example:8080" {
			t.Errorf("Proxy = %q", cfg.Proxy)
		}
	})

	t.Run("flag over environment and file", func(t *testing.T) {
		t.Setenv("FLIPBOOK_DL_PROXY", "http://proxy.example:8080")
		cfg, err := loadConfig(t, "",
			"--config", path,
			"--proxy", "https://flag.example:443",
			"--output-template", "{title}.{ext}",
			"--cdn-base", "https://cdn2.example.com",
			bookURL,
		)
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Proxy != "https://flag.example:443" {
			t.Errorf("Proxy = %q", cfg.Proxy)
		}
		if cfg.OutputTemplate != "{title}.{ext}" {
			t.Errorf("OutputTemplate = %q", cfg.OutputTemplate)
		}
		if cfg.CDNBase != "https://cdn2.example.com" {
			t.Errorf("CDNBase = %q", cfg.CDNBase)
		}
	})
}

func TestLoadConfigBatch(t *testing.T) {
	batch := "# flipbooks\n\nhttps://heyzine.com/flip-book/one.html\n  https://heyzine.com/flip-book/two.html,\n"

	t.Run("stdin", func(t *testing.T) {
		cfg, err := loadConfig(t, batch, "-a", "-")
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		want := []string{"https://heyzine.com/flip-book/one.html", "https://heyzine.com/flip-book/two.html"}
		if !reflect.DeepEqual(cfg.URLs, want) {
			t.Errorf("URLs = %v, want %v", cfg.URLs, want)
		}
	})

	t.Run("file plus positional", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "urls.txt")
		if err := os.WriteFile(path, []byte(batch), 0644); err != nil {
			t.Fatal(err)
		}
		cfg, err := loadConfig(t, "", "--batch-file", path, bookURL)
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if len(cfg.URLs) != 3 || cfg.URLs[0] != bookURL {
			t.Errorf("URLs = %v", cfg.URLs)
		}
	})
}

func TestLoadConfigValidation(t *testing.T) {
	tests := []struct {
		name  string
		stdin string
		args  []string
	}{
		{name: "no url", args: nil},
		{name: "wrong domain", args: []string{"https://example.com/flip-book/abc.html"}},
		{name: "malformed url", args: []string{"heyzine.com/flip-book/abc.html"}},
		{name: "one bad url in batch", stdin: bookURL + "\nhttps://example.org/x\n", args: []string{"-a", "-"}},
		{name: "missing batch file", args: []string{"-a", "/does/not/exist.txt"}},
		{name: "bad dump format", args: []string{"--dump-format", "xml", bookURL}},
		{name: "bad rate", args: []string{"-r", "fast", bookURL}},
		{name: "missing config", args: []string{"--config", "/does/not/exist.yaml", bookURL}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadConfig(t, tt.stdin, tt.args...)
			if err == nil {
				t.Fatal("LoadConfig() error = nil, want validation error")
			}
			var ve *common.ValidationError
			if !errors.As(err, &ve) {
				t.Errorf("error = %T %v, want *common.ValidationError", err, err)
			}
		})
	}
}

func TestLoadConfigBadDurationInFile(t *testing.T) {
	path := writeConfigFile(t, "cache_ttl: soon\n")
	_, err := loadConfig(t, "", "--config", path, bookURL)
	var ve *common.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("error = %v, want *common.ValidationError", err)
	}
}
