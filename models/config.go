// Package models defines data structures for configuration and extraction results.
package models

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultOutputTemplate = "{title}-{id}.{ext}"
	DefaultCDNBase        = "https://cdnc.heyzine.com"
	DefaultCacheTTL       = 24 * time.Hour
)

// FileConfig holds defaults read from a YAML config file.
// Every field is optional; command-line flags take precedence.
type FileConfig struct {
	Proxy             string   `yaml:"proxy"`
	OutputTemplate    string   `yaml:"output_template"`
	RestrictFilenames *bool    `yaml:"restrict_filenames"`
	NoOverwrites      *bool    `yaml:"no_overwrites"`
	IgnoreErrors      *bool    `yaml:"ignore_errors"`
	LimitRate         string   `yaml:"limit_rate"`
	CDNBase           string   `yaml:"cdn_base"`
	Mirrors           []string `yaml:"mirrors"`
	DownloadArchive   string   `yaml:"download_archive"`
	CacheDir          string   `yaml:"cache_dir"`
	CacheTTL          string   `yaml:"cache_ttl"`
	UserAgent         string   `yaml:"user_agent"`
	Timeout           string   `yaml:"timeout"`
}

// LoadFileConfig reads a YAML config file.
func LoadFileConfig(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg FileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return &cfg, nil
}

// DownloadConfig holds runtime configuration for one invocation.
// Values come from CLI flags, the environment and the optional config file.
type DownloadConfig struct {
	URLs []string

	Simulate   bool
	GetURL     bool
	DumpJSON   bool
	DumpFormat string

	Output            string
	OutputTemplate    string
	RestrictFilenames bool
	NoOverwrites      bool
	IgnoreErrors      bool

	Quiet     bool
	Verbosity int

	Proxy     string
	UserAgent string
	Timeout   time.Duration
	LimitRate int64 // bytes per second, 0 = unlimited

	CDNBase string
	Mirrors []string

	TitleFromPage  bool
	DetectLanguage bool

	DownloadArchive string
	CacheDir        string
	CacheTTL        time.Duration
}

// ExtractOnly reports whether the run stops after metadata extraction.
func (c *DownloadConfig) ExtractOnly() bool {
	return c.DumpJSON || c.GetURL
}
