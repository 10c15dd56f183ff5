package caching

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// PageCache keeps fetched flipbook page HTML on disk for a TTL, so repeated
// -g/-j/-s runs over the same URLs do not hit the site again.
type PageCache struct {
	dir string
	ttl time.Duration
}

// NewPageCache creates the cache directory if it doesn't exist.
func NewPageCache(dir string, ttl time.Duration) (*PageCache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &PageCache{dir: dir, ttl: ttl}, nil
}

// Remove deletes a cache directory and everything in it.
func Remove(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to remove cache directory: %w", err)
	}
	return nil
}

func (c *PageCache) path(pageURL string) string {
	hash := sha256.Sum256([]byte(pageURL))
	return filepath.Join(c.dir, fmt.Sprintf("%x.html", hash))
}

// Get returns the cached page and true on a fresh hit.
func (c *PageCache) Get(pageURL string) ([]byte, bool) {
	p := c.path(pageURL)

	info, err := os.Stat(p)
	if err != nil {
		return nil, false
	}
	if c.ttl > 0 && time.Since(info.ModTime()) > c.ttl {
		return nil, false
	}

	data, err := os.ReadFile(p)
	if err != nil {
		return nil, false
	}
	return data, true
}

// Put stores a page.
func (c *PageCache) Put(pageURL string, html []byte) error {
	if err := os.WriteFile(c.path(pageURL), html, 0644); err != nil {
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	return nil
}
