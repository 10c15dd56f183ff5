// Package extractor pulls flipbook metadata out of a Heyzine page.
//
// The page exposes no API. The PDF file name only appears inside an inline
// script that assigns a JSON-like literal to flipbookcfg, so extraction is an
// anchored text search over script bodies rather than a script parser. It is
// best-effort and breaks when the site changes its page layout; keep that
// knowledge in this package.
package extractor

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ztrue/tracerr"

	"github.com/dtnitsch/flipbook-dl/models"
)

const (
	ReasonConfigNotFound   = "configuration not found"
	ReasonFilenameNotFound = "filename not found"
)

var (
	configPattern   = regexp.MustCompile(`var\s+flipbookcfg\s*=\s*(\{[\s\S]+?\});\s*(?:/\*|var)`)
	filenamePattern = regexp.MustCompile(`"name"\s*:\s*"([^"]+\.pdf)"`)

	idPattern         = regexp.MustCompile(`"id"\s*:\s*"([^"]+)"`)
	numPagesPattern   = regexp.MustCompile(`"num_pages"\s*:\s*(\d+)`)
	titlePattern      = regexp.MustCompile(`"title"\s*:\s*"([^"]*)"`)
	customNamePattern = regexp.MustCompile(`"custom_name"\s*:\s*"([^"]+)"`)
)

// CDN path conventions, in order of preference.
var cdnPaths = []string{
	"/flip-book/pdf/",
	"/files/uploaded/",
}

// ExtractionError means the page did not carry the data needed to build a
// FlipbookInfo.
type ExtractionError struct {
	Reason string
}

func (e *ExtractionError) Error() string {
	return "extraction failed: " + e.Reason
}

type Options struct {
	// CDNBase is the scheme and host candidates are built on.
	CDNBase string
	// Mirrors are extra base URLs tried after the CDN paths; the file name
	// is appended to each.
	Mirrors []string
	// TitleFromPage falls back to the page's og:title or <title> when the
	// configuration has neither a title nor a custom name.
	TitleFromPage bool
}

type Extractor struct {
	opts Options
}

func NewExtractor(opts Options) *Extractor {
	if opts.CDNBase == "" {
		opts.CDNBase = models.DefaultCDNBase
	}
	opts.CDNBase = strings.TrimRight(opts.CDNBase, "/")
	return &Extractor{opts: opts}
}

// Extract builds a FlipbookInfo from the HTML of pageURL.
func (e *Extractor) Extract(pageURL, html string) (*models.FlipbookInfo, error) {
	doc, docErr := goquery.NewDocumentFromReader(strings.NewReader(html))

	cfg, ok := "", false
	if docErr == nil {
		cfg, ok = findConfigInScripts(doc)
	}
	if !ok {
		cfg, ok = findConfig(html)
	}
	if !ok {
		return nil, tracerr.Wrap(&ExtractionError{Reason: ReasonConfigNotFound})
	}

	m := filenamePattern.FindStringSubmatch(cfg)
	if m == nil {
		return nil, tracerr.Wrap(&ExtractionError{Reason: ReasonFilenameNotFound})
	}
	pdfFilename := m[1]

	info := &models.FlipbookInfo{
		SourceURL:   pageURL,
		PDFFilename: pdfFilename,
		Uploader:    models.Uploader,
		Extractor:   models.ExtractorName,
	}

	if v, ok := submatch(idPattern, cfg); ok {
		info.ID = &v
	}
	if v, ok := submatch(numPagesPattern, cfg); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, tracerr.Wrap(&ExtractionError{Reason: fmt.Sprintf("invalid page count %q", v)})
		}
		info.NumPages = &n
	}
	if v, ok := submatch(titlePattern, cfg); ok && v != "" {
		title := unescape(v)
		info.Title = &title
	}

	if info.Title == nil {
		if v, ok := submatch(customNamePattern, cfg); ok {
			if title := models.Stem(unescape(v)); title != "" {
				info.Title = &title
			}
		}
	}

	if info.Title == nil && e.opts.TitleFromPage && docErr == nil {
		if title := pageTitle(doc); title != "" {
			info.Title = &title
		}
	}

	info.PDFURLs = e.CandidateURLs(pdfFilename)
	return info, nil
}

// CandidateURLs lists download locations for a file name, preferred first.
func (e *Extractor) CandidateURLs(pdfFilename string) []string {
	urls := make([]string, 0, len(cdnPaths)+len(e.opts.Mirrors))
	for _, p := range cdnPaths {
		urls = append(urls, e.opts.CDNBase+p+pdfFilename)
	}
	for _, mirror := range e.opts.Mirrors {
		mirror = strings.TrimRight(strings.TrimSpace(mirror), "/")
		if mirror == "" {
			continue
		}
		urls = append(urls, mirror+"/"+pdfFilename)
	}
	return urls
}

func findConfigInScripts(doc *goquery.Document) (string, bool) {
	var cfg string
	doc.Find("script").EachWithBreak(func(i int, s *goquery.Selection) bool {
		text := s.Text()
		if !strings.Contains(text, "flipbookcfg") {
			return true
		}
		if c, ok := findConfig(text); ok {
			cfg = c
			return false
		}
		return true
	})
	return cfg, cfg != ""
}

func findConfig(text string) (string, bool) {
	m := configPattern.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[1], true
}

func submatch(re *regexp.Regexp, s string) (string, bool) {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// unescape decodes JSON string escapes (é, \/) in a captured value,
// returning it unchanged when it is not a valid JSON string body.
func unescape(v string) string {
	if !strings.Contains(v, `\`) {
		return v
	}
	var out string
	if err := json.Unmarshal([]byte(`"`+v+`"`), &out); err != nil {
		return v
	}
	return out
}

func pageTitle(doc *goquery.Document) string {
	if content, ok := doc.Find(`meta[property="og:title"]`).First().Attr("content"); ok {
		if t := strings.TrimSpace(content); t != "" {
			return t
		}
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}
