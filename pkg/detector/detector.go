package detector

import (
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/go-shiori/go-readability"
	"github.com/pemistahl/lingua-go"
)

// PageMeta is what the readable part of a flipbook page says about the
// document, beyond the flipbook configuration.
type PageMeta struct {
	Title       string
	Description string
	SiteName    string
	Language    string // ISO 639-1, lower case
}

// Languages the detector distinguishes between. Flipbooks are mostly
// brochures and catalogues in these.
var detectable = []lingua.Language{
	lingua.English,
	lingua.Spanish,
	lingua.French,
	lingua.German,
	lingua.Italian,
	lingua.Portuguese,
	lingua.Dutch,
	lingua.Polish,
	lingua.Turkish,
	lingua.Russian,
}

var (
	detectorOnce sync.Once
	langDetector lingua.LanguageDetector
)

func languageDetector() lingua.LanguageDetector {
	detectorOnce.Do(func() {
		langDetector = lingua.NewLanguageDetectorBuilder().
			FromLanguages(detectable...).
			WithLowAccuracyMode().
			Build()
	})
	return langDetector
}

// Analyze runs readability over the page HTML. Language detection only runs
// when detectLanguage is set, on the title and description.
func Analyze(rawURL, html string, detectLanguage bool) (*PageMeta, error) {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid page URL: %w", err)
	}

	parser := readability.NewParser()
	article, err := parser.Parse(strings.NewReader(html), parsedURL)
	if err != nil {
		return nil, fmt.Errorf("readability failed: %w", err)
	}

	meta := &PageMeta{
		Title:       strings.TrimSpace(article.Title),
		Description: strings.TrimSpace(article.Excerpt),
		SiteName:    strings.TrimSpace(article.SiteName),
	}

	if detectLanguage {
		meta.Language = DetectLanguage(meta.Title + ". " + meta.Description)
	}
	return meta, nil
}

// DetectLanguage returns the ISO 639-1 code of text, or "" when it cannot
// tell.
func DetectLanguage(text string) string {
	text = strings.TrimSpace(strings.Trim(text, ". "))
	if text == "" {
		return ""
	}
	lang, ok := languageDetector().DetectLanguageOf(text)
	if !ok {
		return ""
	}
	return strings.ToLower(lang.IsoCode639_1().String())
}
