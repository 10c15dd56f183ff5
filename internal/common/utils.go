package common

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// SiteDomain is the only host (with subdomains) flipbook URLs may point at.
const SiteDomain = "heyzine.com"

// ValidationError is a bad command-line input, reported before any network
// activity.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

var markdownLinkPattern = regexp.MustCompile(`^\[.*?\]\((https?://[^\)]+)\)$`)

// SanitizeURL performs basic cleanup on URLs to handle common copy-paste issues.
// Removes whitespace, trailing punctuation, markdown artifacts.
func SanitizeURL(rawURL string) string {
	cleaned := strings.TrimSpace(rawURL)

	// [text](url) -> url
	if matches := markdownLinkPattern.FindStringSubmatch(cleaned); len(matches) > 1 {
		cleaned = matches[1]
	}

	trailingChars := []string{",", ")", "}", "]", "\"", "'", ">", ";"}
	for _, char := range trailingChars {
		cleaned = strings.TrimSuffix(cleaned, char)
	}

	leadingChars := []string{"(", "[", "<", "\"", "'"}
	for _, char := range leadingChars {
		cleaned = strings.TrimPrefix(cleaned, char)
	}

	return strings.TrimSpace(cleaned)
}

// ValidateFlipbookURL checks that rawURL is an http(s) URL on SiteDomain.
func ValidateFlipbookURL(rawURL string) error {
	if rawURL == "" {
		return &ValidationError{Msg: "empty URL"}
	}
	if strings.Contains(rawURL, " ") {
		return &ValidationError{Msg: fmt.Sprintf("malformed URL %q: spaces must be encoded as %%20", rawURL)}
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return &ValidationError{Msg: fmt.Sprintf("malformed URL %q: %v", rawURL, err)}
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return &ValidationError{Msg: fmt.Sprintf("malformed URL %q: scheme must be http or https", rawURL)}
	}

	host := strings.ToLower(parsed.Hostname())
	if host != SiteDomain && !strings.HasSuffix(host, "."+SiteDomain) {
		return &ValidationError{Msg: fmt.Sprintf("URL must be from %s: %s", SiteDomain, rawURL)}
	}
	return nil
}

// SanitizeAndValidateURLs sanitizes all URLs and returns (sanitized URLs, validation errors).
func SanitizeAndValidateURLs(urls []string) ([]string, []error) {
	sanitized := make([]string, 0, len(urls))
	var errs []error

	for _, rawURL := range urls {
		cleaned := SanitizeURL(rawURL)
		if err := ValidateFlipbookURL(cleaned); err != nil {
			errs = append(errs, err)
			continue
		}
		sanitized = append(sanitized, cleaned)
	}

	return sanitized, errs
}
