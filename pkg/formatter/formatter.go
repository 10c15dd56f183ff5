package formatter

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/dtnitsch/flipbook-dl/models"
)

const (
	fallbackTitle    = "flipbook"
	fallbackID       = "unknown"
	fallbackPDFStem  = "download"
	fallbackUploader = models.Uploader
)

var (
	unsafeChars = regexp.MustCompile(`[^\w\s.-]`)
	whitespace  = regexp.MustCompile(`\s+`)
)

// Format renders an output file name from template and info.
//
// Recognized tokens are {title}, {id}, {uploader}, {ext} and {pdf_filename},
// each also accepted in the %(name)s form. Anything else is copied verbatim.
// An empty template means models.DefaultOutputTemplate.
func Format(template string, info *models.FlipbookInfo, restrict bool) string {
	if template == "" {
		template = models.DefaultOutputTemplate
	}

	uploader := info.Uploader
	if uploader == "" {
		uploader = fallbackUploader
	}
	pdfStem := info.PDFStem()
	if pdfStem == "" {
		pdfStem = fallbackPDFStem
	}

	values := []struct{ name, value, fallback string }{
		{"title", info.TitleOr(fallbackTitle), fallbackTitle},
		{"id", info.IDOr(fallbackID), fallbackID},
		{"uploader", uploader, fallbackUploader},
		{"ext", models.PDFExt, models.PDFExt},
		{"pdf_filename", pdfStem, fallbackPDFStem},
	}

	pairs := make([]string, 0, len(values)*4)
	for _, v := range values {
		value := pathSafe(v.value, v.fallback)
		pairs = append(pairs, "{"+v.name+"}", value, "%("+v.name+")s", value)
	}
	// Replacer substitutes in a single pass, so values containing token
	// text are never expanded again.
	filename := strings.NewReplacer(pairs...).Replace(template)

	if restrict {
		filename = Restrict(filename)
	}
	return filename
}

// Restrict limits a file name to ASCII word characters, dots and hyphens.
// Accents are dropped first so "Café" becomes "Cafe"; every other
// character becomes an underscore, and whitespace runs collapse to one.
func Restrict(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if stripped, _, err := transform.String(t, name); err == nil {
		name = stripped
	}
	name = unsafeChars.ReplaceAllString(name, "_")
	return whitespace.ReplaceAllString(name, "_")
}

// pathSafe keeps a value from adding path components. Values made only of
// dots would name the current or parent directory, so they get the fallback.
func pathSafe(value, fallback string) string {
	value = strings.NewReplacer("/", "_", `\`, "_").Replace(value)
	if strings.Trim(value, ".") == "" {
		return fallback
	}
	return value
}
