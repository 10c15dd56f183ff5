package models

import (
	"path/filepath"
	"strings"
)

const (
	Uploader      = "heyzine"
	ExtractorName = "heyzine:flipbook"
	PDFExt        = "pdf"
)

// FlipbookInfo is the metadata record extracted from a single flipbook page.
// Field order is the key order of JSON and YAML dumps.
type FlipbookInfo struct {
	SourceURL   string   `json:"source_url" yaml:"source_url"`
	PDFFilename string   `json:"pdf_filename" yaml:"pdf_filename"`
	Title       *string  `json:"title" yaml:"title"`
	ID          *string  `json:"id" yaml:"id"`
	NumPages    *int     `json:"num_pages" yaml:"num_pages"`
	Uploader    string   `json:"uploader" yaml:"uploader"`
	PDFURLs     []string `json:"pdf_urls" yaml:"pdf_urls"`
	Extractor   string   `json:"extractor" yaml:"extractor"`

	// Page enrichment, only set when the page carries it
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	SiteName    string `json:"site_name,omitempty" yaml:"site_name,omitempty"`
	Language    string `json:"language,omitempty" yaml:"language,omitempty"`
}

// TitleOr returns the title, or fallback when none was extracted.
func (fi *FlipbookInfo) TitleOr(fallback string) string {
	if fi.Title == nil || *fi.Title == "" {
		return fallback
	}
	return *fi.Title
}

// IDOr returns the flipbook id, or fallback when none was extracted.
func (fi *FlipbookInfo) IDOr(fallback string) string {
	if fi.ID == nil || *fi.ID == "" {
		return fallback
	}
	return *fi.ID
}

// PDFStem is the source file name without its extension.
func (fi *FlipbookInfo) PDFStem() string {
	return Stem(fi.PDFFilename)
}

// ArchiveKey identifies the flipbook in the download archive: its id when
// known, otherwise the source file name.
func (fi *FlipbookInfo) ArchiveKey() string {
	if id := fi.IDOr(""); id != "" {
		return "id:" + id
	}
	return "file:" + fi.PDFFilename
}

// Stem strips the directory and the last extension from a file name.
func Stem(name string) string {
	base := filepath.Base(name)
	if base == "." || base == "/" {
		return ""
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}
