package common

import (
	"errors"
	"testing"
)

func TestSanitizeURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "clean", in: "https://heyzine.com/flip-book/abc.html", want: "https://heyzine.com/flip-book/abc.html"},
		{name: "whitespace", in: "  https://heyzine.com/flip-book/abc.html\t", want: "https://heyzine.com/flip-book/abc.html"},
		{name: "trailing comma", in: "https://heyzine.com/flip-book/abc.html,", want: "https://heyzine.com/flip-book/abc.html"},
		{name: "angle brackets", in: "<https://heyzine.com/flip-book/abc.html>", want: "https://heyzine.com/flip-book/abc.html"},
		{name: "markdown link", in: "[my book](https://heyzine.com/flip-book/abc.html)", want: "https://heyzine.com/flip-book/abc.html"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeURL(tt.in); got != tt.want {
				t.Errorf("SanitizeURL(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestValidateFlipbookURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{name: "flip-book page", url: "https://heyzine.com/flip-book/abc.html"},
		{name: "subdomain", url: "https://acme.heyzine.com/catalogue"},
		{name: "http", url: "http://heyzine.com/flip-book/abc.html"},
		{name: "uppercase host", url: "https://HEYZINE.com/flip-book/abc.html"},
		{name: "other domain", url: "https://example.com/flip-book/abc.html", wantErr: true},
		{name: "lookalike domain", url: "https://notheyzine.com/x", wantErr: true},
		{name: "domain in path only", url: "https://evil.example/heyzine.com", wantErr: true},
		{name: "ftp scheme", url: "ftp://heyzine.com/x", wantErr: true},
		{name: "empty", url: "", wantErr: true},
		{name: "space", url: "https://heyzine.com/a b", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFlipbookURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateFlipbookURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
			if err != nil {
				var ve *ValidationError
				if !errors.As(err, &ve) {
					t.Errorf("expected *ValidationError, got %T", err)
				}
			}
		})
	}
}

func TestSanitizeAndValidateURLs(t *testing.T) {
	good, errs := SanitizeAndValidateURLs([]string{
		" https://heyzine.com/flip-book/a.html ",
		"https://example.com/b.html",
		"https://heyzine.com/flip-book/c.html;",
	})
	if len(good) != 2 {
		t.Errorf("got %d valid URLs, want 2: %v", len(good), good)
	}
	if len(errs) != 1 {
		t.Errorf("got %d errors, want 1", len(errs))
	}
	if good[1] != "https://heyzine.com/flip-book/c.html" {
		t.Errorf("second URL = %q", good[1])
	}
}
