package progress

import (
	"bytes"
	"strings"
	"testing"
)

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		input    int64
		expected string
	}{
		{0, "0 B"},
		{100, "100 B"},
		{1024, "1.00 KiB"},
		{1536, "1.50 KiB"},
		{1024 * 1024, "1.00 MiB"},
		{5 * 1024 * 1024 * 1024, "5.00 GiB"},
	}

	for _, tt := range tests {
		result := FormatBytes(tt.input)
		if result != tt.expected {
			t.Errorf("FormatBytes(%d) = %q, want %q", tt.input, result, tt.expected)
		}
	}
}

func TestNewBarUnknownSize(t *testing.T) {
	if bar := NewBar(0, &bytes.Buffer{}); bar != nil {
		t.Error("expected nil bar for unknown size")
	}
	if bar := NewBar(-1, &bytes.Buffer{}); bar != nil {
		t.Error("expected nil bar for negative size")
	}

	// nil bars are safe to use
	var bar *Bar
	bar.Add(10)
	bar.Finish()
}

func TestBarWrongDeclaredSize(t *testing.T) {
	var out bytes.Buffer
	bar := NewBar(100, &out)
	if bar == nil {
		t.Fatal("expected a bar")
	}

	bar.Add(60)
	bar.Add(80) // more than declared
	bar.Finish()

	if !strings.HasSuffix(out.String(), "\n") {
		t.Errorf("expected output to end with a newline, got %q", out.String())
	}
	if !strings.Contains(out.String(), "[download]") {
		t.Errorf("expected description in output, got %q", out.String())
	}
}
