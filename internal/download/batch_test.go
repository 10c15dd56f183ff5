package download

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestReadBatch(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "one per line",
			input: "https://heyzine.com/flip-book/a.html\nhttps://heyzine.com/flip-book/b.html\n",
			want:  []string{"https://heyzine.com/flip-book/a.html", "https://heyzine.com/flip-book/b.html"},
		},
		{
			name:  "comments and blank lines",
			input: "# list\n\n   \nhttps://heyzine.com/flip-book/a.html\n  # indented comment\n",
			want:  []string{"https://heyzine.com/flip-book/a.html"},
		},
		{
			name:  "cleanup",
			input: "  <https://heyzine.com/flip-book/a.html>  \r\n[b](https://heyzine.com/flip-book/b.html)",
			want:  []string{"https://heyzine.com/flip-book/a.html", "https://heyzine.com/flip-book/b.html"},
		},
		{
			name:  "empty",
			input: "",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadBatch(strings.NewReader(tt.input))
			if err != nil {
				t.Fatalf("ReadBatch() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ReadBatch() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestReadBatchFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "urls.txt")
	if err := os.WriteFile(path, []byte("https://heyzine.com/flip-book/a.html\n"), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := readBatchFile(path, strings.NewReader("https://heyzine.com/flip-book/stdin.html"))
	if err != nil {
		t.Fatalf("readBatchFile() error = %v", err)
	}
	if len(got) != 1 || got[0] != "https://heyzine.com/flip-book/a.html" {
		t.Errorf("file: got %v", got)
	}

	got, err = readBatchFile("-", strings.NewReader("https://heyzine.com/flip-book/stdin.html"))
	if err != nil {
		t.Fatalf("readBatchFile(-) error = %v", err)
	}
	if len(got) != 1 || got[0] != "https://heyzine.com/flip-book/stdin.html" {
		t.Errorf("stdin: got %v", got)
	}

	if _, err := readBatchFile(filepath.Join(t.TempDir(), "missing.txt"), nil); err == nil {
		t.Error("expected error for missing file")
	}
}
