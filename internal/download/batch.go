package download

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dtnitsch/flipbook-dl/internal/common"
)

// ReadBatch reads one URL per line. Blank lines and lines starting with '#'
// are skipped; the rest are cleaned with common.SanitizeURL.
func ReadBatch(r io.Reader) ([]string, error) {
	var urls []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, common.SanitizeURL(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}
	return urls, nil
}

// readBatchFile reads path, or stdin when path is "-".
func readBatchFile(path string, stdin io.Reader) ([]string, error) {
	if path == "-" {
		return ReadBatch(stdin)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open batch file: %w", err)
	}
	defer f.Close()

	return ReadBatch(f)
}
