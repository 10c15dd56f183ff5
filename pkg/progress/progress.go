// Package progress renders a single-line byte progress indicator for downloads.
//
// The indicator is cosmetic: a nil *Bar is valid and does nothing, and a
// wrong declared size never affects how many bytes are written.
package progress

import (
	"fmt"
	"io"
	"time"

	"github.com/schollz/progressbar/v3"
)

type Bar struct {
	bar *progressbar.ProgressBar
	out io.Writer
}

// NewBar returns a bar for a transfer of total bytes, or nil when total is
// unknown.
func NewBar(total int64, out io.Writer) *Bar {
	if total <= 0 || out == nil {
		return nil
	}

	bar := progressbar.NewOptions64(total,
		progressbar.OptionSetWriter(out),
		progressbar.OptionSetDescription("[download]"),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetWidth(30),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionSetRenderBlankState(true),
	)
	return &Bar{bar: bar, out: out}
}

// Add records n more bytes.
func (b *Bar) Add(n int) {
	if b == nil || n <= 0 {
		return
	}
	// exceeding the declared size is reported as an error; it is not one for us
	_ = b.bar.Add(n)
}

// Finish renders the final state and ends the line.
func (b *Bar) Finish() {
	if b == nil {
		return
	}
	_ = b.bar.Finish()
	fmt.Fprintln(b.out)
}

// FormatBytes formats bytes as a human-readable string.
func FormatBytes(b int64) string {
	const (
		KiB = 1024
		MiB = KiB * 1024
		GiB = MiB * 1024
	)

	switch {
	case b >= GiB:
		return fmt.Sprintf("%.2f GiB", float64(b)/float64(GiB))
	case b >= MiB:
		return fmt.Sprintf("%.2f MiB", float64(b)/float64(MiB))
	case b >= KiB:
		return fmt.Sprintf("%.2f KiB", float64(b)/float64(KiB))
	default:
		return fmt.Sprintf("%d B", b)
	}
}
