package fetcher

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/time/rate"
)

type rateLimitedBody struct {
	ctx     context.Context
	body    io.ReadCloser
	limiter *rate.Limiter
}

func newRateLimitedBody(ctx context.Context, body io.ReadCloser, bytesPerSecond int64) io.ReadCloser {
	return &rateLimitedBody{
		ctx:     ctx,
		body:    body,
		limiter: rate.NewLimiter(rate.Limit(bytesPerSecond), int(bytesPerSecond)),
	}
}

func (r *rateLimitedBody) Read(p []byte) (int, error) {
	// WaitN rejects n above the burst size
	if burst := r.limiter.Burst(); len(p) > burst {
		p = p[:burst]
	}
	n, err := r.body.Read(p)
	if n > 0 {
		if waitErr := r.limiter.WaitN(r.ctx, n); waitErr != nil {
			return n, waitErr
		}
	}
	return n, err
}

func (r *rateLimitedBody) Close() error {
	return r.body.Close()
}

// ParseRate parses a download rate such as "50K", "4.2M" or "1G"
// (binary multiples, optional trailing "B" or "/s") into bytes per second.
func ParseRate(s string) (int64, error) {
	orig := s
	s = strings.TrimSpace(strings.ToUpper(s))
	s = strings.TrimSuffix(s, "/S")
	s = strings.TrimSuffix(s, "B")
	s = strings.TrimSuffix(s, "I")

	var multiplier float64 = 1
	if s != "" {
		switch s[len(s)-1] {
		case 'K':
			multiplier = 1 << 10
		case 'M':
			multiplier = 1 << 20
		case 'G':
			multiplier = 1 << 30
		}
		if multiplier != 1 {
			s = s[:len(s)-1]
		}
	}

	value, err := strconv.ParseFloat(s, 64)
	if err != nil || value <= 0 {
		return 0, fmt.Errorf("invalid rate %q", orig)
	}

	bytesPerSecond := int64(value * multiplier)
	if bytesPerSecond < 1 {
		return 0, fmt.Errorf("invalid rate %q", orig)
	}
	return bytesPerSecond, nil
}
