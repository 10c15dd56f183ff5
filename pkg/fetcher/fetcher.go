package fetcher

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/ztrue/tracerr"
	"golang.org/x/net/proxy"
)

const DefaultUserAgent = "flipbook-dl (+https://github.com/dtnitsch/flipbook-dl)"

// TransportError reports a network failure or an unexpected status
// while talking to a remote host.
type TransportError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("request to %s failed: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("request to %s failed with status %d", e.URL, e.StatusCode)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

type Options struct {
	// Proxy is an http, https, socks5 or socks5h URL. Empty means direct.
	Proxy     string
	UserAgent string
	Timeout   time.Duration
	// RateLimit caps body reads in bytes per second. Zero disables it.
	RateLimit int64
}

type Fetcher struct {
	client    *http.Client
	userAgent string
	rateLimit int64
}

func NewFetcher(opts Options) (*Fetcher, error) {
	transport := &http.Transport{
		Proxy:             http.ProxyFromEnvironment,
		DisableKeepAlives: true,
	}

	if opts.Proxy != "" {
		proxyURL, err := url.Parse(opts.Proxy)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy URL %q: %w", opts.Proxy, err)
		}
		switch proxyURL.Scheme {
		case "http", "https":
			transport.Proxy = http.ProxyURL(proxyURL)
		case "socks5", "socks5h":
			dialer, err := proxy.FromURL(proxyURL, proxy.Direct)
			if err != nil {
				return nil, fmt.Errorf("failed to set up SOCKS5 proxy (%s): %w", proxyURL.Host, err)
			}
			transport.Proxy = nil
			transport.DialContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
				if cd, ok := dialer.(proxy.ContextDialer); ok {
					return cd.DialContext(ctx, network, addr)
				}
				return dialer.Dial(network, addr)
			}
		default:
			return nil, fmt.Errorf("unsupported proxy scheme %q", proxyURL.Scheme)
		}
	}

	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	return &Fetcher{
		client: &http.Client{
			Transport: transport,
			Timeout:   opts.Timeout,
		},
		userAgent: userAgent,
		rateLimit: opts.RateLimit,
	}, nil
}

func (f *Fetcher) newRequest(ctx context.Context, rawURL string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", f.userAgent)
	return req, nil
}

// GetHtmlBytes fetches a page body. Any failure, including a non-200
// status, is returned as a *TransportError.
func (f *Fetcher) GetHtmlBytes(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := f.newRequest(ctx, rawURL)
	if err != nil {
		return nil, tracerr.Wrap(&TransportError{URL: rawURL, Err: err})
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, tracerr.Wrap(&TransportError{URL: rawURL, Err: err})
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, tracerr.Wrap(&TransportError{URL: rawURL, StatusCode: resp.StatusCode})
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, tracerr.Wrap(&TransportError{URL: rawURL, Err: fmt.Errorf("failed to read response body: %w", err)})
	}
	return bodyBytes, nil
}

// Open issues a streamed GET. Non-2xx responses are closed and reported as
// a *TransportError. The caller must close the returned body.
func (f *Fetcher) Open(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := f.newRequest(ctx, rawURL)
	if err != nil {
		return nil, &TransportError{URL: rawURL, Err: err}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &TransportError{URL: rawURL, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, &TransportError{URL: rawURL, StatusCode: resp.StatusCode}
	}

	if f.rateLimit > 0 {
		resp.Body = newRateLimitedBody(ctx, resp.Body, f.rateLimit)
	}
	return resp, nil
}
