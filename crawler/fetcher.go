package crawler

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptrace"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

const (
	BackendHTTP  = "http"
	BackendColly = "colly"
)

// Fetcher retrieves the raw HTML of a page.
type Fetcher interface {
	Fetch(ctx context.Context, pageURL string) (string, error)
}

type Options struct {
	UserAgent   string
	Timeout     time.Duration
	HeadTimeout time.Duration
	Backend     string
}

func DefaultOptions() Options {
	return Options{
		UserAgent:   DefaultUserAgent,
		Timeout:     30 * time.Second,
		HeadTimeout: 10 * time.Second,
		Backend:     BackendHTTP,
	}
}

type PageFetcher struct {
	client     *http.Client
	headClient *http.Client
	userAgent  string
}

func NewPageFetcher(opts Options) *PageFetcher {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         (&net.Dialer{Timeout: dialTimeout(opts.Timeout)}).DialContext,
		MaxIdleConns:        20,
		MaxIdleConnsPerHost: 5,
		IdleConnTimeout:     30 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		ForceAttemptHTTP2:   true,
	}
	return &PageFetcher{
		client:     &http.Client{Timeout: opts.Timeout, Transport: transport},
		headClient: &http.Client{Timeout: opts.HeadTimeout, Transport: transport},
		userAgent:  opts.UserAgent,
	}
}

// dialTimeout bounds connection setup below the overall request timeout.
func dialTimeout(total time.Duration) time.Duration {
	if total <= 0 {
		return 10 * time.Second
	}
	return total / 2
}

// NewPlainFetcher picks the plain-mode backend named in opts.
func NewPlainFetcher(opts Options) Fetcher {
	if opts.Backend == BackendColly {
		return NewCollyFetcher(opts)
	}
	return NewPageFetcher(opts)
}

// NewFetcher returns the plain fetcher, or a rendering fetcher that falls
// back to it when render is set.
func NewFetcher(opts Options, render bool, renderer Renderer, logger logrus.FieldLogger) Fetcher {
	plain := NewPlainFetcher(opts)
	if !render || renderer == nil {
		return plain
	}
	return &RenderingFetcher{renderer: renderer, fallback: plain, logger: logger}
}

func (f *PageFetcher) Fetch(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", &FetchError{Kind: RequestError, URL: pageURL, Err: fmt.Errorf("request creation failed: %w", err)}
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := sendTraced(f.client, req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", statusError(pageURL, resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", classifyError(pageURL, err, true)
	}
	return string(body), nil
}

// sendTraced sends req and classifies transport failures, tracing whether a
// connection was ever obtained.
func sendTraced(client *http.Client, req *http.Request) (*http.Response, error) {
	var connected atomic.Bool
	trace := &httptrace.ClientTrace{
		GotConn: func(httptrace.GotConnInfo) { connected.Store(true) },
	}
	req = req.WithContext(httptrace.WithClientTrace(req.Context(), trace))

	resp, err := client.Do(req)
	if err != nil {
		return nil, classifyError(req.URL.String(), err, connected.Load())
	}
	return resp, nil
}

// RenderingFetcher tries the headless renderer first and falls back to the
// plain fetcher once when rendering fails or yields nothing.
type RenderingFetcher struct {
	renderer Renderer
	fallback Fetcher
	logger   logrus.FieldLogger
}

func (f *RenderingFetcher) Fetch(ctx context.Context, pageURL string) (string, error) {
	html, err := f.renderer.Render(ctx, pageURL)
	if err == nil && html != "" {
		return html, nil
	}
	if f.logger != nil {
		f.logger.WithFields(logrus.Fields{"url": pageURL, "error": err}).Warn("render failed, trying plain fetch")
	}
	return f.fallback.Fetch(ctx, pageURL)
}
