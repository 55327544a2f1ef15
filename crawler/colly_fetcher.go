package crawler

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gocolly/colly/v2"
)

// CollyFetcher is the colly-backed plain fetcher. It never retries.
type CollyFetcher struct {
	opts Options
}

func NewCollyFetcher(opts Options) *CollyFetcher {
	return &CollyFetcher{opts: opts}
}

func (cf *CollyFetcher) Fetch(ctx context.Context, pageURL string) (string, error) {
	// A fresh collector per request keeps callbacks from leaking between calls.
	c := colly.NewCollector(
		colly.UserAgent(cf.opts.UserAgent),
		colly.AllowURLRevisit(),
		colly.ParseHTTPErrorResponse(),
	)
	c.Context = ctx
	c.SetRequestTimeout(cf.opts.Timeout)
	c.WithTransport(&http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         (&net.Dialer{Timeout: dialTimeout(cf.opts.Timeout)}).DialContext,
		TLSHandshakeTimeout: 10 * time.Second,
	})

	var body string
	var fetchErr error

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	})

	c.OnResponse(func(r *colly.Response) {
		if r.StatusCode < 200 || r.StatusCode >= 300 {
			fetchErr = statusError(pageURL, r.StatusCode, http.StatusText(r.StatusCode))
			return
		}
		body = string(r.Body)
	})

	c.OnError(func(r *colly.Response, err error) {
		if r != nil && r.StatusCode != 0 {
			fetchErr = statusError(pageURL, r.StatusCode, err.Error())
			return
		}
		fetchErr = classifyError(pageURL, err, true)
	})

	if err := c.Visit(pageURL); err != nil && fetchErr == nil {
		fetchErr = classifyError(pageURL, fmt.Errorf("colly visit failed: %w", err), true)
	}

	if fetchErr != nil {
		return "", fetchErr
	}
	return body, nil
}
