package crawler

import (
	"context"
	"errors"
	"net/http"
	"time"
)

// SiteStatus is the outcome of a pre-flight HEAD check.
type SiteStatus struct {
	Reachable    bool    `json:"reachable"`
	StatusCode   int     `json:"status_code,omitempty"`
	FinalURL     string  `json:"final_url,omitempty"`
	Server       string  `json:"server,omitempty"`
	ResponseTime float64 `json:"response_time,omitempty"`
	Error        string  `json:"error,omitempty"`
}

// CheckStatus issues a HEAD request following redirects. Any HTTP answer,
// including 4xx and 5xx, counts as reachable.
func (f *PageFetcher) CheckStatus(ctx context.Context, pageURL string) SiteStatus {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, pageURL, nil)
	if err != nil {
		return SiteStatus{Error: (&FetchError{Kind: RequestError, URL: pageURL, Err: err}).Hint()}
	}
	req.Header.Set("User-Agent", f.userAgent)

	start := time.Now()
	resp, err := sendTraced(f.headClient, req)
	if err != nil {
		var fetchErr *FetchError
		if errors.As(err, &fetchErr) {
			return SiteStatus{Error: fetchErr.Hint()}
		}
		return SiteStatus{Error: err.Error()}
	}
	defer resp.Body.Close()
	elapsed := time.Since(start)

	server := resp.Header.Get("Server")
	if server == "" {
		server = "Unknown"
	}

	return SiteStatus{
		Reachable:    true,
		StatusCode:   resp.StatusCode,
		FinalURL:     resp.Request.URL.String(),
		Server:       server,
		ResponseTime: elapsed.Seconds(),
	}
}
