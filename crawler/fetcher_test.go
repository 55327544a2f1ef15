package crawler

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOptions() Options {
	opts := DefaultOptions()
	opts.Timeout = 2 * time.Second
	opts.HeadTimeout = 2 * time.Second
	return opts
}

func TestPageFetcherFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, DefaultUserAgent, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html><title>ok</title></html>"))
	}))
	defer server.Close()

	body, err := NewPageFetcher(testOptions()).Fetch(context.Background(), server.URL)

	require.NoError(t, err)
	assert.Equal(t, "<html><title>ok</title></html>", body)
}

func TestPageFetcherNon2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	_, err := NewPageFetcher(testOptions()).Fetch(context.Background(), server.URL)

	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, RequestError, fetchErr.Kind)
	assert.Equal(t, http.StatusNotFound, fetchErr.StatusCode)
	assert.Contains(t, fetchErr.Error(), "HTTP 404")
}

func TestPageFetcherReadTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	opts := testOptions()
	opts.Timeout = 100 * time.Millisecond
	_, err := NewPageFetcher(opts).Fetch(context.Background(), server.URL)

	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, ReadTimeout, fetchErr.Kind)
	assert.Equal(t, "Read timeout - site is responding slowly", fetchErr.Hint())
}

func TestPageFetcherConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	addr := server.URL
	server.Close()

	_, err := NewPageFetcher(testOptions()).Fetch(context.Background(), addr)

	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, RequestError, fetchErr.Kind)
	assert.True(t, strings.HasPrefix(fetchErr.Hint(), "Request failed: "))
}

// stallDial makes every new connection hang until the request gives up.
func stallDial(f *PageFetcher) {
	transport := f.client.Transport.(*http.Transport)
	transport.DialContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}
}

func TestPageFetcherConnectTimeout(t *testing.T) {
	opts := testOptions()
	opts.Timeout = 100 * time.Millisecond
	fetcher := NewPageFetcher(opts)
	stallDial(fetcher)

	_, err := fetcher.Fetch(context.Background(), "http://example.test/")

	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, ConnectTimeout, fetchErr.Kind)
	assert.Equal(t, "Connection timeout - site may be down", fetchErr.Hint())
}

func TestCheckStatusConnectTimeout(t *testing.T) {
	opts := testOptions()
	opts.HeadTimeout = 100 * time.Millisecond
	fetcher := NewPageFetcher(opts)
	stallDial(fetcher)

	status := fetcher.CheckStatus(context.Background(), "http://example.test/")

	assert.False(t, status.Reachable)
	assert.Equal(t, "Connection timeout - site may be down", status.Error)
}

func TestClassifyError(t *testing.T) {
	timeout := &net.OpError{Op: "read", Net: "tcp", Err: os.ErrDeadlineExceeded}
	dialTimeout := &net.OpError{Op: "dial", Net: "tcp", Err: os.ErrDeadlineExceeded}

	assert.Equal(t, ConnectTimeout, classifyError("u", dialTimeout, false).Kind)
	assert.Equal(t, ConnectTimeout, classifyError("u", timeout, false).Kind)
	assert.Equal(t, ReadTimeout, classifyError("u", timeout, true).Kind)
	assert.Equal(t, ReadTimeout, classifyError("u", context.DeadlineExceeded, true).Kind)
	assert.Equal(t, RequestError, classifyError("u", errors.New("refused"), false).Kind)
}

func TestCollyFetcher(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html><h1>colly</h1></html>"))
	}))
	defer server.Close()

	fetcher := NewCollyFetcher(testOptions())

	body, err := fetcher.Fetch(context.Background(), server.URL+"/")
	require.NoError(t, err)
	assert.Contains(t, body, "<h1>colly</h1>")

	_, err = fetcher.Fetch(context.Background(), server.URL+"/missing")
	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, http.StatusNotFound, fetchErr.StatusCode)
}

func TestBackendsAgreeOnNon200Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusNonAuthoritativeInfo)
		w.Write([]byte("<html><h1>mirror</h1></html>"))
	}))
	defer server.Close()

	for _, fetcher := range []Fetcher{NewPageFetcher(testOptions()), NewCollyFetcher(testOptions())} {
		body, err := fetcher.Fetch(context.Background(), server.URL+"/")
		require.NoError(t, err)
		assert.Contains(t, body, "<h1>mirror</h1>")
	}
}

func TestNewPlainFetcherBackend(t *testing.T) {
	opts := testOptions()
	assert.IsType(t, &PageFetcher{}, NewPlainFetcher(opts))

	opts.Backend = "colly"
	assert.IsType(t, &CollyFetcher{}, NewPlainFetcher(opts))
}

type stubRenderer struct {
	html  string
	err   error
	calls int
}

func (r *stubRenderer) Render(ctx context.Context, pageURL string) (string, error) {
	r.calls++
	return r.html, r.err
}

func TestRenderingFetcherFallsBackOnce(t *testing.T) {
	plainHits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		plainHits++
		w.Write([]byte("<html>plain</html>"))
	}))
	defer server.Close()

	logger, hook := test.NewNullLogger()
	renderer := &stubRenderer{err: errors.New("chromium missing")}
	fetcher := NewFetcher(testOptions(), true, renderer, logger)

	body, err := fetcher.Fetch(context.Background(), server.URL)

	require.NoError(t, err)
	assert.Equal(t, "<html>plain</html>", body)
	assert.Equal(t, 1, renderer.calls)
	assert.Equal(t, 1, plainHits)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "render failed, trying plain fetch", hook.LastEntry().Message)
}

func TestRenderingFetcherUsesRenderedHTML(t *testing.T) {
	renderer := &stubRenderer{html: "<html>rendered</html>"}
	fetcher := NewFetcher(testOptions(), true, renderer, nil)

	body, err := fetcher.Fetch(context.Background(), "http://unused.invalid/")

	require.NoError(t, err)
	assert.Equal(t, "<html>rendered</html>", body)
}

func TestCheckStatus(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/old", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/new", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/new", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodHead, r.Method)
		w.Header().Set("Server", "nginx")
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/bare", func(w http.ResponseWriter, r *http.Request) {
		w.Header()["Server"] = nil
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	fetcher := NewPageFetcher(testOptions())

	status := fetcher.CheckStatus(context.Background(), server.URL+"/old")
	assert.True(t, status.Reachable)
	assert.Equal(t, http.StatusOK, status.StatusCode)
	assert.Equal(t, server.URL+"/new", status.FinalURL)
	assert.Equal(t, "nginx", status.Server)
	assert.GreaterOrEqual(t, status.ResponseTime, 0.0)

	status = fetcher.CheckStatus(context.Background(), server.URL+"/bare")
	assert.True(t, status.Reachable)
	assert.Equal(t, http.StatusServiceUnavailable, status.StatusCode)
	assert.Equal(t, "Unknown", status.Server)
}

func TestCheckStatusUnreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	addr := server.URL
	server.Close()

	status := NewPageFetcher(testOptions()).CheckStatus(context.Background(), addr)

	assert.False(t, status.Reachable)
	assert.True(t, strings.HasPrefix(status.Error, "Request failed: "))
}
