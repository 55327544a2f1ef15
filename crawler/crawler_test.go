package crawler

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	pages map[string]string
	calls []string
}

func (f *fakeFetcher) Fetch(ctx context.Context, pageURL string) (string, error) {
	f.calls = append(f.calls, pageURL)
	page, ok := f.pages[pageURL]
	if !ok {
		return "", &FetchError{Kind: RequestError, URL: pageURL, Err: fmt.Errorf("HTTP 404: Not Found")}
	}
	return page, nil
}

func anchors(hrefs ...string) string {
	var b strings.Builder
	b.WriteString("<html><body>")
	for _, href := range hrefs {
		fmt.Fprintf(&b, `<a href="%s">link</a>`, href)
	}
	b.WriteString("</body></html>")
	return b.String()
}

func newTestCrawler(fetcher Fetcher) (*Crawler, *[]time.Duration) {
	logger, _ := test.NewNullLogger()
	c := NewCrawler(fetcher, logger)
	var sleeps []time.Duration
	c.sleep = func(d time.Duration) { sleeps = append(sleeps, d) }
	return c, &sleeps
}

func TestCrawlDiscoversInternalLinksInOrder(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]string{
		"https://example.com": anchors("/about", "https://example.com/contact?ref=1"),
	}}
	c, _ := newTestCrawler(fetcher)

	urls, err := c.Crawl(context.Background(), "https://example.com", 10)

	require.NoError(t, err)
	assert.Equal(t, []string{"https://example.com/about", "https://example.com/contact"}, urls)
}

func TestCrawlSinglePageWithoutLinks(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]string{
		"https://example.com/": "<html><body><p>Nothing to see</p></body></html>",
	}}
	c, _ := newTestCrawler(fetcher)

	urls, err := c.Crawl(context.Background(), "https://example.com/", 10)

	require.NoError(t, err)
	assert.Empty(t, urls)
}

func TestCrawlNeverReturnsSeed(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]string{
		"https://example.com": anchors("/", "https://example.com", "/?utm=x", "/pricing"),
	}}
	c, _ := newTestCrawler(fetcher)

	urls, err := c.Crawl(context.Background(), "https://example.com", 10)

	require.NoError(t, err)
	assert.Equal(t, []string{"https://example.com/pricing"}, urls)
}

func TestCrawlCollapsesQueryAndFragment(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]string{
		"https://example.com/": anchors("/docs?page=2", "/docs#intro", "https://example.com/docs"),
	}}
	c, _ := newTestCrawler(fetcher)

	urls, err := c.Crawl(context.Background(), "https://example.com/", 10)

	require.NoError(t, err)
	assert.Equal(t, []string{"https://example.com/docs"}, urls)
}

func TestCrawlSameHostOnly(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]string{
		"https://example.com/": anchors(
			"https://blog.example.com/post",
			"https://other.org/",
			"//example.com/protocol-relative",
			"relative/path",
			"mailto:hi@example.com",
			"#top",
			"http://example.com/plain-http",
			"/kept",
		),
	}}
	c, _ := newTestCrawler(fetcher)

	urls, err := c.Crawl(context.Background(), "https://example.com/", 10)

	require.NoError(t, err)
	assert.Equal(t, []string{"http://example.com/plain-http", "https://example.com/kept"}, urls)
}

func TestCrawlBreadthFirstAcrossPages(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]string{
		"https://example.com/":  anchors("/a", "/b"),
		"https://example.com/a": anchors("/a1", "/b"),
		"https://example.com/b": anchors("/b1", "/a"),
	}}
	c, sleeps := newTestCrawler(fetcher)

	urls, err := c.Crawl(context.Background(), "https://example.com/", 10)

	require.NoError(t, err)
	assert.Equal(t, []string{
		"https://example.com/a",
		"https://example.com/b",
		"https://example.com/a1",
		"https://example.com/b1",
	}, urls)
	// seed, /a and /b fetched; /a1 and /b1 fail with 404 and are skipped
	assert.Equal(t, []string{
		"https://example.com/",
		"https://example.com/a",
		"https://example.com/b",
		"https://example.com/a1",
		"https://example.com/b1",
	}, fetcher.calls)
	assert.Len(t, *sleeps, 3)
	for _, d := range *sleeps {
		assert.Equal(t, CrawlDelay, d)
	}
}

func TestCrawlStopsAtMaxPages(t *testing.T) {
	var hrefs []string
	for i := 0; i < 30; i++ {
		hrefs = append(hrefs, fmt.Sprintf("/p%d", i))
	}
	fetcher := &fakeFetcher{pages: map[string]string{
		"https://example.com/": anchors(hrefs...),
	}}
	c, _ := newTestCrawler(fetcher)

	urls, err := c.Crawl(context.Background(), "https://example.com/", 5)

	require.NoError(t, err)
	require.Len(t, urls, 5)
	assert.Equal(t, "https://example.com/p4", urls[4])
	assert.Len(t, fetcher.calls, 1)

	seen := map[string]bool{}
	for _, u := range urls {
		parsed, err := url.Parse(u)
		require.NoError(t, err)
		assert.Equal(t, "example.com", parsed.Host)
		assert.False(t, seen[u], "duplicate %s", u)
		seen[u] = true
	}
}

func TestCrawlSkipsUnreachableSeed(t *testing.T) {
	c, _ := newTestCrawler(&fakeFetcher{pages: map[string]string{}})

	urls, err := c.Crawl(context.Background(), "https://example.com/", 10)

	require.NoError(t, err)
	assert.Empty(t, urls)
}

func TestCrawlRejectsBadInput(t *testing.T) {
	c, _ := newTestCrawler(&fakeFetcher{})

	_, err := c.Crawl(context.Background(), "https://example.com/", 0)
	assert.ErrorIs(t, err, ErrInvalidMaxPages)

	_, err = c.Crawl(context.Background(), "not a url", 3)
	assert.Error(t, err)
}

func TestCrawlHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c, _ := newTestCrawler(&fakeFetcher{pages: map[string]string{"https://example.com/": anchors("/a")}})

	urls, err := c.Crawl(ctx, "https://example.com/", 10)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, urls)
}

func TestNormalizeLink(t *testing.T) {
	base, _ := url.Parse("https://example.com/start")
	tests := []struct {
		href string
		want string
		ok   bool
	}{
		{"/about", "https://example.com/about", true},
		{"/about?x=1#y", "https://example.com/about", true},
		{"https://example.com", "https://example.com/", true},
		{"https://example.com/a%20b", "https://example.com/a%20b", true},
		{"https://www.example.com/", "", false},
		{"//example.com/x", "", false},
		{"about", "", false},
		{"javascript:void(0)", "", false},
	}
	for _, tt := range tests {
		got, ok := NormalizeLink(base, tt.href)
		assert.Equal(t, tt.ok, ok, tt.href)
		assert.Equal(t, tt.want, got, tt.href)
	}
}
