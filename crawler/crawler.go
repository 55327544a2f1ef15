package crawler

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"

	"cro-ux-auditor/extract"
)

// CrawlDelay is the pause after each successfully fetched crawl page.
const CrawlDelay = 500 * time.Millisecond

var ErrInvalidMaxPages = errors.New("max pages must be at least 1")

// Crawler discovers same-host pages breadth-first from a seed URL.
type Crawler struct {
	fetcher Fetcher
	logger  logrus.FieldLogger
	sleep   func(time.Duration)
}

func NewCrawler(fetcher Fetcher, logger logrus.FieldLogger) *Crawler {
	return &Crawler{
		fetcher: fetcher,
		logger:  logger,
		sleep:   time.Sleep,
	}
}

// WithSleep replaces the pause taken between crawl fetches.
func (c *Crawler) WithSleep(sleep func(time.Duration)) *Crawler {
	c.sleep = sleep
	return c
}

// crawlState is owned by a single Crawl call.
type crawlState struct {
	visited    map[string]bool
	frontier   []string
	queued     map[string]bool
	discovered []string
}

func newCrawlState(seed string) *crawlState {
	return &crawlState{
		visited:  map[string]bool{},
		frontier: []string{seed},
		queued:   map[string]bool{seed: true},
	}
}

func (s *crawlState) pop() string {
	next := s.frontier[0]
	s.frontier = s.frontier[1:]
	delete(s.queued, next)
	return next
}

func (s *crawlState) enqueue(link string) {
	s.frontier = append(s.frontier, link)
	s.queued[link] = true
	s.discovered = append(s.discovered, link)
}

// Crawl returns up to maxPages canonical URLs reachable from baseURL on the
// same host, in discovery order. The seed itself is never part of the result.
// A page that fails to fetch is skipped. Cancelling ctx stops the crawl and
// returns what was discovered so far together with ctx.Err().
func (c *Crawler) Crawl(ctx context.Context, baseURL string, maxPages int) ([]string, error) {
	if maxPages < 1 {
		return nil, ErrInvalidMaxPages
	}
	base, err := url.Parse(baseURL)
	if err != nil || base.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q", baseURL)
	}

	log := c.logger.WithField("base_url", baseURL)
	log.Info("starting website crawl")

	seed := Canonical(base)
	state := newCrawlState(baseURL)

	for len(state.frontier) > 0 && len(state.discovered) < maxPages {
		if err := ctx.Err(); err != nil {
			return state.discovered, err
		}

		current := state.pop()
		if state.visited[current] {
			continue
		}
		state.visited[current] = true
		log.WithField("url", current).Debug("crawling")

		pageHTML, err := c.fetcher.Fetch(ctx, current)
		if err != nil {
			log.WithFields(logrus.Fields{"url": current, "error": err}).Warn("crawl fetch failed")
			continue
		}

		doc, err := extract.Parse(pageHTML)
		if err != nil {
			continue
		}
		for _, href := range extract.AllHrefs(doc) {
			link, ok := NormalizeLink(base, href)
			if !ok || link == seed || state.visited[link] || state.queued[link] {
				continue
			}
			if len(state.discovered) >= maxPages {
				break
			}
			state.enqueue(link)
			log.WithField("url", link).Debug("found new page")
		}

		c.sleep(CrawlDelay)
	}

	if len(state.discovered) > maxPages {
		state.discovered = state.discovered[:maxPages]
	}
	log.WithField("pages", len(state.discovered)).Info("crawl completed")
	return state.discovered, nil
}
