package analyzer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"cro-ux-auditor/ai"
	"cro-ux-auditor/crawler"
	"cro-ux-auditor/extract"
)

// PageDelay is the default pause after each analyzed page.
const PageDelay = time.Second

var (
	ErrFetchFailed  = errors.New("failed to fetch page content")
	ErrNoPagesFound = errors.New("no pages found to analyze")
)

type Config struct {
	// Plain fetches pages without rendering. Required.
	Plain crawler.Fetcher
	// Rendered is used when a caller asks for rendering. It should fall
	// back to plain fetching on its own; when nil, Plain is used instead.
	Rendered crawler.Fetcher
	// Provider answers audit prompts. Required.
	Provider  ai.Provider
	Logger    logrus.FieldLogger
	PageDelay time.Duration
	// Sleep is used for page and crawl delays; defaults to time.Sleep.
	Sleep func(time.Duration)
}

// Analyzer runs the fetch, extract, prompt and model steps for one page at
// a time. Pages are never processed concurrently.
type Analyzer struct {
	plain     crawler.Fetcher
	rendered  crawler.Fetcher
	provider  ai.Provider
	logger    logrus.FieldLogger
	pageDelay time.Duration
	sleep     func(time.Duration)
	now       func() time.Time
	progress  Progress
}

func New(cfg Config) (*Analyzer, error) {
	if cfg.Plain == nil {
		return nil, errors.New("analyzer: plain fetcher is required")
	}
	if cfg.Provider == nil {
		return nil, errors.New("analyzer: model provider is required")
	}
	a := &Analyzer{
		plain:     cfg.Plain,
		rendered:  cfg.Rendered,
		provider:  cfg.Provider,
		logger:    cfg.Logger,
		pageDelay: cfg.PageDelay,
		sleep:     cfg.Sleep,
		now:       time.Now,
	}
	if a.logger == nil {
		a.logger = logrus.StandardLogger()
	}
	if a.sleep == nil {
		a.sleep = time.Sleep
	}
	return a, nil
}

// WithProgress returns a copy of the analyzer that reports to p.
func (a *Analyzer) WithProgress(p Progress) *Analyzer {
	clone := *a
	clone.progress = p
	return &clone
}

func (a *Analyzer) emit(e Event) {
	if a.progress != nil {
		a.progress(e)
	}
}

func (a *Analyzer) fetcherFor(useRender bool) crawler.Fetcher {
	if useRender && a.rendered != nil {
		return a.rendered
	}
	return a.plain
}

// AnalyzePage audits a single page. A fetch failure is returned as an error
// wrapping ErrFetchFailed. A model failure does not fail the call; its
// message becomes the audit text.
func (a *Analyzer) AnalyzePage(ctx context.Context, pageURL string, useRender bool, audit ai.AuditType) (*AnalysisResult, error) {
	audit, err := ai.ParseAuditType(string(audit))
	if err != nil {
		return nil, err
	}

	log := a.logger.WithFields(logrus.Fields{"url": pageURL, "audit_type": audit, "render": useRender})
	log.Info("starting structured analysis")

	pageHTML, err := a.fetcherFor(useRender).Fetch(ctx, pageURL)
	if err != nil {
		pagesFailed.Inc()
		log.WithError(err).Warn("fetch failed")
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}

	features := extract.Extract(pageHTML, pageURL)
	prompt, err := ai.BuildPrompt(features, pageURL, audit)
	if err != nil {
		return nil, err
	}

	auditText := a.ask(ctx, prompt, log)
	pagesAnalyzed.WithLabelValues(string(audit)).Inc()

	return &AnalysisResult{
		URL:       pageURL,
		Timestamp: a.now(),
		Features:  features,
		AuditText: auditText,
		AuditType: audit,
	}, nil
}

func (a *Analyzer) ask(ctx context.Context, prompt string, log logrus.FieldLogger) string {
	start := time.Now()
	reply, err := a.provider.Complete(ctx, prompt)
	elapsed := time.Since(start)
	modelDuration.Observe(elapsed.Seconds())

	if err != nil {
		modelErrors.Inc()
		log.WithError(err).Error("model call failed")
		return fmt.Sprintf("Error analyzing content: %v", err)
	}
	log.WithField("duration", elapsed).Debug("model call completed")
	return reply
}

// AnalyzePages audits each URL in order. A failing page is recorded in its
// outcome and does not stop the run. The page delay follows every
// successful page. Cancellation stops the run before the next page.
func (a *Analyzer) AnalyzePages(ctx context.Context, urls []string, useRender bool, audit ai.AuditType) []PageOutcome {
	outcomes := make([]PageOutcome, 0, len(urls))
	for i, pageURL := range urls {
		if ctx.Err() != nil {
			break
		}

		outcome := PageOutcome{URL: pageURL}
		result, err := a.AnalyzePage(ctx, pageURL, useRender, audit)
		if err != nil {
			outcome.Error = err.Error()
		} else {
			outcome.Result = result
		}
		outcomes = append(outcomes, outcome)
		a.emit(Event{Kind: EventPage, Index: i + 1, Total: len(urls), Outcome: &outcome})

		if err == nil && a.pageDelay > 0 {
			a.sleep(a.pageDelay)
		}
	}
	return outcomes
}

// AnalyzeWebsite crawls baseURL for up to maxPages pages and audits every
// discovered page. The seed page itself is not analyzed.
func (a *Analyzer) AnalyzeWebsite(ctx context.Context, baseURL string, maxPages int, useRender bool, audit ai.AuditType) (*WebsiteAnalysis, error) {
	audit, err := ai.ParseAuditType(string(audit))
	if err != nil {
		return nil, err
	}

	log := a.logger.WithFields(logrus.Fields{"base_url": baseURL, "audit_type": audit})
	log.Info("starting full website analysis")

	c := crawler.NewCrawler(a.fetcherFor(useRender), a.logger).WithSleep(a.sleep)
	urls, err := c.Crawl(ctx, baseURL, maxPages)
	if err != nil {
		return nil, err
	}
	pagesDiscovered.Observe(float64(len(urls)))
	if len(urls) == 0 {
		return nil, ErrNoPagesFound
	}
	a.emit(Event{Kind: EventURLs, Total: len(urls), URLs: urls})

	outcomes := a.AnalyzePages(ctx, urls, useRender, audit)
	summary := newWebsiteAnalysis(baseURL, audit, urls, outcomes, a.now())
	a.emit(Event{Kind: EventComplete, Total: len(urls), Summary: summary})

	log.WithFields(logrus.Fields{
		"pages_found":    summary.TotalPagesFound,
		"pages_analyzed": summary.PagesAnalyzed,
		"pages_errored":  summary.PagesWithErrors,
	}).Info("website analysis completed")

	if err := ctx.Err(); err != nil {
		return summary, err
	}
	return summary, nil
}
