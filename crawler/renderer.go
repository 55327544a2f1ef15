package crawler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

// Renderer returns the DOM serialization of a page after its scripts ran.
type Renderer interface {
	Render(ctx context.Context, pageURL string) (string, error)
}

type RenderOptions struct {
	LoadTimeout time.Duration
	SettleDelay time.Duration
	BrowserBin  string
}

func DefaultRenderOptions() RenderOptions {
	return RenderOptions{
		LoadTimeout: 60 * time.Second,
		SettleDelay: 3 * time.Second,
	}
}

// RodRenderer drives a headless Chromium through rod. The browser is started
// on the first Render call; a failed start is reported by every later call.
// Call Close when done.
type RodRenderer struct {
	opts RenderOptions

	mu        sync.Mutex
	browser   *rod.Browser
	launchErr error
}

func NewRodRenderer(opts RenderOptions) *RodRenderer {
	return &RodRenderer{opts: opts}
}

func (r *RodRenderer) ensureBrowser() (*rod.Browser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.browser != nil || r.launchErr != nil {
		return r.browser, r.launchErr
	}

	l := launcher.New().
		Headless(true).
		Set("disable-gpu").
		Set("no-sandbox").
		Set("disable-dev-shm-usage")
	if r.opts.BrowserBin != "" {
		l = l.Bin(r.opts.BrowserBin)
	}

	u, err := l.Launch()
	if err != nil {
		r.launchErr = fmt.Errorf("launch headless browser: %w", err)
		return nil, r.launchErr
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		r.launchErr = fmt.Errorf("connect to headless browser: %w", err)
		return nil, r.launchErr
	}
	r.browser = browser
	return browser, nil
}

// Render waits for DOMContentLoaded within LoadTimeout, lets deferred
// scripts run for SettleDelay and returns the resulting HTML.
func (r *RodRenderer) Render(ctx context.Context, pageURL string) (string, error) {
	browser, err := r.ensureBrowser()
	if err != nil {
		return "", err
	}

	page, err := stealth.Page(browser)
	if err != nil {
		return "", fmt.Errorf("create tab: %w", err)
	}
	defer page.Close()

	loadCtx, cancel := context.WithTimeout(ctx, r.opts.LoadTimeout)
	defer cancel()
	loading := page.Context(loadCtx)

	waitDOM := loading.WaitNavigation(proto.PageLifecycleEventNameDOMContentLoaded)
	if err := loading.Navigate(pageURL); err != nil {
		return "", fmt.Errorf("navigate to %s: %w", pageURL, err)
	}
	waitDOM()
	if loadCtx.Err() != nil {
		return "", fmt.Errorf("load %s: %w", pageURL, loadCtx.Err())
	}

	select {
	case <-time.After(r.opts.SettleDelay):
	case <-ctx.Done():
		return "", ctx.Err()
	}

	html, err := page.Context(ctx).HTML()
	if err != nil {
		return "", fmt.Errorf("get HTML from %s: %w", pageURL, err)
	}
	return html, nil
}

func (r *RodRenderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.browser == nil {
		return nil
	}
	err := r.browser.Close()
	r.browser = nil
	return err
}
