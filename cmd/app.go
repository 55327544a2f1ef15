package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"cro-ux-auditor/ai"
	"cro-ux-auditor/analyzer"
	"cro-ux-auditor/config"
	"cro-ux-auditor/crawler"
	"cro-ux-auditor/logging"
	"cro-ux-auditor/store"
)

// overrides maps viper keys (config file, CRO_* env vars and bound flags)
// onto the environment-loaded settings.
var overrides = []struct {
	key   string
	apply func(s *config.Settings, v *viper.Viper, key string)
}{
	{"logging.level", func(s *config.Settings, v *viper.Viper, k string) { s.Logging.Level = v.GetString(k) }},
	{"logging.format", func(s *config.Settings, v *viper.Viper, k string) { s.Logging.Format = v.GetString(k) }},
	{"ai.provider", func(s *config.Settings, v *viper.Viper, k string) { s.AI.Provider = v.GetString(k) }},
	{"ai.model", func(s *config.Settings, v *viper.Viper, k string) { s.AI.Model = v.GetString(k) }},
	{"ai.api_url", func(s *config.Settings, v *viper.Viper, k string) { s.AI.APIURL = v.GetString(k) }},
	{"ai.temperature", func(s *config.Settings, v *viper.Viper, k string) { s.AI.Temperature = v.GetFloat64(k) }},
	{"ai.max_tokens", func(s *config.Settings, v *viper.Viper, k string) { s.AI.MaxTokens = v.GetInt(k) }},
	{"fetcher.backend", func(s *config.Settings, v *viper.Viper, k string) { s.Fetcher.Backend = v.GetString(k) }},
	{"fetcher.user_agent", func(s *config.Settings, v *viper.Viper, k string) { s.Fetcher.UserAgent = v.GetString(k) }},
	{"fetcher.timeout", func(s *config.Settings, v *viper.Viper, k string) { s.Fetcher.Timeout = v.GetDuration(k) }},
	{"render.browser_bin", func(s *config.Settings, v *viper.Viper, k string) { s.Render.BrowserBin = v.GetString(k) }},
	{"crawl.max_pages", func(s *config.Settings, v *viper.Viper, k string) { s.Crawl.MaxPages = v.GetInt(k) }},
	{"server.port", func(s *config.Settings, v *viper.Viper, k string) { s.Server.Port = v.GetString(k) }},
	{"output.json_dir", func(s *config.Settings, v *viper.Viper, k string) { s.Output.JSONDir = v.GetString(k) }},
	{"output.reports_dir", func(s *config.Settings, v *viper.Viper, k string) { s.Output.ReportsDir = v.GetString(k) }},
}

func applyOverrides(s *config.Settings, v *viper.Viper) {
	for _, o := range overrides {
		if v.IsSet(o.key) && v.GetString(o.key) != "" {
			o.apply(s, v, o.key)
		}
	}
}

func loadSettings() (*config.Settings, error) {
	settings, err := config.Load(envFile)
	if err != nil {
		return nil, err
	}
	applyOverrides(settings, viper.GetViper())
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

// app holds the components a command needs, built from settings.
type app struct {
	settings *config.Settings
	logger   *logrus.Logger
	status   *crawler.PageFetcher
	plain    crawler.Fetcher
	rendered crawler.Fetcher
	renderer *crawler.RodRenderer
	store    *store.Store
	analyzer *analyzer.Analyzer
}

// newApp wires fetchers and storage. withModel also builds the language
// model provider and the analyzer, which requires credentials.
func newApp(withModel bool) (*app, error) {
	settings, err := loadSettings()
	if err != nil {
		return nil, err
	}
	logger := logging.New(settings.Logging)
	for _, w := range settings.Warnings() {
		logger.Warn(w)
	}

	opts := settings.FetchOptions()
	renderer := crawler.NewRodRenderer(settings.RenderOptions())
	a := &app{
		settings: settings,
		logger:   logger,
		status:   crawler.NewPageFetcher(opts),
		plain:    crawler.NewPlainFetcher(opts),
		rendered: crawler.NewFetcher(opts, true, renderer, logger),
		renderer: renderer,
		store:    store.New(settings.Output.JSONDir, settings.Output.ReportsDir),
	}
	if !withModel {
		return a, nil
	}

	if err := settings.ValidateAI(); err != nil {
		return nil, err
	}
	provider, err := ai.NewProvider(settings.ProviderConfig())
	if err != nil {
		return nil, err
	}
	a.analyzer, err = analyzer.New(analyzer.Config{
		Plain:     a.plain,
		Rendered:  a.rendered,
		Provider:  provider,
		Logger:    logger,
		PageDelay: settings.Crawl.PageDelay,
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (a *app) fetcher(render bool) crawler.Fetcher {
	if render {
		return a.rendered
	}
	return a.plain
}

func (a *app) Close() {
	if err := a.renderer.Close(); err != nil {
		a.logger.WithError(err).Warn("could not close browser")
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
