package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"cro-ux-auditor/analyzer"
	"cro-ux-auditor/config"
	"cro-ux-auditor/crawler"
	"cro-ux-auditor/store"
)

// StatusChecker runs the pre-flight HEAD check.
type StatusChecker interface {
	CheckStatus(ctx context.Context, pageURL string) crawler.SiteStatus
}

type Deps struct {
	Settings *config.Settings
	Analyzer *analyzer.Analyzer
	Plain    crawler.Fetcher
	Rendered crawler.Fetcher
	Status   StatusChecker
	Store    *store.Store
	Logger   *logrus.Logger
}

type Server struct {
	router   *gin.Engine
	settings *config.Settings
	analyzer *analyzer.Analyzer
	plain    crawler.Fetcher
	rendered crawler.Fetcher
	status   StatusChecker
	store    *store.Store
	logger   *logrus.Logger
	limiter  *clientLimiter
}

func New(deps Deps) *Server {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		deps.Logger.WithField("panic", recovered).Error("handler panicked")
		c.AbortWithStatus(http.StatusInternalServerError)
	}))
	r.Use(requestID(), requestLogger(deps.Logger))

	s := &Server{
		router:   r,
		settings: deps.Settings,
		analyzer: deps.Analyzer,
		plain:    deps.Plain,
		rendered: deps.Rendered,
		status:   deps.Status,
		store:    deps.Store,
		logger:   deps.Logger,
		limiter:  newClientLimiter(deps.Settings.RateLimit.RequestsPerSecond, deps.Settings.RateLimit.Burst),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/healthz", s.healthHandler)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	s.router.GET("/status", s.statusHandler)
	s.router.GET("/reports", s.listReportsHandler)
	s.router.GET("/reports/:name", s.reportHandler)

	limited := s.router.Group("/", s.limiter.middleware())
	limited.POST("/extract", s.extractHandler)
	limited.POST("/analyze", s.analyzeHandler)
	limited.POST("/analyze-pages", s.analyzePagesHandler)
	limited.GET("/stream-site", s.streamSiteHandler)
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         ":" + s.settings.Server.Port,
		Handler:      s.router,
		ReadTimeout:  s.settings.Server.ReadTimeout,
		WriteTimeout: s.settings.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.WithField("port", s.settings.Server.Port).Info("starting auditor server")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
