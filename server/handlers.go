package server

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"cro-ux-auditor/ai"
	"cro-ux-auditor/analyzer"
	"cro-ux-auditor/crawler"
	"cro-ux-auditor/extract"
	"cro-ux-auditor/report"
	"cro-ux-auditor/store"
)

type extractRequest struct {
	URL      string `json:"url" binding:"required,url"`
	Render   bool   `json:"render"`
	Markdown bool   `json:"markdown"`
}

type extractResponse struct {
	URL      string               `json:"url"`
	Features extract.PageFeatures `json:"features"`
	Markdown string               `json:"markdown,omitempty"`
}

type analyzeRequest struct {
	URL       string `json:"url" binding:"required,url"`
	AuditType string `json:"audit_type" binding:"required"`
	Render    bool   `json:"render"`
	PDF       bool   `json:"pdf"`
}

type analyzeResponse struct {
	Result *analyzer.AnalysisResult `json:"result"`
	Report string                   `json:"report,omitempty"`
}

type analyzePagesRequest struct {
	URLs      []string `json:"urls" binding:"required,min=1,dive,url"`
	AuditType string   `json:"audit_type" binding:"required"`
	Render    bool     `json:"render"`
	PDF       bool     `json:"pdf"`
}

type pageResponse struct {
	analyzer.PageOutcome
	Report string `json:"report,omitempty"`
}

func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) statusHandler(c *gin.Context) {
	target := c.Query("url")
	if target == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "URL parameter required"})
		return
	}
	c.JSON(http.StatusOK, s.status.CheckStatus(c.Request.Context(), target))
}

func (s *Server) fetcherFor(render bool) crawler.Fetcher {
	if render && s.rendered != nil {
		return s.rendered
	}
	return s.plain
}

func fetchFailure(c *gin.Context, pageURL string, err error) {
	body := gin.H{"url": pageURL, "error": err.Error()}
	var fetchErr *crawler.FetchError
	if errors.As(err, &fetchErr) {
		body["hint"] = fetchErr.Hint()
	}
	c.JSON(http.StatusBadGateway, body)
}

func (s *Server) extractHandler(c *gin.Context) {
	var req extractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid URL provided"})
		return
	}

	pageHTML, err := s.fetcherFor(req.Render).Fetch(c.Request.Context(), req.URL)
	if err != nil {
		fetchFailure(c, req.URL, err)
		return
	}
	doc, err := extract.Parse(pageHTML)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"url": req.URL, "error": err.Error()})
		return
	}

	resp := extractResponse{URL: req.URL, Features: extract.FromDocument(doc)}
	if req.Markdown {
		if resp.Markdown, err = extract.Markdown(doc); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"url": req.URL, "error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) analyzeHandler(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	audit, err := ai.ParseAuditType(req.AuditType)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := s.analyzer.AnalyzePage(c.Request.Context(), req.URL, req.Render, audit)
	if err != nil {
		fetchFailure(c, req.URL, err)
		return
	}

	resp := analyzeResponse{Result: result}
	if req.PDF {
		name, err := s.savePDF(report.PageReport(result), "cro_report")
		if err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not write PDF report", "result": result})
			return
		}
		resp.Report = name
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) analyzePagesHandler(c *gin.Context) {
	var req analyzePagesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	audit, err := ai.ParseAuditType(req.AuditType)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	outcomes := s.analyzer.AnalyzePages(c.Request.Context(), req.URLs, req.Render, audit)
	pages := make([]pageResponse, len(outcomes))
	for i, outcome := range outcomes {
		pages[i] = pageResponse{PageOutcome: outcome}
		if !req.PDF || outcome.Failed() {
			continue
		}
		name, err := s.savePDF(report.PageReport(outcome.Result), fmt.Sprintf("cro_report_page%d", i+1))
		if err != nil {
			_ = c.Error(err)
			continue
		}
		pages[i].Report = name
	}
	c.JSON(http.StatusOK, gin.H{"pages": pages, "count": len(pages)})
}

func (s *Server) streamSiteHandler(c *gin.Context) {
	targetURL := c.Query("url")
	if targetURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "URL parameter required"})
		return
	}
	audit, err := ai.ParseAuditType(c.Query("audit_type"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	maxPages := s.settings.Crawl.MaxPages
	if raw := c.Query("max_pages"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "max_pages must be a positive integer"})
			return
		}
		maxPages = parsed
	}
	render := c.Query("render") == "true"
	wantPDF := c.Query("pdf") == "true"

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	send := func(event string, data any) {
		c.SSEvent(event, data)
		c.Writer.Flush()
	}

	a := s.analyzer.WithProgress(func(e analyzer.Event) {
		switch e.Kind {
		case analyzer.EventURLs:
			send("urls", gin.H{"urls": e.URLs, "count": e.Total})
		case analyzer.EventPage:
			send("page", gin.H{
				"index":  e.Index,
				"total":  e.Total,
				"url":    e.Outcome.URL,
				"error":  e.Outcome.Error,
				"result": e.Outcome.Result,
			})
		}
	})

	site, err := a.AnalyzeWebsite(c.Request.Context(), targetURL, maxPages, render, audit)
	if err != nil {
		s.logger.WithFields(logrus.Fields{"url": targetURL, "error": err}).Warn("website analysis failed")
		send("error", gin.H{"error": err.Error()})
		return
	}

	complete := gin.H{
		"message":           fmt.Sprintf("Analysis completed: %d/%d pages analyzed", site.PagesAnalyzed, site.TotalPagesFound),
		"total_pages_found": site.TotalPagesFound,
		"pages_analyzed":    site.PagesAnalyzed,
		"pages_with_errors": site.PagesWithErrors,
		"success_rate":      site.SuccessRate(),
	}
	if wantPDF {
		if name, err := s.savePDF(report.WebsiteReport(site), "website_cro_report"); err == nil {
			complete["report"] = name
		} else {
			s.logger.WithError(err).Error("could not write website report")
		}
	}
	send("complete", complete)
}

func (s *Server) savePDF(doc report.Document, prefix string) (string, error) {
	path, err := s.store.ReportPath(prefix)
	if err != nil {
		return "", err
	}
	if err := report.SavePDF(doc, path); err != nil {
		os.Remove(path)
		return "", err
	}
	s.logger.WithField("path", path).Info("PDF report saved")
	return filepath.Base(path), nil
}

func (s *Server) listReportsHandler(c *gin.Context) {
	reports, err := s.store.ListReports()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reports": reports, "count": len(reports)})
}

func (s *Server) reportHandler(c *gin.Context) {
	name := c.Param("name")
	path, err := s.store.ResolveReport(name)
	switch {
	case errors.Is(err, store.ErrInvalidReportName):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case errors.Is(err, fs.ErrNotExist):
		c.JSON(http.StatusNotFound, gin.H{"error": "report not found"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.FileAttachment(path, name)
}
