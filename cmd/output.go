package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/rodaine/table"

	"cro-ux-auditor/analyzer"
	"cro-ux-auditor/crawler"
	"cro-ux-auditor/extract"
)

var (
	headerFmt = color.New(color.FgGreen, color.Underline).SprintfFunc()
	okFmt     = color.New(color.FgGreen).SprintfFunc()
	warnFmt   = color.New(color.FgYellow).SprintfFunc()
	errFmt    = color.New(color.FgRed, color.Bold).SprintfFunc()
)

type printer struct {
	out io.Writer
}

func newTable(w io.Writer, headers ...any) table.Table {
	return table.New(headers...).WithHeaderFormatter(headerFmt).WithWriter(w)
}

func (p printer) features(f extract.PageFeatures) {
	tbl := newTable(p.out, "Metric", "Value")
	tbl.AddRow("Page Title", f.Title)
	tbl.AddRow("Meta Description", f.MetaDescription)
	tbl.AddRow("Headings", len(f.Headings))
	tbl.AddRow("Links", len(f.Links))
	tbl.AddRow("Forms", len(f.Forms))
	tbl.AddRow("Buttons/CTAs", len(f.Buttons))
	tbl.AddRow("Images", len(f.Images))
	tbl.AddRow("Structured Data", len(f.StructuredData))
	tbl.Print()
}

func (p printer) result(r *analyzer.AnalysisResult) {
	fmt.Fprintf(p.out, "\n%s\n\n", okFmt("Analysis of %s (%s)", r.URL, r.AuditType))
	p.features(r.Features)
	fmt.Fprintf(p.out, "\n%s\n", r.AuditText)
}

// progress prints analyzer events as they arrive.
func (p printer) progress(e analyzer.Event) {
	switch e.Kind {
	case analyzer.EventURLs:
		fmt.Fprintf(p.out, "Found %d pages to analyze\n", e.Total)
	case analyzer.EventPage:
		if e.Outcome.Failed() {
			fmt.Fprintf(p.out, "[%d/%d] %s %s\n", e.Index, e.Total, errFmt("failed"), e.Outcome.URL)
			return
		}
		fmt.Fprintf(p.out, "[%d/%d] %s %s\n", e.Index, e.Total, okFmt("analyzed"), e.Outcome.URL)
	}
}

func (p printer) outcomes(outcomes []analyzer.PageOutcome) {
	tbl := newTable(p.out, "#", "URL", "Status", "Title")
	for i, o := range outcomes {
		if o.Failed() {
			tbl.AddRow(i+1, o.URL, errFmt("error"), o.Error)
			continue
		}
		tbl.AddRow(i+1, o.URL, okFmt("ok"), o.Result.Features.Title)
	}
	tbl.Print()
}

func (p printer) website(site *analyzer.WebsiteAnalysis) {
	fmt.Fprintln(p.out)
	tbl := newTable(p.out, "Metric", "Value")
	tbl.AddRow("Website URL", site.BaseURL)
	tbl.AddRow("Audit Type", site.AuditType)
	tbl.AddRow("Total Pages Found", site.TotalPagesFound)
	tbl.AddRow("Pages Successfully Analyzed", site.PagesAnalyzed)
	tbl.AddRow("Pages with Errors", site.PagesWithErrors)
	tbl.AddRow("Analysis Success Rate", fmt.Sprintf("%.1f%%", site.SuccessRate()))
	tbl.Print()
	fmt.Fprintln(p.out)
	p.outcomes(site.Results)
}

func (p printer) urls(urls []string) {
	tbl := newTable(p.out, "#", "URL")
	for i, u := range urls {
		tbl.AddRow(i+1, u)
	}
	tbl.Print()
	fmt.Fprintf(p.out, "\n%d pages discovered\n", len(urls))
}

func (p printer) status(target string, s crawler.SiteStatus) {
	if !s.Reachable {
		fmt.Fprintf(p.out, "%s %s\n", errFmt("unreachable"), target)
		fmt.Fprintf(p.out, "  %s\n", s.Error)
		return
	}

	code := okFmt("%d", s.StatusCode)
	switch {
	case s.StatusCode >= 500:
		code = errFmt("%d", s.StatusCode)
	case s.StatusCode >= 400:
		code = warnFmt("%d", s.StatusCode)
	}
	fmt.Fprintf(p.out, "%s %s\n", okFmt("reachable"), target)
	fmt.Fprintf(p.out, "  Status:        %s\n", code)
	fmt.Fprintf(p.out, "  Final URL:     %s\n", s.FinalURL)
	fmt.Fprintf(p.out, "  Server:        %s\n", s.Server)
	fmt.Fprintf(p.out, "  Response time: %.2fs\n", s.ResponseTime)
}

// fetchHint prints the short diagnostic for a fetch failure, if err has one.
func (p printer) fetchHint(err error) {
	var fetchErr *crawler.FetchError
	if errors.As(err, &fetchErr) {
		fmt.Fprintf(p.out, "%s %s\n", warnFmt("hint:"), fetchErr.Hint())
	}
}

func (p printer) saved(kind, path string) {
	fmt.Fprintf(p.out, "%s %s\n", okFmt("%s saved:", kind), path)
}
