package report

import (
	"fmt"
	"strconv"
	"time"

	"cro-ux-auditor/analyzer"
)

const (
	inch = 25.4 // mm

	pageTitleLimit  = 50
	siteTitleLimit  = 40
	previewLimit    = 500
	pagesPerSection = 3

	dateLayout = "January 02, 2006 at 03:04 PM"
)

// truncate cuts s to limit characters and marks the cut with "...".
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}

func count[T any](items []T) string {
	return strconv.Itoa(len(items))
}

func formatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// PageReport lays out the report for a single analyzed page.
func PageReport(result *analyzer.AnalysisResult) Document {
	doc := Document{Title: "CRO & UX Analysis Report"}
	doc.add(
		title(doc.Title),
		spacer(20),
		labeled("Analyzed URL:", result.URL),
		labeled("Report Generated:", formatDate(result.Timestamp)),
		spacer(30),
	)

	f := result.Features
	doc.add(
		heading("Page Analysis Summary"),
		table(ThemeSummary, []float64{2 * inch, 4 * inch},
			[]string{"Metric", "Value"},
			[]string{"Page Title", truncate(f.Title, pageTitleLimit)},
			[]string{"Meta Description", truncate(f.MetaDescription, pageTitleLimit)},
			[]string{"Headings Found", count(f.Headings)},
			[]string{"Links Found", count(f.Links)},
			[]string{"Forms Found", count(f.Forms)},
			[]string{"Buttons/CTAs", count(f.Buttons)},
			[]string{"Images Found", count(f.Images)},
		),
		spacer(20),
	)

	doc.add(pageBreak(), heading("Structured CRO & UX Audit Results"))
	doc.add(ClassifyAudit(result.AuditText)...)
	return doc
}

// WebsiteReport lays out the aggregate report for a crawled site: summary
// counts first, then one section per page with a page break after every
// third page.
func WebsiteReport(site *analyzer.WebsiteAnalysis) Document {
	doc := Document{Title: "Website CRO & UX Analysis Report"}
	doc.add(
		title(doc.Title),
		spacer(20),
		labeled("Website URL:", site.BaseURL),
		labeled("Report Generated:", formatDate(site.Timestamp)),
		spacer(30),
		heading("Website Analysis Summary"),
		table(ThemeSummary, []float64{2.5 * inch, 3.5 * inch},
			[]string{"Metric", "Value"},
			[]string{"Total Pages Found", strconv.Itoa(site.TotalPagesFound)},
			[]string{"Pages Successfully Analyzed", strconv.Itoa(site.PagesAnalyzed)},
			[]string{"Pages with Errors", strconv.Itoa(site.PagesWithErrors)},
			[]string{"Analysis Success Rate", fmt.Sprintf("%.1f%%", site.SuccessRate())},
		),
		spacer(30),
	)

	doc.add(pageBreak(), heading("Individual Page Analyses"))
	total := len(site.Results)
	for i, outcome := range site.Results {
		n := i + 1
		doc.add(subheading(fmt.Sprintf("Page %d: %s", n, outcome.URL)))
		if outcome.Failed() {
			doc.add(paragraph("Error: "+outcome.Error, StylePlain), spacer(15))
		} else {
			doc.add(pageSection(outcome.Result)...)
		}
		if n%pagesPerSection == 0 && n < total {
			doc.add(pageBreak())
		}
	}
	return doc
}

func pageSection(result *analyzer.AnalysisResult) []Block {
	f := result.Features
	return []Block{
		table(ThemePage, []float64{1.5 * inch, 4.5 * inch},
			[]string{"Metric", "Value"},
			[]string{"Page Title", truncate(f.Title, siteTitleLimit)},
			[]string{"Headings", count(f.Headings)},
			[]string{"Links", count(f.Links)},
			[]string{"Forms", count(f.Forms)},
			[]string{"Buttons/CTAs", count(f.Buttons)},
		),
		spacer(10),
		paragraph("Key Recommendations:", StyleBold),
		paragraph(truncate(result.AuditText, previewLimit), StylePlain),
		spacer(20),
	}
}
