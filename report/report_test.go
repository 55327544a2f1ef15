package report

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cro-ux-auditor/ai"
	"cro-ux-auditor/analyzer"
	"cro-ux-auditor/extract"
)

func kinds(blocks []Block) []BlockKind {
	out := make([]BlockKind, len(blocks))
	for i, b := range blocks {
		out[i] = b.Kind
	}
	return out
}

func TestClassifyAuditExample(t *testing.T) {
	blocks := ClassifyAudit("## CRO AUDIT RESULTS\nQ1. Is it fast?\n- Answer: No\n")

	require.Len(t, blocks, 3)
	assert.Equal(t, heading("CRO AUDIT RESULTS"), blocks[0])
	assert.Equal(t, paragraph("Q1. Is it fast?", StyleBold), blocks[1])
	assert.Equal(t, paragraph("- Answer: No", StylePlain), blocks[2])
}

func TestClassifyAuditRules(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []Block
	}{
		{"subsection", "### Offers & Messaging", []Block{subheading("Offers & Messaging")}},
		{"question two digits", "Q12. Are there guarantees?", []Block{paragraph("Q12. Are there guarantees?", StyleBold)}},
		{"evidence", "- Evidence: hero has no CTA", []Block{paragraph("- Evidence: hero has no CTA", StylePlain)}},
		{"quick win detail", "- Quick-win: add a button", []Block{paragraph("- Quick-win: add a button", StylePlain)}},
		{"priority", "- High Priority Fixes: speed", []Block{paragraph("- High Priority Fixes: speed", StyleBold)}},
		{"quick wins", "- Quick Wins: badges", []Block{paragraph("- Quick Wins: badges", StyleBold)}},
		{"score", "- CRO Score: 9/15 - 60%", []Block{paragraph("- CRO Score: 9/15 - 60%", StyleBold)}},
		{"combined score", "- CRO/UX Score: 20/33 - 61%", []Block{paragraph("- CRO/UX Score: 20/33 - 61%", StyleBold)}},
		{"grade", "- Overall Grade: C", []Block{paragraph("- Overall Grade: C", StyleBold)}},
		{"dash bullet", "- Compress hero image", []Block{paragraph("Compress hero image", StyleBullet)}},
		{"dot bullet", "• Add reviews", []Block{paragraph("Add reviews", StyleBullet)}},
		{"lone Q", "Q", []Block{paragraph("Q", StylePlain), spacer(6)}},
		{"Q word", "Quality matters", []Block{paragraph("Quality matters", StylePlain), spacer(6)}},
		{"indented heading", "   ## SUMMARY   ", []Block{heading("SUMMARY")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyAudit(tt.line))
		})
	}
}

func TestClassifyAuditUnrecognizedLine(t *testing.T) {
	blocks := ClassifyAudit("!!!---***")

	paragraphs := 0
	for _, b := range blocks {
		if b.Kind == BlockParagraph {
			paragraphs++
			assert.Equal(t, StylePlain, b.Style)
		}
	}
	assert.Equal(t, 1, paragraphs)
}

func TestClassifyAuditSkipsBlankLines(t *testing.T) {
	assert.Empty(t, ClassifyAudit("\n\n   \n\t\n"))
	assert.Len(t, ClassifyAudit("## A\n\n\n## B"), 2)
}

func sampleResult(title string, auditText string) *analyzer.AnalysisResult {
	return &analyzer.AnalysisResult{
		URL:       "https://example.com/pricing",
		Timestamp: time.Date(2025, time.March, 4, 15, 7, 0, 0, time.UTC),
		Features: extract.PageFeatures{
			Title:           title,
			MetaDescription: "Short description",
			Headings:        []string{"Pricing", "Plans"},
			Links:           []extract.Link{{Text: "Home", Href: "/"}},
			Forms:           []extract.Form{},
			Buttons:         []string{"Buy", "Try", "Talk"},
			Images:          []extract.Image{{Src: "/a.png"}},
			StructuredData:  []any{},
		},
		AuditText: auditText,
		AuditType: ai.AuditBoth,
	}
}

func findTable(t *testing.T, doc Document) Block {
	t.Helper()
	for _, b := range doc.Blocks {
		if b.Kind == BlockTable {
			return b
		}
	}
	t.Fatal("no table block")
	return Block{}
}

func TestPageReportTruncatesTitle(t *testing.T) {
	longTitle := strings.Repeat("a", 60)
	doc := PageReport(sampleResult(longTitle, ""))

	tbl := findTable(t, doc)
	assert.Equal(t, []string{"Metric", "Value"}, tbl.Rows[0])
	assert.Equal(t, []string{"Page Title", strings.Repeat("a", 50) + "..."}, tbl.Rows[1])
	assert.Equal(t, []string{"Meta Description", "Short description"}, tbl.Rows[2])
	assert.Equal(t, []string{"Buttons/CTAs", "3"}, tbl.Rows[6])
	assert.Equal(t, []string{"Images Found", "1"}, tbl.Rows[7])
}

func TestPageReportLayout(t *testing.T) {
	doc := PageReport(sampleResult("Pricing", "## UX AUDIT RESULTS\nQ1. Fast?"))

	assert.Equal(t, []BlockKind{
		BlockTitle, BlockSpacer, BlockParagraph, BlockParagraph, BlockSpacer,
		BlockHeading, BlockTable, BlockSpacer,
		BlockPageBreak, BlockHeading,
		BlockHeading, BlockParagraph,
	}, kinds(doc.Blocks))

	assert.Equal(t, labeled("Analyzed URL:", "https://example.com/pricing"), doc.Blocks[2])
	assert.Equal(t, labeled("Report Generated:", "March 04, 2025 at 03:07 PM"), doc.Blocks[3])
	assert.Equal(t, "Structured CRO & UX Audit Results", doc.Blocks[9].Text)
}

func TestPageReportIsDeterministic(t *testing.T) {
	result := sampleResult("Pricing", "## CRO AUDIT RESULTS\n- Answer: Yes\nloose text")
	assert.Equal(t, PageReport(result), PageReport(result))
}

func sampleSite(pages int, failing map[int]bool) *analyzer.WebsiteAnalysis {
	site := &analyzer.WebsiteAnalysis{
		BaseURL:   "https://example.com",
		AuditType: ai.AuditCRO,
		Timestamp: time.Date(2025, time.March, 4, 9, 30, 0, 0, time.UTC),
	}
	for i := 1; i <= pages; i++ {
		u := fmt.Sprintf("https://example.com/p%d", i)
		if failing[i] {
			site.Results = append(site.Results, analyzer.PageOutcome{URL: u, Error: "failed to fetch page content: HTTP 500"})
			site.PagesWithErrors++
			continue
		}
		site.Results = append(site.Results, analyzer.PageOutcome{URL: u, Result: sampleResult("Page", strings.Repeat("r", 600))})
		site.PagesAnalyzed++
	}
	site.TotalPagesFound = pages
	return site
}

func TestWebsiteReportSummary(t *testing.T) {
	doc := WebsiteReport(sampleSite(3, map[int]bool{2: true}))

	tbl := findTable(t, doc)
	assert.Equal(t, [][]string{
		{"Metric", "Value"},
		{"Total Pages Found", "3"},
		{"Pages Successfully Analyzed", "2"},
		{"Pages with Errors", "1"},
		{"Analysis Success Rate", "66.7%"},
	}, tbl.Rows)
	assert.Equal(t, labeled("Website URL:", "https://example.com"), doc.Blocks[2])
}

func TestWebsiteReportZeroPages(t *testing.T) {
	doc := WebsiteReport(sampleSite(0, nil))

	tbl := findTable(t, doc)
	assert.Equal(t, []string{"Analysis Success Rate", "0.0%"}, tbl.Rows[4])
}

func TestWebsiteReportPages(t *testing.T) {
	doc := WebsiteReport(sampleSite(2, map[int]bool{1: true}))

	var texts []string
	for _, b := range doc.Blocks {
		if b.Kind == BlockSubheading || b.Kind == BlockParagraph && b.Label == "" {
			texts = append(texts, b.Text)
		}
	}
	require.Len(t, texts, 5)
	assert.Equal(t, "Page 1: https://example.com/p1", texts[0])
	assert.Equal(t, "Error: failed to fetch page content: HTTP 500", texts[1])
	assert.Equal(t, "Page 2: https://example.com/p2", texts[2])
	assert.Equal(t, "Key Recommendations:", texts[3])
	assert.Equal(t, strings.Repeat("r", 500)+"...", texts[4])
}

func TestWebsiteReportPageBreaks(t *testing.T) {
	breaksAfterIntro := func(doc Document) int {
		n := 0
		for _, b := range doc.Blocks {
			if b.Kind == BlockPageBreak {
				n++
			}
		}
		return n - 1
	}

	assert.Equal(t, 0, breaksAfterIntro(WebsiteReport(sampleSite(3, nil))))
	assert.Equal(t, 1, breaksAfterIntro(WebsiteReport(sampleSite(4, nil))))
	assert.Equal(t, 1, breaksAfterIntro(WebsiteReport(sampleSite(6, map[int]bool{3: true}))))
	assert.Equal(t, 2, breaksAfterIntro(WebsiteReport(sampleSite(7, nil))))
}

func TestTruncateCountsCharacters(t *testing.T) {
	assert.Equal(t, "héllo", truncate("héllo", 5))
	assert.Equal(t, "hé...", truncate("héllo", 2))
}

func TestWritePDF(t *testing.T) {
	doc := PageReport(sampleResult("Pricing • Plans", "## CRO AUDIT RESULTS\nQ1. Fast?\n- Answer: No\n- Compress images\nplain"))

	var buf bytes.Buffer
	require.NoError(t, WritePDF(doc, &buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestSavePDFCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Reports", "website_cro_report.pdf")

	require.NoError(t, SavePDF(WebsiteReport(sampleSite(4, map[int]bool{2: true})), path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}
