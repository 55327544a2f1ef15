package analyzer

import (
	"time"

	"cro-ux-auditor/ai"
	"cro-ux-auditor/extract"
)

// AnalysisResult is the outcome of auditing one page. It is not modified
// after AnalyzePage returns it.
type AnalysisResult struct {
	URL       string               `json:"url"`
	Timestamp time.Time            `json:"timestamp"`
	Features  extract.PageFeatures `json:"page_analysis"`
	AuditText string               `json:"structured_audit"`
	AuditType ai.AuditType         `json:"audit_type"`
}

// PageOutcome holds either a result or the error that prevented one.
type PageOutcome struct {
	URL    string          `json:"url"`
	Error  string          `json:"error,omitempty"`
	Result *AnalysisResult `json:"result,omitempty"`
}

func (o PageOutcome) Failed() bool {
	return o.Result == nil
}

type WebsiteAnalysis struct {
	BaseURL         string        `json:"base_url"`
	AuditType       ai.AuditType  `json:"audit_type"`
	TotalPagesFound int           `json:"total_pages_found"`
	PagesAnalyzed   int           `json:"pages_analyzed"`
	PagesWithErrors int           `json:"pages_with_errors"`
	Timestamp       time.Time     `json:"analysis_timestamp"`
	Results         []PageOutcome `json:"individual_results"`
}

// SuccessRate is the analyzed share of found pages as a percentage. A zero
// page count is treated as one.
func (w *WebsiteAnalysis) SuccessRate() float64 {
	total := w.TotalPagesFound
	if total < 1 {
		total = 1
	}
	return float64(w.PagesAnalyzed) / float64(total) * 100
}

func newWebsiteAnalysis(baseURL string, audit ai.AuditType, urls []string, outcomes []PageOutcome, at time.Time) *WebsiteAnalysis {
	w := &WebsiteAnalysis{
		BaseURL:         baseURL,
		AuditType:       audit,
		TotalPagesFound: len(urls),
		Timestamp:       at,
		Results:         outcomes,
	}
	for _, o := range outcomes {
		if o.Failed() {
			w.PagesWithErrors++
		} else {
			w.PagesAnalyzed++
		}
	}
	return w
}

type EventKind string

const (
	EventURLs     EventKind = "urls"
	EventPage     EventKind = "page"
	EventComplete EventKind = "complete"
)

// Event reports pipeline progress. Index is 1-based and only set for page
// events.
type Event struct {
	Kind    EventKind        `json:"kind"`
	Index   int              `json:"index,omitempty"`
	Total   int              `json:"total"`
	URLs    []string         `json:"urls,omitempty"`
	Outcome *PageOutcome     `json:"outcome,omitempty"`
	Summary *WebsiteAnalysis `json:"summary,omitempty"`
}

type Progress func(Event)
