package ai

import (
	"fmt"
	"strings"
)

type AuditType string

const (
	AuditCRO  AuditType = "cro"
	AuditUX   AuditType = "ux"
	AuditBoth AuditType = "both"
)

func ParseAuditType(s string) (AuditType, error) {
	switch AuditType(strings.ToLower(strings.TrimSpace(s))) {
	case AuditCRO:
		return AuditCRO, nil
	case AuditUX:
		return AuditUX, nil
	case AuditBoth:
		return AuditBoth, nil
	}
	return "", fmt.Errorf("unknown audit type %q (want cro, ux or both)", s)
}

// Question is one entry of the fixed audit checklist. ID is the number within
// its own audit.
type Question struct {
	ID       int
	Audit    AuditType
	Category string
	Text     string
}

// Catalog is ordered by audit, then by ID. Categories are contiguous.
var Catalog = []Question{
	{1, AuditCRO, "Offers & Messaging", "Does the above-the-fold headline clearly state what, for whom, and the benefit in 12 words or fewer?"},
	{2, AuditCRO, "Offers & Messaging", "Is the primary call-to-action (CTA) visible without scrolling on mobile and desktop?"},
	{3, AuditCRO, "Offers & Messaging", "Is that primary CTA visually dominant (unique colour, ≥ 44 px tall) with an action verb?"},
	{4, AuditCRO, "Offers & Messaging", "Are there zero competing CTAs or distracting links in the hero section?"},
	{5, AuditCRO, "Social Proof & Trust", "Is at least one high-credibility testimonial, star rating, or client logo band visible in the first viewport?"},
	{6, AuditCRO, "Social Proof & Trust", "Are security badges, refund/guarantee copy, or trust seals placed next to forms or checkout areas?"},
	{7, AuditCRO, "Analytics & Tracking", "Are GA4 (or another analytics suite) and all key events—page view, 75% scroll, CTA click, form submit—firing correctly?"},
	{8, AuditCRO, "Analytics & Tracking", "Are critical funnel steps (Add to Cart, Begin Checkout, Add Payment Info, Purchase) tagged and reporting?"},
	{9, AuditCRO, "Lead Capture & Forms", "Does every lead-gen form require five or fewer mandatory fields?"},
	{10, AuditCRO, "Lead Capture & Forms", "Do fields validate inline and show friendly, specific error messages?"},
	{11, AuditCRO, "Urgency & Scarcity", "Is there a legitimate urgency or scarcity cue (e.g., limited stock counter, countdown timer) that isn't fake or overbearing?"},
	{12, AuditCRO, "Pricing & Friction", "Is the total cost—including shipping/taxes—displayed before the user reaches checkout step 2?"},
	{13, AuditCRO, "Pricing & Friction", "Can visitors check out as guests (no forced account creation)?"},
	{14, AuditCRO, "Speed & Experimentation", "Is mobile Largest Contentful Paint ≤ 2.5 seconds?"},
	{15, AuditCRO, "Speed & Experimentation", "Is only one A/B test (or none) running on this page right now?"},

	{1, AuditUX, "Performance & Stability", "Does the page meet Core Web Vitals: mobile LCP ≤ 2.5 s and CLS ≤ 0.1?"},
	{2, AuditUX, "Performance & Stability", "Are there zero console errors, 404s, or mixed-content warnings in dev-tools?"},
	{3, AuditUX, "Mobile-First Usability", "Are all tap targets at least 48 × 48 px with 8 px spacing?"},
	{4, AuditUX, "Mobile-First Usability", "Is body text legible on a 320 px-wide screen without pinch-zoom?"},
	{5, AuditUX, "Mobile-First Usability", "Do sticky headers/CTAs avoid covering content while scrolling?"},
	{6, AuditUX, "Navigation & Information Architecture", "Do menu labels match common user intent ('Pricing', 'Services', 'About') rather than jargon?"},
	{7, AuditUX, "Navigation & Information Architecture", "Are breadcrumbs provided on pages more than two levels deep?"},
	{8, AuditUX, "Accessibility (WCAG 2.1 AA)", "Does every foreground/background colour combo meet a 4.5 : 1 contrast ratio?"},
	{9, AuditUX, "Accessibility (WCAG 2.1 AA)", "Do all functional or informative images have concise, descriptive alt text (not keyword stuffing)?"},
	{10, AuditUX, "Accessibility (WCAG 2.1 AA)", "Can a keyboard-only user Tab to every interactive element and see a clear focus state?"},
	{11, AuditUX, "Content & Microcopy", "Can a new visitor grasp the page's purpose in five seconds or less?"},
	{12, AuditUX, "Content & Microcopy", "Does the main copy score Grade 8 or easier on a readability test (Flesch ≥ 60)?"},
	{13, AuditUX, "Error States & Feedback", "Do form errors explain what's wrong and how to fix it in plain language?"},
	{14, AuditUX, "Error States & Feedback", "Do empty states (e.g., empty cart, no search results) offer helpful next steps?"},
	{15, AuditUX, "Visual Design & Consistency", "Are button styles, colours, and typography consistent across the site?"},
	{16, AuditUX, "Visual Design & Consistency", "Is spacing based on a tidy rhythm (e.g., 8-pt grid) to aid scan-ability?"},
	{17, AuditUX, "Delight & Engagement", "Do hover/focus micro-interactions signal that elements are clickable without being distracting?"},
	{18, AuditUX, "Delight & Engagement", "Is there any meaningful personalisation or localisation (geo-specific copy, remembered cart, etc.) where appropriate?"},
}

// Questions returns the catalog entries for a single audit (cro or ux).
func Questions(audit AuditType) []Question {
	var out []Question
	for _, q := range Catalog {
		if q.Audit == audit {
			out = append(out, q)
		}
	}
	return out
}

// Sections returns the audits covered by t, in prompt order.
func (t AuditType) Sections() []AuditType {
	if t == AuditBoth {
		return []AuditType{AuditCRO, AuditUX}
	}
	return []AuditType{t}
}
