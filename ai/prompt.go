package ai

import (
	"fmt"
	"strings"

	"cro-ux-auditor/extract"
)

const (
	promptHeadings = 5
	promptButtons  = 5
	promptTextLen  = 1000
)

// templateProfile holds the wording that differs between the three audit
// prompts. Everything else is generated from Catalog.
type templateProfile struct {
	intro      string
	important  string
	highEx     string
	mediumEx   string
	quickEx    string
	scoreTitle string
}

var profiles = map[AuditType]templateProfile{
	AuditCRO: {
		intro:      "You are an expert CRO (Conversion Rate Optimization) analyst with 15+ years of experience conducting a comprehensive conversion rate audit that will be used by business owners and marketing teams to make immediate improvements.",
		important:  `IMPORTANT: Be specific and actionable. Instead of saying "improve the headline", say "Change the headline from 'Current Title' to 'New Specific Headline' to clearly communicate value and include a benefit."`,
		highEx:     `"Change headline from X to Y", "Add CTA button with text Z"`,
		mediumEx:   `"Add testimonial from John D. with photo", "Implement GA4 tracking for form submissions"`,
		quickEx:    `"Change CTA color to #FF6B35", "Add SSL badge to footer"`,
		scoreTitle: "## OVERALL CRO SCORE",
	},
	AuditUX: {
		intro:      "You are an expert UX (User Experience) analyst with 15+ years of experience conducting a comprehensive user experience audit that will be used by business owners and development teams to make immediate improvements.",
		important:  `IMPORTANT: Be specific and actionable. Instead of saying "improve performance", say "Optimize image sizes to reduce load time by 2 seconds" or "Fix the broken navigation link to '/contact'".`,
		highEx:     `"Fix broken navigation link to '/contact'", "Optimize images to reduce load time by 2 seconds"`,
		mediumEx:   `"Add alt text to all images", "Increase button size to 48px minimum"`,
		quickEx:    `"Fix typo in headline", "Add hover effects to buttons"`,
		scoreTitle: "## OVERALL UX SCORE",
	},
	AuditBoth: {
		intro:      "You are an expert CRO (Conversion Rate Optimization) and UX (User Experience) analyst with 15+ years of experience conducting a comprehensive website audit that will be used by business owners, marketing teams, and development teams to make immediate improvements.",
		important:  `IMPORTANT: Be specific and actionable. Instead of saying "improve the headline", say "Change the headline from 'Current Title' to 'New Specific Headline' to clearly communicate value and include a benefit." Instead of saying "improve performance", say "Optimize image sizes to reduce load time by 2 seconds."`,
		highEx:     `"Change headline from X to Y", "Fix broken navigation link to '/contact'"`,
		mediumEx:   `"Add testimonial from John D. with photo", "Optimize images to reduce load time by 2 seconds"`,
		quickEx:    `"Change CTA color to #FF6B35", "Add hover effects to buttons"`,
		scoreTitle: "## OVERALL SCORE",
	},
}

var sectionTitles = map[AuditType]string{
	AuditCRO: "## CRO AUDIT RESULTS",
	AuditUX:  "## UX AUDIT RESULTS",
}

var scoreLabels = map[AuditType]string{
	AuditCRO: "CRO Score",
	AuditUX:  "UX Score",
}

// BuildPrompt renders the audit prompt for one page. The output depends only
// on its arguments. Question numbers run on across sections, so a combined
// audit numbers the UX questions 16 to 33.
func BuildPrompt(features extract.PageFeatures, pageURL string, audit AuditType) (string, error) {
	profile, ok := profiles[audit]
	if !ok {
		return "", fmt.Errorf("unknown audit type %q", audit)
	}

	var b strings.Builder

	b.WriteString(profile.intro + "\n\n")
	b.WriteString(fmt.Sprintf("URL: %s\n\n", pageURL))

	b.WriteString("WEBPAGE ANALYSIS:\n")
	b.WriteString(fmt.Sprintf("Title: %s\n", features.Title))
	b.WriteString(fmt.Sprintf("Meta Description: %s\n", features.MetaDescription))
	b.WriteString(fmt.Sprintf("Key Headings: %s\n", strings.Join(head(features.Headings, promptHeadings), ", ")))
	b.WriteString(fmt.Sprintf("Main Content (first %d chars): %s\n", promptTextLen, firstRunes(features.TextContent, promptTextLen)))
	b.WriteString(fmt.Sprintf("Forms Found: %d forms\n", len(features.Forms)))
	b.WriteString(fmt.Sprintf("Buttons/CTAs: %s\n", strings.Join(head(features.Buttons, promptButtons), ", ")))
	b.WriteString(fmt.Sprintf("Images: %d images\n", len(features.Images)))
	b.WriteString(fmt.Sprintf("Links: %d links\n\n", len(features.Links)))

	b.WriteString("CRITICAL INSTRUCTIONS:\n")
	b.WriteString("You are analyzing a real website that needs actionable improvements. For each question:\n")
	b.WriteString("1. Answer: Yes / No / Needs work (be honest and critical)\n")
	b.WriteString("2. Evidence: Provide specific details about what you found or didn't find on the page\n")
	b.WriteString("3. Quick-win suggestions: Give SPECIFIC, actionable steps that can be implemented immediately\n\n")
	b.WriteString(profile.important + "\n\n")
	b.WriteString("Please structure your response exactly as follows:\n\n")

	number := 0
	var scores []string
	for _, section := range audit.Sections() {
		questions := Questions(section)
		b.WriteString(sectionTitles[section] + "\n\n")

		category := ""
		for _, q := range questions {
			if q.Category != category {
				category = q.Category
				b.WriteString("### " + category + "\n")
			}
			number++
			b.WriteString(fmt.Sprintf("Q%d. %s\n", number, q.Text))
			b.WriteString("- Answer: [Yes/No/Needs work]\n")
			b.WriteString("- Evidence: [Brief explanation]\n")
			b.WriteString("- Quick-win: [If No/Needs work, provide specific suggestion]\n\n")
		}
		scores = append(scores, fmt.Sprintf("- %s: [X/%d] - [Percentage]", scoreLabels[section], len(questions)))
	}

	b.WriteString("## SUMMARY & PRIORITY RECOMMENDATIONS\n")
	b.WriteString(fmt.Sprintf("- High Priority Fixes: [List 3-5 specific, critical issues with exact actions - e.g., %s]\n", profile.highEx))
	b.WriteString(fmt.Sprintf("- Medium Priority: [List 3-5 important improvements with specific steps - e.g., %s]\n", profile.mediumEx))
	b.WriteString(fmt.Sprintf("- Quick Wins: [List 3-5 easy fixes that can be implemented in under 1 hour - e.g., %s]\n\n", profile.quickEx))

	b.WriteString(profile.scoreTitle + "\n")
	for _, line := range scores {
		b.WriteString(line + "\n")
	}
	b.WriteString("- Overall Grade: [A/B/C/D/F]\n\n")
	b.WriteString("Remember: Be specific, actionable, and provide concrete steps that can be implemented immediately.\n")

	return b.String(), nil
}

func head(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}

func firstRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) > n {
		return string(runes[:n])
	}
	return s
}
