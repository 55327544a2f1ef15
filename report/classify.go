package report

import "strings"

// lineRule maps one line shape of the model's audit text to report blocks.
// Rules are tried in order and the first match wins.
type lineRule struct {
	match func(line string) bool
	emit  func(line string) []Block
}

func hasAnyPrefix(line string, prefixes ...string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(line, p) {
			return true
		}
	}
	return false
}

func prefixed(prefixes ...string) func(string) bool {
	return func(line string) bool { return hasAnyPrefix(line, prefixes...) }
}

func isQuestion(line string) bool {
	return len(line) > 1 && line[0] == 'Q' && line[1] >= '0' && line[1] <= '9'
}

func one(b Block) []Block { return []Block{b} }

var auditRules = []lineRule{
	{
		match: prefixed("## "),
		emit:  func(line string) []Block { return one(heading(strings.TrimPrefix(line, "## "))) },
	},
	{
		match: prefixed("### "),
		emit:  func(line string) []Block { return one(subheading(strings.TrimPrefix(line, "### "))) },
	},
	{
		match: isQuestion,
		emit:  func(line string) []Block { return one(paragraph(line, StyleBold)) },
	},
	{
		match: prefixed("- Answer:", "- Evidence:", "- Quick-win:"),
		emit:  func(line string) []Block { return one(paragraph(line, StylePlain)) },
	},
	{
		match: prefixed("- High Priority Fixes:", "- Medium Priority:", "- Quick Wins:"),
		emit:  func(line string) []Block { return one(paragraph(line, StyleBold)) },
	},
	{
		match: prefixed("- CRO Score:", "- UX Score:", "- CRO/UX Score:", "- Overall Grade:"),
		emit:  func(line string) []Block { return one(paragraph(line, StyleBold)) },
	},
	{
		match: prefixed("- ", "• "),
		emit: func(line string) []Block {
			text := strings.TrimPrefix(strings.TrimPrefix(line, "- "), "• ")
			return one(paragraph(text, StyleBullet))
		},
	},
}

// ClassifyAudit turns free-form audit text into report blocks, one line at
// a time. Blank lines produce nothing. A line no rule recognizes becomes a
// plain paragraph followed by a small spacer.
func ClassifyAudit(text string) []Block {
	var blocks []Block
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		blocks = append(blocks, classifyLine(line)...)
	}
	return blocks
}

func classifyLine(line string) []Block {
	for _, rule := range auditRules {
		if rule.match(line) {
			return rule.emit(line)
		}
	}
	return []Block{paragraph(line, StylePlain), spacer(6)}
}
