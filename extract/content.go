package extract

import (
	"fmt"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

func Title(doc *goquery.Document) string {
	return strings.TrimSpace(visibleText(doc.Find("title").First()))
}

func MetaDescription(doc *goquery.Document) string {
	return doc.Find("meta[name='description']").First().AttrOr("content", "")
}

// Headings returns the text of every h1..h6 element in document order.
// Empty and duplicate headings are kept.
func Headings(doc *goquery.Document) []string {
	headings := []string{}
	doc.Find("h1, h2, h3, h4, h5, h6").Each(func(i int, s *goquery.Selection) {
		headings = append(headings, strings.TrimSpace(visibleText(s)))
	})
	return headings
}

// TextContent collapses the visible text of the whole document. Each line is
// trimmed and split on double spaces, empty chunks are dropped and the rest
// joined with single spaces, capped at MaxTextChars runes.
func TextContent(doc *goquery.Document) string {
	raw := visibleText(doc.Selection)

	var chunks []string
	for _, line := range strings.FieldsFunc(raw, isLineBreak) {
		line = strings.TrimSpace(line)
		for _, phrase := range strings.Split(line, "  ") {
			if phrase = strings.TrimSpace(phrase); phrase != "" {
				chunks = append(chunks, phrase)
			}
		}
	}
	return truncateRunes(strings.Join(chunks, " "), MaxTextChars)
}

// Markdown converts the page body to Markdown.
func Markdown(doc *goquery.Document) (string, error) {
	bodyHTML, err := doc.Find("body").Html()
	if err != nil {
		return "", fmt.Errorf("render body: %w", err)
	}
	markdown, err := md.NewConverter("", true, nil).ConvertString(bodyHTML)
	if err != nil {
		return "", fmt.Errorf("convert body to markdown: %w", err)
	}
	return markdown, nil
}

func isLineBreak(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', '\u0085', '\u2028', '\u2029':
		return true
	}
	return false
}

// visibleText concatenates the text nodes under s, skipping script and style
// subtrees.
func visibleText(s *goquery.Selection) string {
	var b strings.Builder
	for _, n := range s.Nodes {
		collectText(n, &b)
	}
	return b.String()
}

func collectText(n *html.Node, b *strings.Builder) {
	if n.Type == html.ElementNode && (n.DataAtom == atom.Script || n.DataAtom == atom.Style) {
		return
	}
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, b)
	}
}

func truncateRunes(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == limit {
			return s[:i]
		}
		count++
	}
	return s
}
