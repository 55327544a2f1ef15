package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Links returns the first MaxLinks anchors that carry an href, in document
// order. Hrefs are kept exactly as written.
func Links(doc *goquery.Document) []Link {
	links := []Link{}
	doc.Find("a[href]").EachWithBreak(func(i int, s *goquery.Selection) bool {
		if len(links) == MaxLinks {
			return false
		}
		href, _ := s.Attr("href")
		links = append(links, Link{
			Text: strings.TrimSpace(visibleText(s)),
			Href: href,
		})
		return true
	})
	return links
}

// AllHrefs returns the href of every anchor in the document without any
// bound. The crawler walks these.
func AllHrefs(doc *goquery.Document) []string {
	var hrefs []string
	doc.Find("a[href]").Each(func(i int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		hrefs = append(hrefs, href)
	})
	return hrefs
}
