package extract

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// StructuredData decodes every JSON-LD script block. Blocks that fail to
// decode are skipped.
func StructuredData(doc *goquery.Document) []any {
	data := []any{}
	doc.Find("script").Each(func(i int, s *goquery.Selection) {
		if !strings.EqualFold(strings.TrimSpace(s.AttrOr("type", "")), "application/ld+json") {
			return
		}
		var v any
		if err := json.Unmarshal([]byte(s.Text()), &v); err != nil {
			return
		}
		data = append(data, v)
	})
	return data
}
