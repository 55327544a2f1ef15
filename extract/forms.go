package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

func Forms(doc *goquery.Document) []Form {
	forms := []Form{}
	doc.Find("form").Each(func(i int, s *goquery.Selection) {
		forms = append(forms, Form{
			Action: s.AttrOr("action", ""),
			Method: s.AttrOr("method", "GET"),
		})
	})
	return forms
}

// Buttons collects the labels of <button> elements and of inputs typed
// submit or button. An element without text falls back to its value.
func Buttons(doc *goquery.Document) []string {
	buttons := []string{}
	doc.Find("button, input").Each(func(i int, s *goquery.Selection) {
		if goquery.NodeName(s) == "input" {
			kind := strings.ToLower(strings.TrimSpace(s.AttrOr("type", "")))
			if kind != "submit" && kind != "button" {
				return
			}
		}
		label := strings.TrimSpace(visibleText(s))
		if label == "" {
			label = s.AttrOr("value", "")
		}
		buttons = append(buttons, label)
	})
	return buttons
}
