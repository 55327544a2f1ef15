package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Bounds applied to every extraction.
const (
	MaxLinks     = 20
	MaxImages    = 10
	MaxTextChars = 3000
)

type Link struct {
	Text string `json:"text"`
	Href string `json:"href"`
}

type Form struct {
	Action string `json:"action"`
	Method string `json:"method"`
}

type Image struct {
	Src string `json:"src"`
	Alt string `json:"alt"`
}

// PageFeatures is the structured summary of one page's HTML. Every slice
// field is non-nil so that JSON output always carries arrays.
type PageFeatures struct {
	Title           string   `json:"title"`
	MetaDescription string   `json:"meta_description"`
	Headings        []string `json:"headings"`
	Links           []Link   `json:"links"`
	Forms           []Form   `json:"forms"`
	Buttons         []string `json:"buttons"`
	Images          []Image  `json:"images"`
	TextContent     string   `json:"text_content"`
	StructuredData  []any    `json:"structured_data"`
}

// Extract parses pageHTML and returns its feature record. It performs no I/O
// and never fails: unparsable input yields an empty record.
func Extract(pageHTML, pageURL string) PageFeatures {
	doc, err := Parse(pageHTML)
	if err != nil {
		return emptyFeatures()
	}
	return FromDocument(doc)
}

// Parse builds a goquery document with scripting disabled, so <noscript>
// content is parsed as markup rather than raw text.
func Parse(pageHTML string) (*goquery.Document, error) {
	root, err := html.ParseWithOptions(strings.NewReader(pageHTML), html.ParseOptionEnableScripting(false))
	if err != nil {
		return nil, err
	}
	return goquery.NewDocumentFromNode(root), nil
}

func FromDocument(doc *goquery.Document) PageFeatures {
	return PageFeatures{
		Title:           Title(doc),
		MetaDescription: MetaDescription(doc),
		Headings:        Headings(doc),
		Links:           Links(doc),
		Forms:           Forms(doc),
		Buttons:         Buttons(doc),
		Images:          Images(doc),
		TextContent:     TextContent(doc),
		StructuredData:  StructuredData(doc),
	}
}

func emptyFeatures() PageFeatures {
	return PageFeatures{
		Headings:       []string{},
		Links:          []Link{},
		Forms:          []Form{},
		Buttons:        []string{},
		Images:         []Image{},
		StructuredData: []any{},
	}
}
