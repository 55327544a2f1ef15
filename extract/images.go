package extract

import (
	"github.com/PuerkitoBio/goquery"
)

func Images(doc *goquery.Document) []Image {
	images := []Image{}
	doc.Find("img").EachWithBreak(func(i int, s *goquery.Selection) bool {
		if i == MaxImages {
			return false
		}
		images = append(images, Image{
			Src: s.AttrOr("src", ""),
			Alt: s.AttrOr("alt", ""),
		})
		return true
	})
	return images
}
