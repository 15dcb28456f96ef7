package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"
)

// countText counts leaf elements whose text contains needle. Used to
// size card lists ("Resolve this complaint", "View Review Details")
// from a rendered-HTML snapshot instead of poking the live DOM per card.
func countText(html, needle string) int {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return 0
	}
	n := 0
	doc.Find("*").Each(func(_ int, s *goquery.Selection) {
		if s.Children().Length() == 0 && strings.Contains(s.Text(), needle) {
			n++
		}
	})
	return n
}

// firstImageSrc returns the src of the first image in the document, the
// complaint photo the customer attached, or "" when there is none.
func firstImageSrc(html string) string {
	doc, err := htmlquery.Parse(strings.NewReader(html))
	if err != nil {
		return ""
	}
	img := htmlquery.FindOne(doc, "//div//img[@src]")
	if img == nil {
		return ""
	}
	return htmlquery.SelectAttr(img, "src")
}
