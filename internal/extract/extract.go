// Package extract turns raw portal markup into typed records.
//
// Every function here is pure: no I/O, no browser. Missing elements degrade
// to empty fields rather than errors, so a partially rendered page still
// yields whatever it does contain.
package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// parse builds a document from markup. Malformed markup is repaired by the
// HTML5 parser; only a reader failure yields nil.
func parse(markup string) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil
	}
	return doc
}

// flatText returns the concatenated text content of the page body with
// script and style contents removed. Line structure of the source is kept.
func flatText(doc *goquery.Document) string {
	body := doc.Find("body").Clone()
	body.Find("script, style, noscript").Remove()
	return body.Text()
}

// collapse trims s and folds every run of whitespace into a single space.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// cellTexts returns the trimmed text of each cell in sel.
func cellTexts(sel *goquery.Selection) []string {
	vals := make([]string, 0, sel.Length())
	sel.Each(func(_ int, c *goquery.Selection) {
		vals = append(vals, strings.TrimSpace(c.Text()))
	})
	return vals
}

// at returns vals[i] or "" when the row is short.
func at(vals []string, i int) string {
	if i < len(vals) {
		return vals[i]
	}
	return ""
}
