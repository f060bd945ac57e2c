// Package extract implements record extraction from rendered job pages.
// Field extraction is a prioritized list of strategies per field, tried in
// order; the first non-empty result wins.
package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// strategy pulls one field's value out of a page, or returns "".
type strategy func(doc *goquery.Document) string

// firstNonEmpty runs the strategies in order and returns the first hit.
func firstNonEmpty(doc *goquery.Document, strategies ...strategy) string {
	for _, s := range strategies {
		if v := s(doc); v != "" {
			return v
		}
	}
	return ""
}

// selectorText matches the first selector whose element has visible text.
func selectorText(selectors ...string) strategy {
	return func(doc *goquery.Document) string {
		for _, sel := range selectors {
			if v := collapse(doc.Find(sel).First().Text()); v != "" {
				return v
			}
		}
		return ""
	}
}

// labelValue reads a dt/dd details pair: the dt whose text matches one of
// the labels (exactly, then by containment) yields its following dd.
func labelValue(labels ...string) strategy {
	return func(doc *goquery.Document) string {
		for _, label := range labels {
			if v := definitionFor(doc, label, true); v != "" {
				return v
			}
			if v := definitionFor(doc, label, false); v != "" {
				return v
			}
		}
		return ""
	}
}

func definitionFor(doc *goquery.Document, label string, exact bool) string {
	var value string
	doc.Find("dt").EachWithBreak(func(_ int, dt *goquery.Selection) bool {
		text := collapse(dt.Text())
		match := text == label
		if !exact {
			match = strings.Contains(text, label)
		}
		if !match {
			return true
		}
		value = collapse(dt.NextFiltered("dd").Text())
		if value == "" {
			value = collapse(dt.Next().Text())
		}
		return value == ""
	})
	return value
}

// headingBlock returns the text of the element immediately after the h3
// whose own text equals heading.
func headingBlock(heading string) strategy {
	return func(doc *goquery.Document) string {
		var value string
		doc.Find("h3").EachWithBreak(func(_ int, h *goquery.Selection) bool {
			if collapse(h.Text()) != heading {
				return true
			}
			value = collapse(h.Next().Text())
			return false
		})
		return value
	}
}

// collapse squeezes all runs of whitespace into single spaces.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
