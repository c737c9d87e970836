package dom

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Parse reads an HTML document
func Parse(r io.Reader) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return doc, nil
}

// ParseString reads an HTML document held in memory
func ParseString(html string) (*goquery.Document, error) {
	return Parse(strings.NewReader(html))
}

// Candidates returns the profile candidates of doc in document order
func Candidates(doc *goquery.Document) []Candidate {
	var out []Candidate
	doc.Find(ProfileSelector).Each(func(_ int, sel *goquery.Selection) {
		out = append(out, candidateFrom(sel))
	})
	return out
}

func candidateFrom(sel *goquery.Selection) Candidate {
	var c Candidate
	// Only anchors resolve an href
	if goquery.NodeName(sel) == "a" {
		c.Href, _ = sel.Attr("href")
	}
	c.EntityURN, _ = sel.Attr(entityURNAttr)
	c.ChameleonURN, _ = sel.Attr(chameleonURNAttr)
	return c
}

// FindNext returns the enabled next-page control of doc and the selector that
// matched it. The fallback selector is tried only when the primary matches
// nothing.
func FindNext(doc *goquery.Document) (*goquery.Selection, string) {
	for _, selector := range []string{NextSelector, NextFallbackSelector} {
		if sel := doc.Find(selector).First(); sel.Length() > 0 {
			return sel, selector
		}
	}
	return nil, ""
}
