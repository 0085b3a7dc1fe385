// Package goquery provides a CSS-selector based implementation of
// comprof.Locator. It finds the embedded JSON-LD Organization block and the
// fixed set of fallback markup fragments on a company profile page.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/comprof"
)

// Ensure Locator implements comprof.Locator at compile time.
var _ comprof.Locator = (*Locator)(nil)

// Locator locates structured data and fallback fragments in raw page HTML.
// Locating never fails: unparsable HTML or a page with no recognizable
// markup yields an empty fragment set.
type Locator struct{}

// NewLocator creates a new Locator.
func NewLocator() *Locator {
	return &Locator{}
}

// Locate parses the page and returns every fragment it can find. A
// malformed structured-data block degrades to absent and never aborts the
// fallback search.
func (l *Locator) Locate(page *comprof.RawPage) *comprof.FragmentSet {
	frags := comprof.NewFragmentSet()
	if page == nil || page.Body == "" {
		return frags
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page.Body))
	if err != nil {
		return frags
	}

	if block := locateStructured(doc); block != nil {
		frags.SetStructured(block)
	}
	locateFallbacks(doc, frags)

	return frags
}
