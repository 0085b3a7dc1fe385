// Package readability provides an alternative main-content Locator built
// on go-readability. It is interchangeable with the trafilatura package.
package readability

import (
	"strings"

	"github.com/fwojciec/comprof"
	readability "github.com/go-shiori/go-readability"
)

// Ensure Locator implements comprof.Locator at compile time.
var _ comprof.Locator = (*Locator)(nil)

// Locator wraps go-readability main-content extraction.
type Locator struct{}

// NewLocator creates a new Locator.
func NewLocator() *Locator {
	return &Locator{}
}

// Locate extracts the readable article text and emits it as the
// main_content fragment. Extraction failure yields an empty set.
func (l *Locator) Locate(page *comprof.RawPage) *comprof.FragmentSet {
	frags := comprof.NewFragmentSet()
	if page == nil || page.Body == "" {
		return frags
	}

	article, err := readability.FromReader(strings.NewReader(page.Body), nil)
	if err != nil {
		return frags
	}

	frags.SetText(comprof.FragmentMainContent, comprof.CleanText(article.TextContent))
	return frags
}
