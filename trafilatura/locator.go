// Package trafilatura provides a comprof.Locator that extracts the page's
// main textual content with boilerplate removed. The resulting
// main_content fragment is the lowest-priority fallback for the about
// text.
package trafilatura

import (
	"strings"

	"github.com/fwojciec/comprof"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Locator implements comprof.Locator at compile time.
var _ comprof.Locator = (*Locator)(nil)

// Locator wraps go-trafilatura main-content extraction.
type Locator struct{}

// NewLocator creates a new Locator.
func NewLocator() *Locator {
	return &Locator{}
}

// Locate extracts the main content and emits it as the main_content
// fragment. Extraction failure yields an empty set; it is never an error.
func (l *Locator) Locate(page *comprof.RawPage) *comprof.FragmentSet {
	frags := comprof.NewFragmentSet()
	if page == nil || page.Body == "" {
		return frags
	}

	opts := trafilatura.Options{
		EnableFallback: true,
	}

	result, err := trafilatura.Extract(strings.NewReader(page.Body), opts)
	if err != nil || result.ContentNode == nil {
		return frags
	}

	frags.SetText(comprof.FragmentMainContent, comprof.CleanText(textContent(result.ContentNode)))
	return frags
}

// textContent concatenates every text node under n.
func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			sb.WriteString(node.Data)
			sb.WriteString(" ")
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return sb.String()
}
