package mock

import "github.com/fwojciec/comprof"

var _ comprof.Locator = (*Locator)(nil)

// Locator is a mock implementation of comprof.Locator.
type Locator struct {
	LocateFn func(page *comprof.RawPage) *comprof.FragmentSet
}

func (l *Locator) Locate(page *comprof.RawPage) *comprof.FragmentSet {
	return l.LocateFn(page)
}
