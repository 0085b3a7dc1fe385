package comprof

// Locator finds structured data and fallback markup fragments in a fetched
// page. Locating never fails: a page with no recognizable markup yields an
// empty fragment set, and a malformed structured block degrades to
// fallback-only without aborting the search.
type Locator interface {
	Locate(page *RawPage) *FragmentSet
}

// LocateAll runs locators in order and merges their fragment sets.
// Earlier locators win name collisions, so order encodes priority.
func LocateAll(page *RawPage, locators ...Locator) *FragmentSet {
	merged := NewFragmentSet()
	for _, l := range locators {
		merged.Merge(l.Locate(page))
	}
	return merged
}
