package comprof

// FragmentName identifies a located page region.
type FragmentName string

// Fragment names emitted by locators.
const (
	// FragmentStructuredBlock is the parsed structured-data block. It is
	// represented by FragmentSet.Structured rather than a text entry.
	FragmentStructuredBlock FragmentName = "structured_block"

	FragmentPageTitle       FragmentName = "page_title"
	FragmentMetaDescription FragmentName = "meta_description"
	FragmentMetaHeadline    FragmentName = "meta_headline"
	FragmentMetaImage       FragmentName = "meta_image"
	FragmentMetaLogo        FragmentName = "meta_logo"

	FragmentAboutSection      FragmentName = "about_section"
	FragmentAboutIndustry     FragmentName = "about_industry"
	FragmentAboutSize         FragmentName = "about_size"
	FragmentAboutType         FragmentName = "about_type"
	FragmentAboutFounded      FragmentName = "about_founded"
	FragmentAboutHeadquarters FragmentName = "about_headquarters"
	FragmentAboutSpecialties  FragmentName = "about_specialties"
	FragmentAboutWebsite      FragmentName = "about_website"

	FragmentAddressType       FragmentName = "address_type"
	FragmentAddressStreet     FragmentName = "address_street"
	FragmentAddressLocality   FragmentName = "address_locality"
	FragmentAddressRegion     FragmentName = "address_region"
	FragmentAddressPostalCode FragmentName = "address_postal_code"
	FragmentAddressCountry    FragmentName = "address_country"

	FragmentEmployeeCount FragmentName = "employee_count"
	FragmentFollowerCount FragmentName = "follower_count"

	FragmentMainContent FragmentName = "main_content"
)

// OrgBlock is the typed view of a structured-data Organization node. Values
// are raw strings exactly as they appeared in the block; empty means absent.
// Coercion happens at field resolution, not here.
type OrgBlock struct {
	Name         string
	URL          string
	Description  string
	Industry     string
	SizeBracket  string
	Headquarters string
	LogoURL      string
	Employees    string
	Founded      string
	Specialties  []string
	Address      *OrgAddress
}

// OrgAddress is the address node of an OrgBlock.
type OrgAddress struct {
	Type       string
	Street     string
	Locality   string
	Region     string
	PostalCode string
	Country    string
}

// FragmentSet holds everything locators found on one page. Text fragments
// are raw (pre-coercion); absence is a missing entry, never an empty
// string. The zero value is not usable; construct with NewFragmentSet.
type FragmentSet struct {
	structured *OrgBlock
	text       map[FragmentName]string
}

// NewFragmentSet returns an empty fragment set.
func NewFragmentSet() *FragmentSet {
	return &FragmentSet{text: make(map[FragmentName]string)}
}

// SetStructured records the parsed structured block. The first block wins;
// later calls are ignored.
func (s *FragmentSet) SetStructured(b *OrgBlock) {
	if s.structured == nil && b != nil {
		s.structured = b
	}
}

// Structured returns the parsed structured block, or nil when none was
// located.
func (s *FragmentSet) Structured() *OrgBlock {
	return s.structured
}

// SetText records a raw text fragment. Empty values are dropped, and the
// first value recorded for a name wins, so locators layer by scan order.
func (s *FragmentSet) SetText(name FragmentName, raw string) {
	if raw == "" {
		return
	}
	if _, ok := s.text[name]; ok {
		return
	}
	s.text[name] = raw
}

// Text returns the raw text fragment recorded under name.
func (s *FragmentSet) Text(name FragmentName) (string, bool) {
	v, ok := s.text[name]
	return v, ok
}

// Merge folds other into s without overwriting entries already present.
func (s *FragmentSet) Merge(other *FragmentSet) {
	if other == nil {
		return
	}
	s.SetStructured(other.structured)
	for name, v := range other.text {
		s.SetText(name, v)
	}
}

// Len returns the number of located fragments, counting the structured
// block as one.
func (s *FragmentSet) Len() int {
	n := len(s.text)
	if s.structured != nil {
		n++
	}
	return n
}
