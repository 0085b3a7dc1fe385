package comprof

// SourceKind identifies which tier supplied a resolved field's value.
type SourceKind string

// Source tiers, in precedence order.
const (
	SourceStructured SourceKind = "structured"
	SourceFallback   SourceKind = "fallback"
)

// Provenance maps each resolved field to the source tier that supplied it.
// Absent fields have no entry.
type Provenance map[FieldName]SourceKind

// CompanyRecord is one extracted company profile. Optional fields are
// pointers; nil means the field is explicitly absent (exported as null,
// never as a placeholder string). Records are immutable once assembled.
type CompanyRecord struct {
	Name               *string  `json:"company_name"`
	ProfileURL         string   `json:"company_profile"`
	Website            *string  `json:"company_website"`
	AddressType        *string  `json:"company_address_type"`
	Street             *string  `json:"company_street"`
	Locality           *string  `json:"company_locality"`
	Region             *string  `json:"company_region"`
	PostalCode         *string  `json:"company_postal_code"`
	Country            *string  `json:"company_country"`
	Employees          *int     `json:"company_employees_on_linkedin"`
	Followers          *int     `json:"company_followers_on_linkedin"`
	LogoURL            *string  `json:"company_logo"`
	CoverURL           *string  `json:"company_cover_image"`
	Slogan             *string  `json:"company_slogan"`
	TwitterDescription *string  `json:"company_twitter_description"`
	AboutUs            *string  `json:"company_about_us"`
	Industry           *string  `json:"company_industry"`
	Size               *string  `json:"company_size"`
	Headquarters       *string  `json:"company_headquarters"`
	OrganizationType   *string  `json:"company_organization_type"`
	Founded            *int     `json:"company_founded"`
	Specialties        []string `json:"company_specialties"`
}

// Validate returns an error if the record violates schema invariants.
func (r *CompanyRecord) Validate() error {
	if r.ProfileURL == "" {
		return Errorf(EINVALID, "record profile URL required")
	}
	return nil
}

// SetField stores a coerced value on the record. Assemblers call it while
// building a record; callers treat records as immutable afterwards.
func (r *CompanyRecord) SetField(name FieldName, v FieldValue) error {
	fs, ok := fieldIndex[name]
	if !ok {
		return Errorf(EINVALID, "unknown field %q", name)
	}
	if fs.Type != v.Kind {
		return Errorf(EINVALID, "field %q cannot hold a value of kind %d", name, v.Kind)
	}
	switch name {
	case FieldCompanyName:
		r.Name = &v.Text
	case FieldCompanyProfile:
		r.ProfileURL = v.Text
	case FieldCompanyWebsite:
		r.Website = &v.Text
	case FieldAddressType:
		r.AddressType = &v.Text
	case FieldStreet:
		r.Street = &v.Text
	case FieldLocality:
		r.Locality = &v.Text
	case FieldRegion:
		r.Region = &v.Text
	case FieldPostalCode:
		r.PostalCode = &v.Text
	case FieldCountry:
		r.Country = &v.Text
	case FieldEmployees:
		r.Employees = &v.Count
	case FieldFollowers:
		r.Followers = &v.Count
	case FieldLogo:
		r.LogoURL = &v.Text
	case FieldCoverImage:
		r.CoverURL = &v.Text
	case FieldSlogan:
		r.Slogan = &v.Text
	case FieldTwitterDescription:
		r.TwitterDescription = &v.Text
	case FieldAboutUs:
		r.AboutUs = &v.Text
	case FieldIndustry:
		r.Industry = &v.Text
	case FieldSize:
		r.Size = &v.Text
	case FieldHeadquarters:
		r.Headquarters = &v.Text
	case FieldOrganizationType:
		r.OrganizationType = &v.Text
	case FieldFounded:
		r.Founded = &v.Count
	case FieldSpecialties:
		r.Specialties = v.List
	}
	return nil
}

// Field returns the record's value for the named field and whether it is
// present. Exporters use it to walk records in schema order.
func (r *CompanyRecord) Field(name FieldName) (FieldValue, bool) {
	fs, ok := fieldIndex[name]
	if !ok {
		return FieldValue{}, false
	}
	text := func(p *string) (FieldValue, bool) {
		if p == nil {
			return FieldValue{}, false
		}
		return FieldValue{Kind: fs.Type, Text: *p}, true
	}
	count := func(p *int) (FieldValue, bool) {
		if p == nil {
			return FieldValue{}, false
		}
		return FieldValue{Kind: fs.Type, Count: *p}, true
	}
	switch name {
	case FieldCompanyName:
		return text(r.Name)
	case FieldCompanyProfile:
		if r.ProfileURL == "" {
			return FieldValue{}, false
		}
		return FieldValue{Kind: fs.Type, Text: r.ProfileURL}, true
	case FieldCompanyWebsite:
		return text(r.Website)
	case FieldAddressType:
		return text(r.AddressType)
	case FieldStreet:
		return text(r.Street)
	case FieldLocality:
		return text(r.Locality)
	case FieldRegion:
		return text(r.Region)
	case FieldPostalCode:
		return text(r.PostalCode)
	case FieldCountry:
		return text(r.Country)
	case FieldEmployees:
		return count(r.Employees)
	case FieldFollowers:
		return count(r.Followers)
	case FieldLogo:
		return text(r.LogoURL)
	case FieldCoverImage:
		return text(r.CoverURL)
	case FieldSlogan:
		return text(r.Slogan)
	case FieldTwitterDescription:
		return text(r.TwitterDescription)
	case FieldAboutUs:
		return text(r.AboutUs)
	case FieldIndustry:
		return text(r.Industry)
	case FieldSize:
		return text(r.Size)
	case FieldHeadquarters:
		return text(r.Headquarters)
	case FieldOrganizationType:
		return text(r.OrganizationType)
	case FieldFounded:
		return count(r.Founded)
	case FieldSpecialties:
		if len(r.Specialties) == 0 {
			return FieldValue{}, false
		}
		return FieldValue{Kind: fs.Type, List: r.Specialties}, true
	}
	return FieldValue{}, false
}
