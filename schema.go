package comprof

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// FieldName identifies one of the schema's output fields. Values double as
// the keys used in exported records.
type FieldName string

// Schema fields, in canonical output order.
const (
	FieldCompanyName        FieldName = "company_name"
	FieldCompanyProfile     FieldName = "company_profile"
	FieldCompanyWebsite     FieldName = "company_website"
	FieldAddressType        FieldName = "company_address_type"
	FieldStreet             FieldName = "company_street"
	FieldLocality           FieldName = "company_locality"
	FieldRegion             FieldName = "company_region"
	FieldPostalCode         FieldName = "company_postal_code"
	FieldCountry            FieldName = "company_country"
	FieldEmployees          FieldName = "company_employees_on_linkedin"
	FieldFollowers          FieldName = "company_followers_on_linkedin"
	FieldLogo               FieldName = "company_logo"
	FieldCoverImage         FieldName = "company_cover_image"
	FieldSlogan             FieldName = "company_slogan"
	FieldTwitterDescription FieldName = "company_twitter_description"
	FieldAboutUs            FieldName = "company_about_us"
	FieldIndustry           FieldName = "company_industry"
	FieldSize               FieldName = "company_size"
	FieldHeadquarters       FieldName = "company_headquarters"
	FieldOrganizationType   FieldName = "company_organization_type"
	FieldFounded            FieldName = "company_founded"
	FieldSpecialties        FieldName = "company_specialties"
)

// FieldType describes how a field's raw value is coerced and validated.
type FieldType int

// Field types supported by the schema.
const (
	TypeText FieldType = iota
	TypeURL
	TypeCount
	TypeYear
	TypeSizeBracket
	TypeAddressTag
	TypeTextList
)

// FieldSpec describes a single schema field.
type FieldSpec struct {
	Name FieldName
	Type FieldType

	// Eligible reports whether the field counts toward the completeness
	// ratio. company_profile echoes the input locator rather than being
	// extracted, so it is the one ineligible field.
	Eligible bool
}

var fieldSpecs = []FieldSpec{
	{FieldCompanyName, TypeText, true},
	{FieldCompanyProfile, TypeURL, false},
	{FieldCompanyWebsite, TypeURL, true},
	{FieldAddressType, TypeAddressTag, true},
	{FieldStreet, TypeText, true},
	{FieldLocality, TypeText, true},
	{FieldRegion, TypeText, true},
	{FieldPostalCode, TypeText, true},
	{FieldCountry, TypeText, true},
	{FieldEmployees, TypeCount, true},
	{FieldFollowers, TypeCount, true},
	{FieldLogo, TypeURL, true},
	{FieldCoverImage, TypeURL, true},
	{FieldSlogan, TypeText, true},
	{FieldTwitterDescription, TypeText, true},
	{FieldAboutUs, TypeText, true},
	{FieldIndustry, TypeText, true},
	{FieldSize, TypeSizeBracket, true},
	{FieldHeadquarters, TypeText, true},
	{FieldOrganizationType, TypeText, true},
	{FieldFounded, TypeYear, true},
	{FieldSpecialties, TypeTextList, true},
}

var fieldIndex = func() map[FieldName]FieldSpec {
	m := make(map[FieldName]FieldSpec, len(fieldSpecs))
	for _, fs := range fieldSpecs {
		m[fs.Name] = fs
	}
	return m
}()

// Fields returns the schema's fields in canonical output order.
func Fields() []FieldSpec {
	return append([]FieldSpec(nil), fieldSpecs...)
}

// FieldByName retrieves a field's schema entry.
func FieldByName(name FieldName) (FieldSpec, bool) {
	fs, ok := fieldIndex[name]
	return fs, ok
}

// EligibleFieldCount returns the number of fields that participate in the
// completeness ratio.
func EligibleFieldCount() int {
	n := 0
	for _, fs := range fieldSpecs {
		if fs.Eligible {
			n++
		}
	}
	return n
}

// FieldValue is a coerced field value. The field selected by Kind is the
// meaningful one.
type FieldValue struct {
	Kind  FieldType
	Text  string
	Count int
	List  []string
}

// Coerce validates and normalizes a raw fragment value against the named
// field's type. It is a pure lookup plus conversion; failures are reported
// as EINVALID and carry no side effects.
func Coerce(name FieldName, raw string) (FieldValue, error) {
	fs, ok := fieldIndex[name]
	if !ok {
		return FieldValue{}, Errorf(EINVALID, "unknown field %q", name)
	}
	switch fs.Type {
	case TypeText:
		s := CleanText(raw)
		if s == "" {
			return FieldValue{}, Errorf(EINVALID, "field %q is empty", name)
		}
		return FieldValue{Kind: TypeText, Text: s}, nil
	case TypeURL:
		s, err := coerceURL(raw)
		if err != nil {
			return FieldValue{}, err
		}
		return FieldValue{Kind: TypeURL, Text: s}, nil
	case TypeCount:
		n, err := coerceCount(raw)
		if err != nil {
			return FieldValue{}, err
		}
		return FieldValue{Kind: TypeCount, Count: n}, nil
	case TypeYear:
		y, err := coerceYear(raw)
		if err != nil {
			return FieldValue{}, err
		}
		return FieldValue{Kind: TypeYear, Count: y}, nil
	case TypeSizeBracket:
		s, err := coerceSizeBracket(raw)
		if err != nil {
			return FieldValue{}, err
		}
		return FieldValue{Kind: TypeSizeBracket, Text: s}, nil
	case TypeAddressTag:
		s, err := coerceAddressTag(raw)
		if err != nil {
			return FieldValue{}, err
		}
		return FieldValue{Kind: TypeAddressTag, Text: s}, nil
	case TypeTextList:
		list, err := coerceTextList(raw)
		if err != nil {
			return FieldValue{}, err
		}
		return FieldValue{Kind: TypeTextList, List: list}, nil
	}
	return FieldValue{}, Errorf(EINTERNAL, "field %q has unsupported type", name)
}

// CleanText collapses runs of whitespace into single spaces and trims the
// result.
func CleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func coerceURL(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	u, err := url.Parse(s)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return "", Errorf(EINVALID, "value %q is not an absolute http(s) URL", raw)
	}
	return u.String(), nil
}

// coerceCount parses visible counter text such as "10,001+" or
// "523 followers" into a non-negative integer.
func coerceCount(raw string) (int, error) {
	s := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if fields := strings.Fields(s); len(fields) > 0 {
		s = fields[0]
	}
	s = strings.TrimRight(s, "+·")
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, Errorf(EINVALID, "count %q is not a number", raw)
	}
	if n < 0 {
		return 0, Errorf(EINVALID, "count %q is negative", raw)
	}
	return n, nil
}

var yearRE = regexp.MustCompile(`\b(19\d{2}|20\d{2})\b`)

// coerceYear extracts a 4-digit founding year. Years after the current year
// are rejected.
func coerceYear(raw string) (int, error) {
	m := yearRE.FindString(raw)
	if m == "" {
		return 0, Errorf(EINVALID, "no founding year in %q", raw)
	}
	y, err := strconv.Atoi(m)
	if err != nil {
		return 0, Errorf(EINVALID, "no founding year in %q", raw)
	}
	if y > time.Now().Year() {
		return 0, Errorf(EINVALID, "founding year %d is in the future", y)
	}
	return y, nil
}

// coerceSizeBracket normalizes a size bracket such as "11-50 employees" to
// its bare range. Locale variants of the bracket text pass through intact.
func coerceSizeBracket(raw string) (string, error) {
	s := CleanText(raw)
	lower := strings.ToLower(s)
	for _, suffix := range []string{" employees", " employee"} {
		if strings.HasSuffix(lower, suffix) {
			s = CleanText(s[:len(s)-len(suffix)])
			break
		}
	}
	if s == "" {
		return "", Errorf(EINVALID, "size bracket is empty")
	}
	return s, nil
}

var addressTags = map[string]string{
	"postaladdress": "PostalAddress",
}

func coerceAddressTag(raw string) (string, error) {
	canonical, ok := addressTags[strings.ToLower(CleanText(raw))]
	if !ok {
		return "", Errorf(EINVALID, "unknown address type %q", raw)
	}
	return canonical, nil
}

func coerceTextList(raw string) ([]string, error) {
	parts := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ';'
	})
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := CleanText(p); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil, Errorf(EINVALID, "list is empty")
	}
	return out, nil
}
