// Package resolve maps located fragments to schema fields. Each field has
// an ordered list of typed sources (structured data first, then fallback
// fragments in fixed scan order); the first raw value that passes schema
// coercion wins and its source kind becomes the field's provenance.
package resolve

import (
	"strings"

	"github.com/fwojciec/comprof"
)

// Source yields a raw candidate value for one schema field.
type Source interface {
	Kind() comprof.SourceKind
	Raw(frags *comprof.FragmentSet) (string, bool)
}

// StructuredSource reads a raw value from the located structured block.
type StructuredSource struct {
	Get func(b *comprof.OrgBlock) string
}

func (s StructuredSource) Kind() comprof.SourceKind { return comprof.SourceStructured }

func (s StructuredSource) Raw(frags *comprof.FragmentSet) (string, bool) {
	block := frags.Structured()
	if block == nil {
		return "", false
	}
	v := s.Get(block)
	return v, v != ""
}

// FallbackSource reads a raw value from a named fallback fragment,
// optionally transformed before coercion.
type FallbackSource struct {
	Name      comprof.FragmentName
	Transform func(raw string) string
}

func (s FallbackSource) Kind() comprof.SourceKind { return comprof.SourceFallback }

func (s FallbackSource) Raw(frags *comprof.FragmentSet) (string, bool) {
	v, ok := frags.Text(s.Name)
	if !ok {
		return "", false
	}
	if s.Transform != nil {
		v = s.Transform(v)
	}
	return v, v != ""
}

// rule binds a schema field to its prioritized sources. The optional skip
// callback rejects an otherwise valid value based on fields resolved
// earlier in schema order.
type rule struct {
	field   comprof.FieldName
	sources []Source
	skip    func(rec *comprof.CompanyRecord, v comprof.FieldValue) bool
}

// titleName extracts the company name from a page title such as
// "Acme Corp | LinkedIn": the first pipe-separated segment.
func titleName(raw string) string {
	segment, _, _ := strings.Cut(raw, "|")
	return strings.TrimSpace(segment)
}

// rules lists every resolvable field in schema order. company_profile is
// not resolved from the page; the assembler sets it from the target.
var rules = []rule{
	{
		field: comprof.FieldCompanyName,
		sources: []Source{
			StructuredSource{Get: func(b *comprof.OrgBlock) string { return b.Name }},
			FallbackSource{Name: comprof.FragmentPageTitle, Transform: titleName},
		},
	},
	{
		field: comprof.FieldCompanyWebsite,
		sources: []Source{
			StructuredSource{Get: func(b *comprof.OrgBlock) string { return b.URL }},
			FallbackSource{Name: comprof.FragmentAboutWebsite},
		},
	},
	{
		field: comprof.FieldAddressType,
		sources: []Source{
			StructuredSource{Get: func(b *comprof.OrgBlock) string { return addressField(b, func(a *comprof.OrgAddress) string { return a.Type }) }},
			FallbackSource{Name: comprof.FragmentAddressType},
		},
	},
	{
		field: comprof.FieldStreet,
		sources: []Source{
			StructuredSource{Get: func(b *comprof.OrgBlock) string { return addressField(b, func(a *comprof.OrgAddress) string { return a.Street }) }},
			FallbackSource{Name: comprof.FragmentAddressStreet},
		},
	},
	{
		field: comprof.FieldLocality,
		sources: []Source{
			StructuredSource{Get: func(b *comprof.OrgBlock) string { return addressField(b, func(a *comprof.OrgAddress) string { return a.Locality }) }},
			FallbackSource{Name: comprof.FragmentAddressLocality},
		},
	},
	{
		field: comprof.FieldRegion,
		sources: []Source{
			StructuredSource{Get: func(b *comprof.OrgBlock) string { return addressField(b, func(a *comprof.OrgAddress) string { return a.Region }) }},
			FallbackSource{Name: comprof.FragmentAddressRegion},
		},
	},
	{
		field: comprof.FieldPostalCode,
		sources: []Source{
			StructuredSource{Get: func(b *comprof.OrgBlock) string { return addressField(b, func(a *comprof.OrgAddress) string { return a.PostalCode }) }},
			FallbackSource{Name: comprof.FragmentAddressPostalCode},
		},
	},
	{
		field: comprof.FieldCountry,
		sources: []Source{
			StructuredSource{Get: func(b *comprof.OrgBlock) string { return addressField(b, func(a *comprof.OrgAddress) string { return a.Country }) }},
			FallbackSource{Name: comprof.FragmentAddressCountry},
		},
	},
	{
		field: comprof.FieldEmployees,
		sources: []Source{
			StructuredSource{Get: func(b *comprof.OrgBlock) string { return b.Employees }},
			FallbackSource{Name: comprof.FragmentEmployeeCount},
		},
	},
	{
		field: comprof.FieldFollowers,
		sources: []Source{
			FallbackSource{Name: comprof.FragmentFollowerCount},
		},
	},
	{
		field: comprof.FieldLogo,
		sources: []Source{
			StructuredSource{Get: func(b *comprof.OrgBlock) string { return b.LogoURL }},
			FallbackSource{Name: comprof.FragmentMetaLogo},
			FallbackSource{Name: comprof.FragmentMetaImage},
		},
	},
	{
		field: comprof.FieldCoverImage,
		sources: []Source{
			FallbackSource{Name: comprof.FragmentMetaImage},
		},
	},
	{
		field: comprof.FieldSlogan,
		sources: []Source{
			FallbackSource{Name: comprof.FragmentMetaHeadline},
		},
		skip: func(rec *comprof.CompanyRecord, v comprof.FieldValue) bool {
			// A headline only counts as a slogan when a company name
			// resolved and the headline says something else; without a name
			// there is nothing to tell a slogan apart from.
			return rec.Name == nil || v.Text == *rec.Name
		},
	},
	{
		field: comprof.FieldTwitterDescription,
		sources: []Source{
			FallbackSource{Name: comprof.FragmentMetaDescription},
		},
	},
	{
		field: comprof.FieldAboutUs,
		sources: []Source{
			StructuredSource{Get: func(b *comprof.OrgBlock) string { return b.Description }},
			FallbackSource{Name: comprof.FragmentMetaDescription},
			FallbackSource{Name: comprof.FragmentAboutSection},
			FallbackSource{Name: comprof.FragmentMainContent},
		},
	},
	{
		field: comprof.FieldIndustry,
		sources: []Source{
			StructuredSource{Get: func(b *comprof.OrgBlock) string { return b.Industry }},
			FallbackSource{Name: comprof.FragmentAboutIndustry},
		},
	},
	{
		field: comprof.FieldSize,
		sources: []Source{
			StructuredSource{Get: func(b *comprof.OrgBlock) string { return b.SizeBracket }},
			FallbackSource{Name: comprof.FragmentAboutSize},
		},
	},
	{
		field: comprof.FieldHeadquarters,
		sources: []Source{
			StructuredSource{Get: func(b *comprof.OrgBlock) string { return b.Headquarters }},
			FallbackSource{Name: comprof.FragmentAboutHeadquarters},
		},
	},
	{
		field: comprof.FieldOrganizationType,
		sources: []Source{
			FallbackSource{Name: comprof.FragmentAboutType},
		},
	},
	{
		field: comprof.FieldFounded,
		sources: []Source{
			StructuredSource{Get: func(b *comprof.OrgBlock) string { return b.Founded }},
			FallbackSource{Name: comprof.FragmentAboutFounded},
		},
	},
	{
		field: comprof.FieldSpecialties,
		sources: []Source{
			StructuredSource{Get: func(b *comprof.OrgBlock) string { return strings.Join(b.Specialties, ", ") }},
			FallbackSource{Name: comprof.FragmentAboutSpecialties},
		},
	},
}

func addressField(b *comprof.OrgBlock, get func(*comprof.OrgAddress) string) string {
	if b.Address == nil {
		return ""
	}
	return get(b.Address)
}

// resolveField evaluates the rule's sources in priority order and returns
// the first value passing coercion. Coercion failures (type mismatch,
// out-of-bounds year, negative count) are absorbed: the source is skipped
// and the next one is tried.
func resolveField(r rule, rec *comprof.CompanyRecord, frags *comprof.FragmentSet) (comprof.FieldValue, comprof.SourceKind, bool) {
	for _, src := range r.sources {
		raw, ok := src.Raw(frags)
		if !ok {
			continue
		}
		v, err := comprof.Coerce(r.field, raw)
		if err != nil {
			continue
		}
		if r.skip != nil && r.skip(rec, v) {
			continue
		}
		return v, src.Kind(), true
	}
	return comprof.FieldValue{}, "", false
}
