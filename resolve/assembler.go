package resolve

import "github.com/fwojciec/comprof"

// Assemble builds the record for one target from its located fragments.
// company_profile is always set from the target's own locator, never from
// page content. Assembly never fails: when every optional field resolves
// absent the record still carries the profile URL with completeness 0.
//
// The completeness ratio is resolved eligible fields over the schema's
// eligible field count; provenance records which source tier supplied each
// resolved field.
func Assemble(locator string, frags *comprof.FragmentSet) (*comprof.CompanyRecord, comprof.Provenance, float64) {
	record := &comprof.CompanyRecord{ProfileURL: locator}
	provenance := make(comprof.Provenance)

	if frags != nil {
		for _, r := range rules {
			v, kind, ok := resolveField(r, record, frags)
			if !ok {
				continue
			}
			if err := record.SetField(r.field, v); err != nil {
				continue
			}
			provenance[r.field] = kind
		}
	}

	resolved := 0
	for field := range provenance {
		if spec, ok := comprof.FieldByName(field); ok && spec.Eligible {
			resolved++
		}
	}
	completeness := float64(resolved) / float64(comprof.EligibleFieldCount())

	return record, provenance, completeness
}
