package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/comprof"
)

// aboutSelectors are the containers checked for the visible About section,
// in priority order.
var aboutSelectors = []string{
	`[data-test-id="about-us"]`,
	"section.about",
	"#about",
	"section.core-section-container--about",
}

// detailLabels maps About-pane dt labels (lowercased) to fragment names.
var detailLabels = map[string]comprof.FragmentName{
	"industry":     comprof.FragmentAboutIndustry,
	"company size": comprof.FragmentAboutSize,
	"type":         comprof.FragmentAboutType,
	"founded":      comprof.FragmentAboutFounded,
	"headquarters": comprof.FragmentAboutHeadquarters,
	"specialties":  comprof.FragmentAboutSpecialties,
	"website":      comprof.FragmentAboutWebsite,
}

// locateFallbacks collects the fixed fallback regions independently of the
// structured block: header metas, About section and details list, address
// microformat, and visible counters. Missing regions are skipped silently.
func locateFallbacks(doc *goquery.Document, frags *comprof.FragmentSet) {
	if title := clean(doc.Find("title").First().Text()); title != "" {
		frags.SetText(comprof.FragmentPageTitle, title)
	}

	setMeta(doc, frags, comprof.FragmentMetaDescription, "description", "og:description")
	setMeta(doc, frags, comprof.FragmentMetaHeadline, "og:title", "twitter:title")
	setMeta(doc, frags, comprof.FragmentMetaImage, "og:image", "twitter:image")
	setMeta(doc, frags, comprof.FragmentMetaLogo, "og:logo")

	locateAbout(doc, frags)
	locateAddress(doc, frags)
	locateCounters(doc, frags)
}

// setMeta records the first meta tag matching any of the keys by name or
// property attribute.
func setMeta(doc *goquery.Document, frags *comprof.FragmentSet, name comprof.FragmentName, keys ...string) {
	for _, key := range keys {
		sel := doc.Find(`meta[name="` + key + `"], meta[property="` + key + `"]`).First()
		if content, ok := sel.Attr("content"); ok {
			if v := clean(content); v != "" {
				frags.SetText(name, v)
				return
			}
		}
	}
}

// locateAbout records the About section text and its details list. Details
// are dt/dd pairs keyed by an exact-ASCII case-insensitive label match.
func locateAbout(doc *goquery.Document, frags *comprof.FragmentSet) {
	for _, selector := range aboutSelectors {
		section := doc.Find(selector).First()
		if section.Length() == 0 {
			continue
		}
		// Paragraph text only; the details list is captured separately.
		if text := clean(section.Find("p").Text()); text != "" {
			frags.SetText(comprof.FragmentAboutSection, text)
		} else if text := clean(section.Text()); text != "" {
			frags.SetText(comprof.FragmentAboutSection, text)
		}
		break
	}

	doc.Find("dl dt").Each(func(_ int, dt *goquery.Selection) {
		label := strings.ToLower(clean(dt.Text()))
		name, ok := detailLabels[label]
		if !ok {
			return
		}
		dd := dt.NextFiltered("dd")
		if dd.Length() == 0 {
			return
		}
		frags.SetText(name, clean(dd.Text()))
	})
}

// microdataProps maps schema.org address itemprops to fragment names.
var microdataProps = map[string]comprof.FragmentName{
	"streetAddress":   comprof.FragmentAddressStreet,
	"addressLocality": comprof.FragmentAddressLocality,
	"addressRegion":   comprof.FragmentAddressRegion,
	"postalCode":      comprof.FragmentAddressPostalCode,
	"addressCountry":  comprof.FragmentAddressCountry,
}

// adrClasses maps legacy adr microformat classes to fragment names.
var adrClasses = map[string]comprof.FragmentName{
	"street-address": comprof.FragmentAddressStreet,
	"locality":       comprof.FragmentAddressLocality,
	"region":         comprof.FragmentAddressRegion,
	"postal-code":    comprof.FragmentAddressPostalCode,
	"country-name":   comprof.FragmentAddressCountry,
}

// locateAddress records address sub-fields from a schema.org microdata
// container, falling back to the legacy adr class microformat.
func locateAddress(doc *goquery.Document, frags *comprof.FragmentSet) {
	container := doc.Find(`[itemprop="address"]`).First()
	if container.Length() > 0 {
		for prop, name := range microdataProps {
			sel := container.Find(`[itemprop="` + prop + `"]`).First()
			if sel.Length() == 0 {
				continue
			}
			v, ok := sel.Attr("content")
			if !ok {
				v = sel.Text()
			}
			frags.SetText(name, clean(v))
		}
		if itemtype, ok := container.Attr("itemtype"); ok {
			frags.SetText(comprof.FragmentAddressType, lastPathSegment(itemtype))
		}
		return
	}

	adr := doc.Find(".adr").First()
	if adr.Length() == 0 {
		return
	}
	for class, name := range adrClasses {
		frags.SetText(name, clean(adr.Find("."+class).First().Text()))
	}
	frags.SetText(comprof.FragmentAddressType, "PostalAddress")
}

// locateCounters scans visible text for tokens preceding a
// "followers"/"employees" keyword, e.g. "1,234 followers" or
// "10,001+ employees". Prose mentions of the keywords ("we value our
// employees") are skipped: a candidate only counts when it parses as a
// count, and the scan keeps going until one does.
func locateCounters(doc *goquery.Document, frags *comprof.FragmentSet) {
	tokens := strings.Fields(doc.Find("body").Text())
	for i, token := range tokens {
		if i == 0 {
			continue
		}
		low := strings.ToLower(token)
		switch {
		case strings.Contains(low, "followers"):
			if isCount(tokens[i-1]) {
				frags.SetText(comprof.FragmentFollowerCount, tokens[i-1])
			}
		case strings.Contains(low, "employees"):
			if isCount(tokens[i-1]) {
				frags.SetText(comprof.FragmentEmployeeCount, tokens[i-1])
			}
		}
	}
}

// isCount reports whether a raw token would survive count coercion.
func isCount(token string) bool {
	_, err := comprof.Coerce(comprof.FieldEmployees, token)
	return err == nil
}

func clean(s string) string {
	return comprof.CleanText(s)
}

// lastPathSegment extracts the type name from a schema.org itemtype URL.
func lastPathSegment(u string) string {
	u = strings.TrimRight(strings.TrimSpace(u), "/")
	if i := strings.LastIndex(u, "/"); i >= 0 {
		return u[i+1:]
	}
	return u
}
