package goquery

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/comprof"
	"github.com/ysmood/gson"
)

// locateStructured scans script[type="application/ld+json"] nodes in
// document order and returns the first block whose @type matches an
// Organization entity. Top-level arrays are tolerated; parse errors skip
// the block.
func locateStructured(doc *goquery.Document) *comprof.OrgBlock {
	var block *comprof.OrgBlock

	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		raw := strings.TrimSpace(sel.Text())
		if raw == "" || !json.Valid([]byte(raw)) {
			return true
		}

		node := gson.NewFrom(raw)
		for _, candidate := range entities(node) {
			if b := orgBlockFrom(candidate); b != nil {
				block = b
				return false
			}
		}
		return true
	})

	return block
}

// entities flattens a JSON-LD document into its candidate entity nodes.
func entities(node gson.JSON) []gson.JSON {
	if arr, ok := node.Val().([]interface{}); ok {
		out := make([]gson.JSON, 0, len(arr))
		for _, v := range arr {
			out = append(out, gson.New(v))
		}
		return out
	}
	return []gson.JSON{node}
}

// orgBlockFrom builds an OrgBlock from a JSON-LD node, or returns nil when
// the node does not describe an Organization entity. Field access is
// lenient: any value of unexpected shape is treated as absent.
func orgBlockFrom(node gson.JSON) *comprof.OrgBlock {
	if _, ok := node.Val().(map[string]interface{}); !ok {
		return nil
	}
	typ := strings.ToLower(str(node.Get("@type")))
	if !isOrganizationType(typ) {
		return nil
	}

	b := &comprof.OrgBlock{
		Name:         str(node.Get("name")),
		URL:          str(node.Get("url")),
		Description:  str(node.Get("description")),
		Industry:     str(node.Get("industry")),
		SizeBracket:  firstStr(node, "employeesRange", "employeeRange"),
		LogoURL:      stringOrURL(node.Get("logo")),
		Employees:    firstStr(node, "numberOfEmployees", "employees"),
		Founded:      firstStr(node, "foundingDate", "foundingYear"),
		Headquarters: headquartersFrom(node),
		Specialties:  specialtiesFrom(node),
	}

	if addr := addressFrom(node.Get("address")); addr != nil {
		b.Address = addr
	}

	return b
}

func isOrganizationType(typ string) bool {
	return strings.Contains(typ, "organization") ||
		strings.Contains(typ, "corp") ||
		strings.Contains(typ, "company")
}

// addressFrom reads a JSON-LD address node, which may be an object or a
// list of objects (first element wins). addressCountry may be a string or
// a Country object with a name.
func addressFrom(node gson.JSON) *comprof.OrgAddress {
	if arr, ok := node.Val().([]interface{}); ok {
		if len(arr) == 0 {
			return nil
		}
		node = gson.New(arr[0])
	}
	if _, ok := node.Val().(map[string]interface{}); !ok {
		return nil
	}

	addr := &comprof.OrgAddress{
		Type:       str(node.Get("@type")),
		Street:     str(node.Get("streetAddress")),
		Locality:   str(node.Get("addressLocality")),
		Region:     str(node.Get("addressRegion")),
		PostalCode: str(node.Get("postalCode")),
		Country:    stringOrName(node.Get("addressCountry")),
	}
	if *addr == (comprof.OrgAddress{}) {
		return nil
	}
	return addr
}

// headquartersFrom reads foundingLocation/location, which may be a plain
// string or a Place object.
func headquartersFrom(node gson.JSON) string {
	for _, key := range []string{"foundingLocation", "location"} {
		hq := node.Get(key)
		switch hq.Val().(type) {
		case string:
			return str(hq)
		case map[string]interface{}:
			for _, sub := range []string{"name", "addressLocality", "addressRegion"} {
				if v := str(hq.Get(sub)); v != "" {
					return v
				}
			}
		}
	}
	return ""
}

// specialtiesFrom reads knowsAbout/specialty/specialties, which may be a
// list of strings or a single delimited string.
func specialtiesFrom(node gson.JSON) []string {
	for _, key := range []string{"knowsAbout", "specialty", "specialties"} {
		v := node.Get(key)
		switch val := v.Val().(type) {
		case []interface{}:
			var out []string
			for _, item := range val {
				if s := str(gson.New(item)); s != "" {
					out = append(out, s)
				}
			}
			if len(out) > 0 {
				return out
			}
		case string:
			if s := strings.TrimSpace(val); s != "" {
				return []string{s}
			}
		}
	}
	return nil
}

// stringOrURL reads a value that may be a plain URL string or an
// ImageObject with a url member.
func stringOrURL(node gson.JSON) string {
	switch node.Val().(type) {
	case string:
		return str(node)
	case map[string]interface{}:
		return str(node.Get("url"))
	}
	return ""
}

// stringOrName reads a value that may be a plain string or an object with
// a name member.
func stringOrName(node gson.JSON) string {
	switch node.Val().(type) {
	case string:
		return str(node)
	case map[string]interface{}:
		return str(node.Get("name"))
	}
	return ""
}

// str returns the node's string value, or "" for any other shape.
func str(node gson.JSON) string {
	if s, ok := node.Val().(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

// scalar returns the node's value rendered as a string; numbers are
// formatted without an exponent so count and year coercion can parse them.
func scalar(node gson.JSON) string {
	switch v := node.Val().(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return ""
}

// firstStr returns the first non-empty scalar among the node's keys.
func firstStr(node gson.JSON, keys ...string) string {
	for _, key := range keys {
		if s := scalar(node.Get(key)); s != "" {
			return s
		}
	}
	return ""
}
