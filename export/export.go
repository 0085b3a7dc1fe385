// Package export writes run results to output streams. Successful targets
// are written as full records; failed targets as skeleton rows carrying
// the profile URL and the terminal error, so a partially failed run still
// yields one row per input.
package export

import (
	"strconv"
	"strings"

	"github.com/fwojciec/comprof"
)

// ForFormat returns the exporter for a format name (json, csv, xml).
// Unknown formats are rejected with EINVALID.
func ForFormat(name string) (comprof.Exporter, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "json":
		return NewJSONExporter(), nil
	case "csv":
		return NewCSVExporter(), nil
	case "xml":
		return NewXMLExporter(), nil
	}
	return nil, comprof.Errorf(comprof.EINVALID, "unknown export format %q", name)
}

// Formats lists the supported format names.
func Formats() []string {
	return []string{"json", "csv", "xml"}
}

// fieldString renders a record field as text: counts in base 10, lists
// joined with ", ". The second return is false when the field is absent.
func fieldString(record *comprof.CompanyRecord, name comprof.FieldName) (string, bool) {
	v, ok := record.Field(name)
	if !ok {
		return "", false
	}
	switch v.Kind {
	case comprof.TypeCount, comprof.TypeYear:
		return strconv.Itoa(v.Count), true
	case comprof.TypeTextList:
		return strings.Join(v.List, ", "), true
	}
	return v.Text, true
}
