// Package document renders the printable quote/work-order and assembles the
// final download by appending the warranty policy pages.
package document

import (
	"fmt"
	"strings"
)

// Filename derives the deterministic download name from the order folio, the
// vehicle model and the customer name. Downstream file handling relies on
// this exact derivation.
func Filename(folio int64, vehicleModel, customerName string) string {
	sanitize := func(s string) string {
		s = strings.TrimSpace(s)
		s = strings.ReplaceAll(s, " ", "_")
		return strings.ToUpper(s)
	}
	return fmt.Sprintf("ORDEN_%d_%s_%s.pdf", folio, sanitize(vehicleModel), sanitize(customerName))
}
