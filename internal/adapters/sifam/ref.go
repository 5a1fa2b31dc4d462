package sifam

import "strings"

// ToRef maps a SKU to the supplier's reference form. Sifam reserves '/'
// inside references, which collides with URL path segmentation, so it is
// replaced by '~'. One-directional, no round-trip.
func ToRef(sku string) string {
	return strings.ReplaceAll(sku, "/", "~")
}
