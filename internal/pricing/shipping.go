package pricing

import "strings"

// ShippingMethod selects the base order variant.
type ShippingMethod int

const (
	// ShippingStandard is the default variant with no surcharge.
	ShippingStandard ShippingMethod = iota
	// ShippingExpress adds a fixed surcharge for faster delivery.
	ShippingExpress
)

// ExpressSurcharge is the flat fee added to Express orders.
const ExpressSurcharge int64 = 10

// String returns the shipping method name as persisted.
func (m ShippingMethod) String() string {
	if m == ShippingExpress {
		return "Express"
	}
	return "Standard"
}

// ParseShippingMethod converts caller input to a ShippingMethod.
// The comparison is case-insensitive. Unrecognized input falls back to
// Standard rather than failing; callers that want strict handling should
// validate upstream.
func ParseShippingMethod(raw string) ShippingMethod {
	if strings.EqualFold(strings.TrimSpace(raw), "express") {
		return ShippingExpress
	}
	return ShippingStandard
}
