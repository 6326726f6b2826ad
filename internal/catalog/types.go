// Package catalog integrates the collaborator catalog API that provides the
// reference lists used while filling an order: inspection elements, security
// points and order states.
package catalog

// Item is the normalized shape of one catalog entry regardless of the payload
// variant the upstream returns.
type Item struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
	Active      bool   `json:"active"`
}

// Kind identifies one of the catalog collections served by the upstream.
type Kind string

const (
	KindInspectionElements Kind = "inspection-elements"
	KindSecurityPoints     Kind = "security-points"
	KindOrderStates        Kind = "order-states"
)

// Valid reports whether the kind maps to a known upstream collection.
func (k Kind) Valid() bool {
	switch k {
	case KindInspectionElements, KindSecurityPoints, KindOrderStates:
		return true
	}
	return false
}

// Path returns the upstream resource path for the collection.
func (k Kind) Path() string {
	return "/catalogs/" + string(k)
}
