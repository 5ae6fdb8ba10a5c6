package entity

import "strings"

// Address is a postal address value object embedded in orders as both
// the shipping and the billing destination. It carries no identity of
// its own; two addresses with the same fields are interchangeable.
type Address struct {
	StreetAddress string
	City          string
	State         string
	PostalCode    string
	Country       string
	Landmark      string
	ContactNumber string
	RecipientName string
}

// IsZero reports whether no field of the address is set.
func (a Address) IsZero() bool {
	return a == Address{}
}

// String renders the address as a single comma-separated line, skipping empty components.
func (a Address) String() string {
	parts := make([]string, 0, 6)
	for _, p := range []string{a.StreetAddress, a.Landmark, a.City, a.State, a.PostalCode, a.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}

	return strings.Join(parts, ", ")
}
