// Package criteria holds the search filter selections and the pure toggle
// operations that mutate them.
//
// Each multi-select dimension behaves as a mathematical set: toggling a
// value adds it when absent and removes it when present, duplicates never
// occur, and no ordering is guaranteed. Toggle operations return a new
// Criteria value; the receiver is never modified, so callers can hold on
// to earlier snapshots (the count oracle relies on this when comparing a
// completed request against the latest criteria generation).
//
// No validation happens here: the UI only ever offers values from the
// closed enum catalogs, so any input is accepted as-is.
package criteria

import (
	"slices"

	"github.com/tenwick/lettings/internal/listing"
)

// Criteria is the set of active search filter selections. The zero value
// means "no filtering": a count against it must equal the tenant's total
// listing count.
type Criteria struct {
	Suburbs          []string
	PropertyTypes    []listing.PropertyType
	Bedrooms         []int
	Amenities        []listing.AmenityKey
	ElevatorRequired bool
}

// Empty reports whether no filter is active in any dimension.
func (c Criteria) Empty() bool {
	return len(c.Suburbs) == 0 &&
		len(c.PropertyTypes) == 0 &&
		len(c.Bedrooms) == 0 &&
		len(c.Amenities) == 0 &&
		!c.ElevatorRequired
}

// ToggleSuburb returns a copy with the suburb added if absent, removed if
// present.
func (c Criteria) ToggleSuburb(suburb string) Criteria {
	c.Suburbs = toggle(c.Suburbs, suburb)
	return c
}

// TogglePropertyType returns a copy with the type added or removed.
func (c Criteria) TogglePropertyType(t listing.PropertyType) Criteria {
	c.PropertyTypes = toggle(c.PropertyTypes, t)
	return c
}

// ToggleBedroom returns a copy with the bedroom bucket added or removed.
// The value listing.BedroomSentinel stands for "5 or more".
func (c Criteria) ToggleBedroom(bedrooms int) Criteria {
	c.Bedrooms = toggle(c.Bedrooms, bedrooms)
	return c
}

// ToggleAmenity returns a copy with the amenity flag added or removed.
// Selected amenities are requirements: a match must satisfy all of them.
func (c Criteria) ToggleAmenity(key listing.AmenityKey) Criteria {
	c.Amenities = toggle(c.Amenities, key)
	return c
}

// WithElevatorRequired returns a copy with the elevator requirement set.
func (c Criteria) WithElevatorRequired(required bool) Criteria {
	c.ElevatorRequired = required
	return c
}

// toggle removes v from s if present, otherwise appends it. The input
// slice is never mutated.
func toggle[T comparable](s []T, v T) []T {
	if i := slices.Index(s, v); i >= 0 {
		out := make([]T, 0, len(s)-1)
		out = append(out, s[:i]...)
		return append(out, s[i+1:]...)
	}
	out := make([]T, len(s), len(s)+1)
	copy(out, s)
	return append(out, v)
}
