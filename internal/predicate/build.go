package predicate

import (
	"slices"

	"github.com/google/uuid"

	"github.com/tenwick/lettings/internal/criteria"
	"github.com/tenwick/lettings/internal/listing"
)

// amenityColumns maps every amenity key to its listing column. The table
// is explicit so the schema stays statically checkable; column names are
// never assembled from strings at runtime.
var amenityColumns = map[listing.AmenityKey]string{
	listing.AmenityAirConditioning:  "amenity_air_conditioning",
	listing.AmenityHeating:          "amenity_heating",
	listing.AmenityDishwasher:       "amenity_dishwasher",
	listing.AmenityBuiltInWardrobes: "amenity_built_in_wardrobes",
	listing.AmenityFloorboards:      "amenity_floorboards",
	listing.AmenityInternalLaundry:  "amenity_internal_laundry",
	listing.AmenityBath:             "amenity_bath",
	listing.AmenityEnsuite:          "amenity_ensuite",
	listing.AmenityPool:             "amenity_pool",
	listing.AmenityGym:              "amenity_gym",
	listing.AmenityBalcony:          "amenity_balcony",
	listing.AmenityCourtyard:        "amenity_courtyard",
	listing.AmenityGarden:           "amenity_garden",
	listing.AmenityOutdoorArea:      "amenity_outdoor_area",
	listing.AmenitySecureParking:    "amenity_secure_parking",
	listing.AmenityGarage:           "amenity_garage",
	listing.AmenityCarport:          "amenity_carport",
	listing.AmenityAlarmSystem:      "amenity_alarm_system",
	listing.AmenityIntercom:         "amenity_intercom",
	listing.AmenityNBN:              "amenity_nbn",
	listing.AmenitySolarPanels:      "amenity_solar_panels",
	listing.AmenityWaterTank:        "amenity_water_tank",
}

// AmenityColumn returns the listing column for an amenity key.
// The second return is false for keys outside the catalog.
func AmenityColumn(key listing.AmenityKey) (string, bool) {
	col, ok := amenityColumns[key]
	return col, ok
}

// FromCriteria translates search criteria into the predicate tree used by
// both the count query and the search execution.
//
// Rules, applied in order and conjoined:
//  1. Tenant scoping (always, regardless of criteria).
//  2. Suburb membership, when any suburbs are selected.
//  3. Property-type membership, when any types are selected.
//  4. elevator = true, only when the requirement is set. False never
//     means "must not have an elevator".
//  5. Bedroom buckets: the sentinel expands to bedrooms >= 5; mixed with
//     exact counts it becomes (bedrooms IN exact OR bedrooms >= 5).
//  6. One equality clause per selected amenity, all conjoined.
//
// Selections within a dimension are sorted before emission so identical
// criteria always compile to identical SQL.
func FromCriteria(orgID uuid.UUID, c criteria.Criteria) Predicate {
	preds := []Predicate{
		Equals{Field: "organisation_id", Value: orgID.String()},
	}

	if len(c.Suburbs) > 0 {
		suburbs := slices.Clone(c.Suburbs)
		slices.Sort(suburbs)
		preds = append(preds, In{Field: "suburb", Values: toAny(suburbs)})
	}

	if len(c.PropertyTypes) > 0 {
		types := slices.Clone(c.PropertyTypes)
		slices.Sort(types)
		values := make([]any, len(types))
		for i, t := range types {
			values[i] = string(t)
		}
		preds = append(preds, In{Field: "property_type", Values: values})
	}

	if c.ElevatorRequired {
		preds = append(preds, Equals{Field: "elevator", Value: true})
	}

	if len(c.Bedrooms) > 0 {
		preds = append(preds, bedroomPredicate(c.Bedrooms))
	}

	if len(c.Amenities) > 0 {
		keys := slices.Clone(c.Amenities)
		slices.Sort(keys)
		for _, key := range keys {
			col, ok := amenityColumns[key]
			if !ok {
				continue
			}
			preds = append(preds, Equals{Field: col, Value: true})
		}
	}

	return And{Predicates: preds}
}

// bedroomPredicate applies the bucket rule for the bedrooms dimension.
func bedroomPredicate(buckets []int) Predicate {
	var exact []int
	sentinel := false
	for _, b := range buckets {
		if b >= listing.BedroomSentinel {
			sentinel = true
		} else {
			exact = append(exact, b)
		}
	}
	slices.Sort(exact)

	switch {
	case sentinel && len(exact) > 0:
		return Or{Predicates: []Predicate{
			In{Field: "bedrooms", Values: toAnyInts(exact)},
			GTE{Field: "bedrooms", Value: int64(listing.BedroomSentinel)},
		}}
	case sentinel:
		return GTE{Field: "bedrooms", Value: int64(listing.BedroomSentinel)}
	default:
		return In{Field: "bedrooms", Values: toAnyInts(exact)}
	}
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

func toAnyInts(ns []int) []any {
	out := make([]any, len(ns))
	for i, n := range ns {
		out[i] = int64(n)
	}
	return out
}
