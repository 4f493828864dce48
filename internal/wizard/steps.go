package wizard

// Search wizard steps.
const (
	StepSuburb       StepID = "suburb"
	StepPropertyType StepID = "property_type"
	StepBedrooms     StepID = "bedrooms"
	StepAmenities    StepID = "amenities"
)

// Asset (listing create/edit) wizard steps.
const (
	StepMedia       StepID = "media"
	StepLocation    StepID = "location"
	StepRooms       StepID = "rooms"
	StepRentalTerms StepID = "rental_terms"
	StepRules       StepID = "rules"
	StepReview      StepID = "review"
)

// SearchSteps is the fixed step order of the guided search wizard.
var SearchSteps = []StepID{StepSuburb, StepPropertyType, StepBedrooms, StepAmenities}

// AssetSteps is the fixed step order of the listing create/edit wizard.
var AssetSteps = []StepID{
	StepMedia, StepLocation, StepRooms, StepRentalTerms,
	StepAmenities, StepRules, StepReview,
}

// StepLabels maps step IDs to display labels.
var StepLabels = map[StepID]string{
	StepSuburb:       "Location",
	StepPropertyType: "Type",
	StepBedrooms:     "Bedrooms",
	StepAmenities:    "Amenities",
	StepMedia:        "Media",
	StepLocation:     "Location",
	StepRooms:        "Rooms",
	StepRentalTerms:  "Rental Terms",
	StepRules:        "Rules",
	StepReview:       "Review",
}
