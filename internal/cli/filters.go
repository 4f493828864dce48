package cli

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/tenwick/lettings/internal/criteria"
	"github.com/tenwick/lettings/internal/listing"
)

// filterFlags holds the filter dimensions shared by count and search.
type filterFlags struct {
	org       string
	suburbs   []string
	types     []string
	bedrooms  []int
	amenities []string
	elevator  bool
}

// register attaches the filter flags to a command.
func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.org, "org", "", "organisation id (required)")
	cmd.Flags().StringSliceVar(&f.suburbs, "suburb", nil, "filter by suburb (repeatable)")
	cmd.Flags().StringSliceVar(&f.types, "type", nil, "filter by property type (repeatable)")
	cmd.Flags().IntSliceVar(&f.bedrooms, "bedrooms", nil, "filter by bedroom count; 5 means 5 or more (repeatable)")
	cmd.Flags().StringSliceVar(&f.amenities, "amenity", nil, "require an amenity (repeatable)")
	cmd.Flags().BoolVar(&f.elevator, "elevator", false, "require an elevator")
	cmd.MarkFlagRequired("org")
}

// parse validates the flags and builds the organisation ID and criteria.
func (f *filterFlags) parse() (uuid.UUID, criteria.Criteria, error) {
	orgID, err := uuid.Parse(f.org)
	if err != nil {
		return uuid.Nil, criteria.Criteria{}, fmt.Errorf("invalid --org: %w", err)
	}

	var c criteria.Criteria
	for _, s := range f.suburbs {
		c = c.ToggleSuburb(s)
	}
	for _, t := range f.types {
		pt := listing.PropertyType(t)
		if listing.PropertyTypeLabels[pt] == "" {
			return uuid.Nil, criteria.Criteria{}, fmt.Errorf("unknown property type %q", t)
		}
		c = c.TogglePropertyType(pt)
	}
	for _, b := range f.bedrooms {
		if b < 1 || b > listing.BedroomSentinel {
			return uuid.Nil, criteria.Criteria{}, fmt.Errorf("bedrooms must be 1-%d, got %d", listing.BedroomSentinel, b)
		}
		c = c.ToggleBedroom(b)
	}
	for _, a := range f.amenities {
		key := listing.AmenityKey(a)
		if !listing.ValidAmenity(key) {
			return uuid.Nil, criteria.Criteria{}, fmt.Errorf("unknown amenity %q", a)
		}
		c = c.ToggleAmenity(key)
	}
	if f.elevator {
		c = c.WithElevatorRequired(true)
	}

	return orgID, c, nil
}
