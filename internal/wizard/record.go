package wizard

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/tenwick/lettings/internal/listing"
)

// ToListing builds the persisted representation from the staged form.
// Empty staging strings become nil columns; filled ones are parsed. The
// wizard itself never validates input - a parse failure here is the
// submit-time rejection surface, not a step gate.
func (f *FormData) ToListing(orgID, createdBy uuid.UUID) (*listing.Listing, []listing.Room, error) {
	rec := &listing.Listing{
		ID:             uuid.New(),
		OrganisationID: orgID,
		CreatedBy:      createdBy,
		Status:         listing.StatusDraft,

		AddressLine1: optStr(f.AddressLine1),
		AddressLine2: optStr(f.AddressLine2),
		Suburb:       optStr(f.Suburb),
		City:         optStr(f.City),
		State:        optStr(f.State),
		Postcode:     optStr(f.Postcode),
		Country:      optStr(f.Country),

		AvailableFrom: optStr(f.AvailableFrom),
		Title:         optStr(f.Title),
		Description:   optStr(f.Description),
		InternalNotes: optStr(f.InternalNotes),

		Elevator: f.Elevator,
	}

	if f.PropertyType != "" {
		t := f.PropertyType
		rec.PropertyType = &t
	}
	if f.Furnished != "" {
		v := f.Furnished
		rec.Furnished = &v
	}
	if f.PetsAllowed != "" {
		v := f.PetsAllowed
		rec.PetsAllowed = &v
	}
	if f.SmokersAllowed != "" {
		v := f.SmokersAllowed
		rec.SmokersAllowed = &v
	}

	var err error
	if rec.Bedrooms, err = optInt("bedrooms", f.Bedrooms); err != nil {
		return nil, nil, err
	}
	if rec.Bathrooms, err = optInt("bathrooms", f.Bathrooms); err != nil {
		return nil, nil, err
	}
	if rec.ParkingSpaces, err = optInt("parking_spaces", f.ParkingSpaces); err != nil {
		return nil, nil, err
	}
	if rec.Floors, err = optInt("floors", f.Floors); err != nil {
		return nil, nil, err
	}
	if rec.LeaseMinMonths, err = optInt("lease_min_months", f.LeaseMinMonths); err != nil {
		return nil, nil, err
	}
	if rec.LeaseMaxMonths, err = optInt("lease_max_months", f.LeaseMaxMonths); err != nil {
		return nil, nil, err
	}
	if rec.MaxOccupants, err = optInt("max_occupants", f.MaxOccupants); err != nil {
		return nil, nil, err
	}

	if rec.FloorAreaSqm, err = optFloat("floor_area_sqm", f.FloorAreaSqm); err != nil {
		return nil, nil, err
	}
	if rec.LandAreaSqm, err = optFloat("land_area_sqm", f.LandAreaSqm); err != nil {
		return nil, nil, err
	}
	if rec.RentWeekly, err = optFloat("rent_weekly", f.RentWeekly); err != nil {
		return nil, nil, err
	}
	if rec.RentMonthly, err = optFloat("rent_monthly", f.RentMonthly); err != nil {
		return nil, nil, err
	}
	if rec.Bond, err = optFloat("bond", f.Bond); err != nil {
		return nil, nil, err
	}

	if len(f.Amenities) > 0 {
		rec.Amenities = make(map[listing.AmenityKey]bool, len(f.Amenities))
		for k, v := range f.Amenities {
			rec.Amenities[k] = v
		}
	}

	var rooms []listing.Room
	for _, r := range f.Rooms {
		rooms = append(rooms, listing.Room{
			ID:        uuid.New(),
			ListingID: rec.ID,
			RoomType:  r.RoomType,
			Name:      r.Name,
			WidthM:    r.WidthM,
			LengthM:   r.LengthM,
			Notes:     r.Notes,
		})
	}

	return rec, rooms, nil
}

func optStr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func optInt(field, s string) (*int, error) {
	if s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, fmt.Errorf("parse %s %q: %w", field, s, err)
	}
	return &n, nil
}

func optFloat(field, s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("parse %s %q: %w", field, s, err)
	}
	return &v, nil
}
