package wizard

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/tenwick/lettings/internal/listing"
)

// ListingLoader supplies the persisted state an edit-mode wizard starts
// from. Implemented by the sqlite store.
type ListingLoader interface {
	GetListing(ctx context.Context, id uuid.UUID) (*listing.Listing, error)
	ListingRooms(ctx context.Context, id uuid.UUID) ([]listing.Room, error)
	ListingImages(ctx context.Context, id uuid.UUID) ([]listing.Image, error)
}

// LoadForEdit fetches a persisted listing and transforms it into form
// shape: numeric fields become their string staging representation so an
// empty input stays distinguishable from zero, and persisted images are
// attached as ExistingImages.
//
// The load happens once, before the wizard accepts any patch, so it can
// never race with user edits.
func LoadForEdit(ctx context.Context, loader ListingLoader, id uuid.UUID) (*FormData, error) {
	rec, err := loader.GetListing(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load listing %s: %w", id, err)
	}
	if rec == nil {
		return nil, fmt.Errorf("load listing %s: not found", id)
	}

	rooms, err := loader.ListingRooms(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load rooms for %s: %w", id, err)
	}
	images, err := loader.ListingImages(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load images for %s: %w", id, err)
	}

	f := &FormData{
		AddressLine1: deref(rec.AddressLine1),
		AddressLine2: deref(rec.AddressLine2),
		Suburb:       deref(rec.Suburb),
		City:         deref(rec.City),
		State:        deref(rec.State),
		Postcode:     deref(rec.Postcode),
		Country:      deref(rec.Country),

		Bedrooms:      intField(rec.Bedrooms),
		Bathrooms:     intField(rec.Bathrooms),
		ParkingSpaces: intField(rec.ParkingSpaces),
		FloorAreaSqm:  floatField(rec.FloorAreaSqm),
		LandAreaSqm:   floatField(rec.LandAreaSqm),
		Floors:        intField(rec.Floors),

		PropertyType: deref(rec.PropertyType),
		Furnished:    deref(rec.Furnished),

		RentWeekly:     floatField(rec.RentWeekly),
		RentMonthly:    floatField(rec.RentMonthly),
		Bond:           floatField(rec.Bond),
		AvailableFrom:  deref(rec.AvailableFrom),
		LeaseMinMonths: intField(rec.LeaseMinMonths),
		LeaseMaxMonths: intField(rec.LeaseMaxMonths),

		MaxOccupants:   intField(rec.MaxOccupants),
		PetsAllowed:    deref(rec.PetsAllowed),
		SmokersAllowed: deref(rec.SmokersAllowed),

		Title:         deref(rec.Title),
		Description:   deref(rec.Description),
		InternalNotes: deref(rec.InternalNotes),

		Elevator: rec.Elevator,
	}

	if len(rec.Amenities) > 0 {
		f.Amenities = make(map[listing.AmenityKey]bool, len(rec.Amenities))
		for k, v := range rec.Amenities {
			f.Amenities[k] = v
		}
	}

	for _, r := range rooms {
		f.Rooms = append(f.Rooms, Room{
			RoomType: r.RoomType,
			Name:     r.Name,
			WidthM:   r.WidthM,
			LengthM:  r.LengthM,
			Notes:    r.Notes,
		})
	}

	for _, img := range images {
		f.ExistingImages = append(f.ExistingImages, ExistingImage{
			ID:           img.ID,
			StoragePath:  img.StoragePath,
			DisplayOrder: img.DisplayOrder,
			IsPrimary:    img.IsPrimary,
			Caption:      img.Caption,
		})
	}
	f.normalizePrimary()

	return f, nil
}

func deref[T ~string](p *T) T {
	if p == nil {
		return ""
	}
	return *p
}

func intField(p *int) string {
	if p == nil {
		return ""
	}
	return strconv.Itoa(*p)
}

func floatField(p *float64) string {
	if p == nil {
		return ""
	}
	return strconv.FormatFloat(*p, 'f', -1, 64)
}
