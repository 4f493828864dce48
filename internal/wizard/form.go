package wizard

import (
	"slices"

	"github.com/google/uuid"

	"github.com/tenwick/lettings/internal/listing"
)

// LocalImage is an image added during the wizard, staged locally until
// submit uploads it.
type LocalImage struct {
	ID           uuid.UUID
	FileName     string
	SourcePath   string
	DisplayOrder int
	IsPrimary    bool
	Caption      string
}

// ExistingImage is a persisted image loaded in edit mode. Deletion is
// staged via MarkedForDeletion and applied at submit time.
type ExistingImage struct {
	ID                uuid.UUID
	StoragePath       string
	DisplayOrder      int
	IsPrimary         bool
	Caption           string
	MarkedForDeletion bool
}

// Room is a room entry staged in the form.
type Room struct {
	RoomType listing.RoomType
	Name     string
	WidthM   *float64
	LengthM  *float64
	Notes    string
}

// FormData is the flat, draft-tolerant aggregate of all listing fields
// across wizard steps.
//
// Numeric inputs are staged as strings so the empty string can represent
// "unset" distinctly from zero. Enum fields use "" as unset. Collection
// fields (Amenities, Rooms, Images, ExistingImages) are replaced
// wholesale by patches, never deep-merged.
type FormData struct {
	AddressLine1 string
	AddressLine2 string
	Suburb       string
	City         string
	State        string
	Postcode     string
	Country      string

	Bedrooms      string
	Bathrooms     string
	ParkingSpaces string
	FloorAreaSqm  string
	LandAreaSqm   string
	Floors        string

	PropertyType listing.PropertyType
	Furnished    listing.FurnishedOption

	RentWeekly     string
	RentMonthly    string
	Bond           string
	AvailableFrom  string
	LeaseMinMonths string
	LeaseMaxMonths string

	MaxOccupants   string
	PetsAllowed    listing.YesNoUnspecified
	SmokersAllowed listing.YesNoUnspecified

	Title         string
	Description   string
	InternalNotes string

	Elevator bool

	Amenities map[listing.AmenityKey]bool
	Rooms     []Room

	// Images are new uploads; ExistingImages only populate in edit mode.
	// Across both, at most one non-deleted image has IsPrimary set, and
	// exactly one whenever any non-deleted image exists.
	Images         []LocalImage
	ExistingImages []ExistingImage
}

// Patch is a partial update to FormData. Nil fields are untouched;
// non-nil scalar fields are shallow-replaced; non-nil collection fields
// replace the whole collection (callers read-modify-write collections).
type Patch struct {
	AddressLine1 *string
	AddressLine2 *string
	Suburb       *string
	City         *string
	State        *string
	Postcode     *string
	Country      *string

	Bedrooms      *string
	Bathrooms     *string
	ParkingSpaces *string
	FloorAreaSqm  *string
	LandAreaSqm   *string
	Floors        *string

	PropertyType *listing.PropertyType
	Furnished    *listing.FurnishedOption

	RentWeekly     *string
	RentMonthly    *string
	Bond           *string
	AvailableFrom  *string
	LeaseMinMonths *string
	LeaseMaxMonths *string

	MaxOccupants   *string
	PetsAllowed    *listing.YesNoUnspecified
	SmokersAllowed *listing.YesNoUnspecified

	Title         *string
	Description   *string
	InternalNotes *string

	Elevator *bool

	Amenities      *map[listing.AmenityKey]bool
	Rooms          *[]Room
	Images         *[]LocalImage
	ExistingImages *[]ExistingImage
}

// ApplyPatch merges a partial update into the form. Scalars present in
// the patch are replaced; collections are swapped wholesale. When either
// image collection is replaced, the primary-image invariant is
// re-established afterwards.
func (f *FormData) ApplyPatch(p Patch) {
	setIf(&f.AddressLine1, p.AddressLine1)
	setIf(&f.AddressLine2, p.AddressLine2)
	setIf(&f.Suburb, p.Suburb)
	setIf(&f.City, p.City)
	setIf(&f.State, p.State)
	setIf(&f.Postcode, p.Postcode)
	setIf(&f.Country, p.Country)

	setIf(&f.Bedrooms, p.Bedrooms)
	setIf(&f.Bathrooms, p.Bathrooms)
	setIf(&f.ParkingSpaces, p.ParkingSpaces)
	setIf(&f.FloorAreaSqm, p.FloorAreaSqm)
	setIf(&f.LandAreaSqm, p.LandAreaSqm)
	setIf(&f.Floors, p.Floors)

	setIf(&f.PropertyType, p.PropertyType)
	setIf(&f.Furnished, p.Furnished)

	setIf(&f.RentWeekly, p.RentWeekly)
	setIf(&f.RentMonthly, p.RentMonthly)
	setIf(&f.Bond, p.Bond)
	setIf(&f.AvailableFrom, p.AvailableFrom)
	setIf(&f.LeaseMinMonths, p.LeaseMinMonths)
	setIf(&f.LeaseMaxMonths, p.LeaseMaxMonths)

	setIf(&f.MaxOccupants, p.MaxOccupants)
	setIf(&f.PetsAllowed, p.PetsAllowed)
	setIf(&f.SmokersAllowed, p.SmokersAllowed)

	setIf(&f.Title, p.Title)
	setIf(&f.Description, p.Description)
	setIf(&f.InternalNotes, p.InternalNotes)

	setIf(&f.Elevator, p.Elevator)

	if p.Amenities != nil {
		f.Amenities = *p.Amenities
	}
	if p.Rooms != nil {
		f.Rooms = *p.Rooms
	}

	imagesTouched := false
	if p.Images != nil {
		f.Images = *p.Images
		imagesTouched = true
	}
	if p.ExistingImages != nil {
		f.ExistingImages = *p.ExistingImages
		imagesTouched = true
	}
	if imagesTouched {
		f.normalizePrimary()
	}
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// AddImages appends new uploads after the current ones. The first image
// ever added becomes primary.
func (f *FormData) AddImages(images ...LocalImage) {
	base := len(f.Images)
	for i, img := range images {
		img.DisplayOrder = base + i
		f.Images = append(f.Images, img)
	}
	f.normalizePrimary()
}

// SetPrimary marks the image with the given ID as primary and clears the
// flag on every other image across both collections. Unknown IDs and
// images marked for deletion are no-ops.
func (f *FormData) SetPrimary(id uuid.UUID) {
	if !f.hasLiveImage(id) {
		return
	}
	for i := range f.Images {
		f.Images[i].IsPrimary = f.Images[i].ID == id
	}
	for i := range f.ExistingImages {
		f.ExistingImages[i].IsPrimary = f.ExistingImages[i].ID == id
	}
}

// RemoveImage deletes a staged upload. If the primary was removed, the
// invariant reassigns it deterministically.
func (f *FormData) RemoveImage(id uuid.UUID) {
	f.Images = slices.DeleteFunc(f.Images, func(img LocalImage) bool {
		return img.ID == id
	})
	for i := range f.Images {
		f.Images[i].DisplayOrder = i
	}
	f.normalizePrimary()
}

// MarkExistingDeleted stages deletion of a persisted image (edit mode).
// A marked image can no longer hold the primary flag.
func (f *FormData) MarkExistingDeleted(id uuid.UUID, deleted bool) {
	for i := range f.ExistingImages {
		if f.ExistingImages[i].ID == id {
			f.ExistingImages[i].MarkedForDeletion = deleted
		}
	}
	f.normalizePrimary()
}

// PrimaryImageID returns the ID of the current primary image, if any.
func (f *FormData) PrimaryImageID() (uuid.UUID, bool) {
	for _, img := range f.Images {
		if img.IsPrimary {
			return img.ID, true
		}
	}
	for _, img := range f.ExistingImages {
		if img.IsPrimary && !img.MarkedForDeletion {
			return img.ID, true
		}
	}
	return uuid.Nil, false
}

func (f *FormData) hasLiveImage(id uuid.UUID) bool {
	for _, img := range f.Images {
		if img.ID == id {
			return true
		}
	}
	for _, img := range f.ExistingImages {
		if img.ID == id && !img.MarkedForDeletion {
			return true
		}
	}
	return false
}

// normalizePrimary re-establishes the invariant: exactly one primary
// across live images when any exist, zero otherwise. When no live image
// holds the flag, it is assigned to the first new upload in display
// order, falling back to the first live existing image.
func (f *FormData) normalizePrimary() {
	slices.SortStableFunc(f.Images, func(a, b LocalImage) int {
		return a.DisplayOrder - b.DisplayOrder
	})
	slices.SortStableFunc(f.ExistingImages, func(a, b ExistingImage) int {
		return a.DisplayOrder - b.DisplayOrder
	})

	// Deleted-marked images never hold the flag.
	for i := range f.ExistingImages {
		if f.ExistingImages[i].MarkedForDeletion {
			f.ExistingImages[i].IsPrimary = false
		}
	}

	// Keep only the first primary in priority order: uploads, then
	// existing.
	seen := false
	for i := range f.Images {
		if f.Images[i].IsPrimary {
			if seen {
				f.Images[i].IsPrimary = false
			}
			seen = true
		}
	}
	for i := range f.ExistingImages {
		if f.ExistingImages[i].IsPrimary {
			if seen {
				f.ExistingImages[i].IsPrimary = false
			}
			seen = true
		}
	}
	if seen {
		return
	}

	if len(f.Images) > 0 {
		f.Images[0].IsPrimary = true
		return
	}
	for i := range f.ExistingImages {
		if !f.ExistingImages[i].MarkedForDeletion {
			f.ExistingImages[i].IsPrimary = true
			return
		}
	}
}
