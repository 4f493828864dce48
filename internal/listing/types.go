package listing

import (
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a listing.
type Status string

const (
	StatusDraft    Status = "draft"
	StatusActive   Status = "active"
	StatusArchived Status = "archived"
)

// PropertyType is the category of a listing.
type PropertyType string

const (
	TypeHouse      PropertyType = "house"
	TypeApartment  PropertyType = "apartment"
	TypeUnit       PropertyType = "unit"
	TypeTownhouse  PropertyType = "townhouse"
	TypeVilla      PropertyType = "villa"
	TypeStudio     PropertyType = "studio"
	TypeDuplex     PropertyType = "duplex"
	TypeGrannyFlat PropertyType = "granny_flat"
	TypeOther      PropertyType = "other"
)

// PropertyTypes lists all property types in display order.
var PropertyTypes = []PropertyType{
	TypeHouse, TypeApartment, TypeUnit, TypeTownhouse, TypeVilla,
	TypeStudio, TypeDuplex, TypeGrannyFlat, TypeOther,
}

// PropertyTypeLabels maps property types to display labels.
var PropertyTypeLabels = map[PropertyType]string{
	TypeHouse:      "House",
	TypeApartment:  "Apartment",
	TypeUnit:       "Unit",
	TypeTownhouse:  "Townhouse",
	TypeVilla:      "Villa",
	TypeStudio:     "Studio",
	TypeDuplex:     "Duplex",
	TypeGrannyFlat: "Granny Flat",
	TypeOther:      "Other",
}

// FurnishedOption describes the furnishing state of a listing.
type FurnishedOption string

const (
	Furnished          FurnishedOption = "furnished"
	Unfurnished        FurnishedOption = "unfurnished"
	PartiallyFurnished FurnishedOption = "partially_furnished"
)

// FurnishedLabels maps furnishing states to display labels.
var FurnishedLabels = map[FurnishedOption]string{
	Furnished:          "Furnished",
	Unfurnished:        "Unfurnished",
	PartiallyFurnished: "Partially Furnished",
}

// YesNoUnspecified is a tri-state answer used by listing rules.
type YesNoUnspecified string

const (
	AnswerYes         YesNoUnspecified = "yes"
	AnswerNo          YesNoUnspecified = "no"
	AnswerUnspecified YesNoUnspecified = "unspecified"
)

// RoomType is the category of a room within a listing.
type RoomType string

const (
	RoomBedroom    RoomType = "bedroom"
	RoomBathroom   RoomType = "bathroom"
	RoomKitchen    RoomType = "kitchen"
	RoomLivingRoom RoomType = "living_room"
	RoomDiningRoom RoomType = "dining_room"
	RoomLaundry    RoomType = "laundry"
	RoomGarage     RoomType = "garage"
	RoomStudy      RoomType = "study"
	RoomStorage    RoomType = "storage"
	RoomBalcony    RoomType = "balcony"
	RoomCourtyard  RoomType = "courtyard"
	RoomOther      RoomType = "other"
)

// RoomTypeLabels maps room types to display labels.
var RoomTypeLabels = map[RoomType]string{
	RoomBedroom:    "Bedroom",
	RoomBathroom:   "Bathroom",
	RoomKitchen:    "Kitchen",
	RoomLivingRoom: "Living Room",
	RoomDiningRoom: "Dining Room",
	RoomLaundry:    "Laundry",
	RoomGarage:     "Garage",
	RoomStudy:      "Study",
	RoomStorage:    "Storage",
	RoomBalcony:    "Balcony",
	RoomCourtyard:  "Courtyard",
	RoomOther:      "Other",
}

// AmenityKey identifies a must-have amenity feature of a listing.
type AmenityKey string

const (
	AmenityAirConditioning  AmenityKey = "air_conditioning"
	AmenityHeating          AmenityKey = "heating"
	AmenityDishwasher       AmenityKey = "dishwasher"
	AmenityBuiltInWardrobes AmenityKey = "built_in_wardrobes"
	AmenityFloorboards      AmenityKey = "floorboards"
	AmenityInternalLaundry  AmenityKey = "internal_laundry"
	AmenityBath             AmenityKey = "bath"
	AmenityEnsuite          AmenityKey = "ensuite"
	AmenityPool             AmenityKey = "pool"
	AmenityGym              AmenityKey = "gym"
	AmenityBalcony          AmenityKey = "balcony"
	AmenityCourtyard        AmenityKey = "courtyard"
	AmenityGarden           AmenityKey = "garden"
	AmenityOutdoorArea      AmenityKey = "outdoor_area"
	AmenitySecureParking    AmenityKey = "secure_parking"
	AmenityGarage           AmenityKey = "garage"
	AmenityCarport          AmenityKey = "carport"
	AmenityAlarmSystem      AmenityKey = "alarm_system"
	AmenityIntercom         AmenityKey = "intercom"
	AmenityNBN              AmenityKey = "nbn"
	AmenitySolarPanels      AmenityKey = "solar_panels"
	AmenityWaterTank        AmenityKey = "water_tank"
)

// AmenityInfo describes one entry of the amenity catalog.
type AmenityInfo struct {
	Key      AmenityKey
	Label    string
	Category string
}

// AmenityCatalog lists all amenities in display order, grouped by category.
var AmenityCatalog = []AmenityInfo{
	{AmenityAirConditioning, "Air Conditioning", "climate"},
	{AmenityHeating, "Heating", "climate"},
	{AmenityDishwasher, "Dishwasher", "kitchen"},
	{AmenityBuiltInWardrobes, "Built-in Wardrobes", "interior"},
	{AmenityFloorboards, "Floorboards", "interior"},
	{AmenityInternalLaundry, "Internal Laundry", "interior"},
	{AmenityBath, "Bath", "bathroom"},
	{AmenityEnsuite, "Ensuite", "bathroom"},
	{AmenityPool, "Pool", "outdoor"},
	{AmenityGym, "Gym", "facilities"},
	{AmenityBalcony, "Balcony", "outdoor"},
	{AmenityCourtyard, "Courtyard", "outdoor"},
	{AmenityGarden, "Garden", "outdoor"},
	{AmenityOutdoorArea, "Outdoor Area", "outdoor"},
	{AmenitySecureParking, "Secure Parking", "parking"},
	{AmenityGarage, "Garage", "parking"},
	{AmenityCarport, "Carport", "parking"},
	{AmenityAlarmSystem, "Alarm System", "security"},
	{AmenityIntercom, "Intercom", "security"},
	{AmenityNBN, "NBN", "utilities"},
	{AmenitySolarPanels, "Solar Panels", "utilities"},
	{AmenityWaterTank, "Water Tank", "utilities"},
}

// ValidAmenity reports whether key is part of the amenity catalog.
func ValidAmenity(key AmenityKey) bool {
	for _, a := range AmenityCatalog {
		if a.Key == key {
			return true
		}
	}
	return false
}

// BedroomSentinel is the bedroom filter value standing for "5 or more".
// All smaller values filter on an exact bedroom count.
const BedroomSentinel = 5

// BedroomOption is one selectable bedroom-count filter value.
type BedroomOption struct {
	Value int
	Label string
}

// BedroomOptions lists the selectable bedroom filter values.
var BedroomOptions = []BedroomOption{
	{1, "1"},
	{2, "2"},
	{3, "3"},
	{4, "4"},
	{BedroomSentinel, "5+"},
}

// Listing is the full persisted listing record. Optional columns are
// pointers: nil means the field was never filled in (listings are
// draft-tolerant, every field is optional).
type Listing struct {
	ID             uuid.UUID
	OrganisationID uuid.UUID
	CreatedBy      uuid.UUID
	Status         Status

	AddressLine1 *string
	AddressLine2 *string
	Suburb       *string
	City         *string
	State        *string
	Postcode     *string
	Country      *string

	Bedrooms      *int
	Bathrooms     *int
	ParkingSpaces *int
	FloorAreaSqm  *float64
	LandAreaSqm   *float64
	Floors        *int

	PropertyType *PropertyType
	Furnished    *FurnishedOption

	RentWeekly     *float64
	RentMonthly    *float64
	Bond           *float64
	AvailableFrom  *string
	LeaseMinMonths *int
	LeaseMaxMonths *int

	MaxOccupants   *int
	PetsAllowed    *YesNoUnspecified
	SmokersAllowed *YesNoUnspecified

	Title         *string
	Description   *string
	InternalNotes *string

	// Elevator is the secondary boolean filter dimension. It is a plain
	// bool: absence of the requirement never filters on false.
	Elevator bool

	// Amenities holds the denormalized per-amenity flags. Keys absent from
	// the map are stored as false.
	Amenities map[AmenityKey]bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Room is a room attached to a listing.
type Room struct {
	ID        uuid.UUID
	ListingID uuid.UUID
	RoomType  RoomType
	Name      string
	WidthM    *float64
	LengthM   *float64
	Notes     string
}

// Image is a persisted listing image row.
type Image struct {
	ID           uuid.UUID
	ListingID    uuid.UUID
	StoragePath  string
	DisplayOrder int
	IsPrimary    bool
	Caption      string
	CreatedAt    time.Time
}

// Summary is the fixed minimal projection returned by a search: enough
// for a result card, not the full record. Immutable once constructed.
type Summary struct {
	ID           uuid.UUID
	AddressLine1 string
	Suburb       string
	City         string
	State        string
	Bedrooms     *int
	Bathrooms    *int
	RentWeekly   *float64
	PropertyType PropertyType
	AvailableFrom string
}
