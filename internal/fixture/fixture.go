// Package fixture loads YAML seed files describing an organisation's
// listings, validating them against an embedded CUE schema before any
// row is written.
package fixture

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/tenwick/lettings/internal/listing"
)

//go:embed schema.cue
var schemaCUE string

// Fixture is a validated seed document.
type Fixture struct {
	Organisation uuid.UUID
	CreatedBy    uuid.UUID
	Listings     []SeedListing
}

// SeedListing is one listing to create. Fields mirror the wizard's
// draft tolerance: everything is optional.
type SeedListing struct {
	AddressLine1  string      `yaml:"address_line_1"`
	Suburb        string      `yaml:"suburb"`
	City          string      `yaml:"city"`
	State         string      `yaml:"state"`
	Postcode      string      `yaml:"postcode"`
	PropertyType  string      `yaml:"property_type"`
	Bedrooms      *int        `yaml:"bedrooms"`
	Bathrooms     *int        `yaml:"bathrooms"`
	RentWeekly    *float64    `yaml:"rent_weekly"`
	AvailableFrom string      `yaml:"available_from"`
	Elevator      bool        `yaml:"elevator"`
	Amenities     []string    `yaml:"amenities"`
	Images        []SeedImage `yaml:"images"`
}

// SeedImage is one image attached to a seed listing.
type SeedImage struct {
	StoragePath string `yaml:"storage_path"`
	Primary     bool   `yaml:"primary"`
	Caption     string `yaml:"caption"`
}

type fixtureDoc struct {
	Organisation string        `yaml:"organisation"`
	CreatedBy    string        `yaml:"created_by"`
	Listings     []SeedListing `yaml:"listings"`
}

// Load reads and validates a fixture file.
func Load(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	return Parse(data)
}

// Parse validates fixture bytes against the CUE schema, then decodes
// them. Validation happens on the raw document so schema errors name
// the offending field rather than surfacing as a decode failure.
func Parse(data []byte) (*Fixture, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse fixture yaml: %w", err)
	}

	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaCUE)
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compile fixture schema: %w", err)
	}
	def := schema.LookupPath(cue.ParsePath("#Fixture"))
	if !def.Exists() {
		return nil, fmt.Errorf("fixture schema missing #Fixture definition")
	}

	doc := ctx.Encode(raw)
	if err := doc.Err(); err != nil {
		return nil, fmt.Errorf("encode fixture document: %w", err)
	}

	unified := def.Unify(doc)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, fmt.Errorf("fixture does not conform to schema: %w", err)
	}

	var decoded fixtureDoc
	if err := yaml.Unmarshal(data, &decoded); err != nil {
		return nil, fmt.Errorf("decode fixture: %w", err)
	}

	orgID, err := uuid.Parse(decoded.Organisation)
	if err != nil {
		return nil, fmt.Errorf("parse organisation id: %w", err)
	}
	createdBy := uuid.Nil
	if decoded.CreatedBy != "" {
		createdBy, err = uuid.Parse(decoded.CreatedBy)
		if err != nil {
			return nil, fmt.Errorf("parse created_by id: %w", err)
		}
	}

	// Amenity keys are an open string list in the schema; check them
	// against the catalog here.
	for i, l := range decoded.Listings {
		for _, a := range l.Amenities {
			if !listing.ValidAmenity(listing.AmenityKey(a)) {
				return nil, fmt.Errorf("listings[%d]: unknown amenity %q", i, a)
			}
		}
		primaries := 0
		for _, img := range l.Images {
			if img.Primary {
				primaries++
			}
		}
		if primaries > 1 {
			return nil, fmt.Errorf("listings[%d]: more than one primary image", i)
		}
	}

	return &Fixture{
		Organisation: orgID,
		CreatedBy:    createdBy,
		Listings:     decoded.Listings,
	}, nil
}

// Materialize converts seed listings into persistable records. Each call
// mints fresh IDs, so a fixture can seed several databases.
func (f *Fixture) Materialize() []MaterializedListing {
	out := make([]MaterializedListing, 0, len(f.Listings))
	for _, seed := range f.Listings {
		l := &listing.Listing{
			ID:             uuid.New(),
			OrganisationID: f.Organisation,
			CreatedBy:      f.CreatedBy,
			Status:         listing.StatusActive,
			Bedrooms:       seed.Bedrooms,
			Bathrooms:      seed.Bathrooms,
			RentWeekly:     seed.RentWeekly,
			Elevator:       seed.Elevator,
			Amenities:      make(map[listing.AmenityKey]bool),
		}
		setOpt(&l.AddressLine1, seed.AddressLine1)
		setOpt(&l.Suburb, seed.Suburb)
		setOpt(&l.City, seed.City)
		setOpt(&l.State, seed.State)
		setOpt(&l.Postcode, seed.Postcode)
		setOpt(&l.AvailableFrom, seed.AvailableFrom)
		if seed.PropertyType != "" {
			pt := listing.PropertyType(seed.PropertyType)
			l.PropertyType = &pt
		}
		for _, a := range seed.Amenities {
			l.Amenities[listing.AmenityKey(a)] = true
		}

		images := make([]listing.Image, 0, len(seed.Images))
		for order, img := range seed.Images {
			images = append(images, listing.Image{
				ID:           uuid.New(),
				ListingID:    l.ID,
				StoragePath:  img.StoragePath,
				DisplayOrder: order,
				IsPrimary:    img.Primary,
				Caption:      img.Caption,
				CreatedAt:    time.Now().UTC(),
			})
		}

		out = append(out, MaterializedListing{Listing: l, Images: images})
	}
	return out
}

// MaterializedListing is a seed listing ready for the store.
type MaterializedListing struct {
	Listing *listing.Listing
	Images  []listing.Image
}

func setOpt(dst **string, v string) {
	if v != "" {
		s := v
		*dst = &s
	}
}
