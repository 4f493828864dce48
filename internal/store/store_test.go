package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tenwick/lettings/internal/criteria"
	"github.com/tenwick/lettings/internal/listing"
	"github.com/tenwick/lettings/internal/predicate"
	"github.com/tenwick/lettings/internal/querysql"
)

var testOrg = uuid.MustParse("11111111-1111-1111-1111-111111111111")

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func strPtr(s string) *string   { return &s }
func intPtr(i int) *int         { return &i }
func f64Ptr(f float64) *float64 { return &f }

func ptPtr(p listing.PropertyType) *listing.PropertyType { return &p }

// seedListing inserts a draft listing with the given filterable fields.
func seedListing(t *testing.T, s *Store, org uuid.UUID, suburb string, pt listing.PropertyType, bedrooms int, elevator bool, amenities ...listing.AmenityKey) uuid.UUID {
	t.Helper()
	am := make(map[listing.AmenityKey]bool)
	for _, a := range amenities {
		am[a] = true
	}
	l := &listing.Listing{
		ID:             uuid.New(),
		OrganisationID: org,
		CreatedBy:      uuid.New(),
		Status:         listing.StatusDraft,
		Suburb:         strPtr(suburb),
		PropertyType:   ptPtr(pt),
		Bedrooms:       intPtr(bedrooms),
		Elevator:       elevator,
		Amenities:      am,
	}
	require.NoError(t, s.SaveListing(context.Background(), l, nil, nil))
	return l.ID
}

func TestOpen_AppliesPragmas(t *testing.T) {
	s := newTestStore(t)

	// :memory: databases report "memory" journal mode; the remaining
	// pragmas must hold everywhere.
	assert.NoError(t, s.verifyPragma("foreign_keys", "1"))
	assert.NoError(t, s.verifyPragma("busy_timeout", "5000"))
}

func TestOpen_IsIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/lettings.db"

	s1, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	assert.NoError(t, s2.Close())
}

func TestSaveAndGetListing_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	l := &listing.Listing{
		ID:             uuid.New(),
		OrganisationID: testOrg,
		CreatedBy:      uuid.New(),
		Status:         listing.StatusDraft,
		AddressLine1:   strPtr("12 Example St"),
		Suburb:         strPtr("Springfield"),
		City:           strPtr("Shelbyville"),
		Bedrooms:       intPtr(3),
		RentWeekly:     f64Ptr(650.50),
		PropertyType:   ptPtr(listing.TypeHouse),
		Elevator:       true,
		Amenities: map[listing.AmenityKey]bool{
			listing.AmenityPool: true,
			listing.AmenityGym:  true,
		},
	}
	rooms := []listing.Room{
		{ID: uuid.New(), ListingID: l.ID, RoomType: listing.RoomBedroom, Name: "Master", WidthM: f64Ptr(3.2)},
	}
	images := []listing.Image{
		{ID: uuid.New(), ListingID: l.ID, StoragePath: "org/a.jpg", DisplayOrder: 0, IsPrimary: true},
		{ID: uuid.New(), ListingID: l.ID, StoragePath: "org/b.jpg", DisplayOrder: 1},
	}
	require.NoError(t, s.SaveListing(ctx, l, rooms, images))

	got, err := s.GetListing(ctx, l.ID)
	require.NoError(t, err)

	assert.Equal(t, l.ID, got.ID)
	assert.Equal(t, testOrg, got.OrganisationID)
	assert.Equal(t, listing.StatusDraft, got.Status)
	require.NotNil(t, got.Suburb)
	assert.Equal(t, "Springfield", *got.Suburb)
	require.NotNil(t, got.Bedrooms)
	assert.Equal(t, 3, *got.Bedrooms)
	require.NotNil(t, got.RentWeekly)
	assert.InDelta(t, 650.50, *got.RentWeekly, 0.001)
	require.NotNil(t, got.PropertyType)
	assert.Equal(t, listing.TypeHouse, *got.PropertyType)
	assert.True(t, got.Elevator)
	assert.True(t, got.Amenities[listing.AmenityPool])
	assert.True(t, got.Amenities[listing.AmenityGym])
	assert.False(t, got.Amenities[listing.AmenityBath])
	assert.Nil(t, got.AddressLine2, "unfilled fields stay nil")
	assert.False(t, got.CreatedAt.IsZero())

	gotRooms, err := s.ListingRooms(ctx, l.ID)
	require.NoError(t, err)
	require.Len(t, gotRooms, 1)
	assert.Equal(t, "Master", gotRooms[0].Name)

	gotImages, err := s.ListingImages(ctx, l.ID)
	require.NoError(t, err)
	require.Len(t, gotImages, 2)
	assert.True(t, gotImages[0].IsPrimary)
}

func TestGetListing_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetListing(context.Background(), uuid.New())
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestDistinctSuburbs_SortedAndTenantScoped(t *testing.T) {
	s := newTestStore(t)
	otherOrg := uuid.New()

	seedListing(t, s, testOrg, "springfield", listing.TypeHouse, 3, false)
	seedListing(t, s, testOrg, "Newtown", listing.TypeUnit, 2, false)
	seedListing(t, s, testOrg, "Newtown", listing.TypeHouse, 4, false)
	seedListing(t, s, otherOrg, "Elsewhere", listing.TypeHouse, 1, false)

	suburbs, err := s.DistinctSuburbs(context.Background(), testOrg)
	require.NoError(t, err)

	// Case-insensitive collation: lowercase "springfield" still sorts
	// after "Newtown"; the other tenant's suburb never appears.
	assert.Equal(t, []string{"Newtown", "springfield"}, suburbs)
}

func TestTotalCount_TenantScoped(t *testing.T) {
	s := newTestStore(t)

	seedListing(t, s, testOrg, "Springfield", listing.TypeHouse, 3, false)
	seedListing(t, s, testOrg, "Newtown", listing.TypeUnit, 2, false)
	seedListing(t, s, uuid.New(), "Elsewhere", listing.TypeHouse, 1, false)

	total, err := s.TotalCount(context.Background(), testOrg)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
}

func TestCountAndSearch_AgreeForSameCriteria(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seedListing(t, s, testOrg, "Springfield", listing.TypeHouse, 3, false, listing.AmenityPool)
	seedListing(t, s, testOrg, "Springfield", listing.TypeHouse, 3, false)
	seedListing(t, s, testOrg, "Springfield", listing.TypeUnit, 3, false, listing.AmenityPool)
	seedListing(t, s, testOrg, "Newtown", listing.TypeHouse, 3, false, listing.AmenityPool)
	seedListing(t, s, testOrg, "Springfield", listing.TypeHouse, 2, false, listing.AmenityPool)

	c := criteria.Criteria{}.
		ToggleSuburb("Springfield").
		TogglePropertyType(listing.TypeHouse).
		ToggleBedroom(3).
		ToggleAmenity(listing.AmenityPool)
	p := predicate.FromCriteria(testOrg, c)

	count, err := s.CountListings(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	results, err := s.SearchListings(ctx, p)
	require.NoError(t, err)
	assert.Len(t, results, count, "count and search agree on the same criteria")
	assert.Equal(t, "Springfield", results[0].Suburb)
}

func TestSearchListings_BedroomSentinelMeansAtLeast(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seedListing(t, s, testOrg, "Springfield", listing.TypeHouse, 4, false)
	seedListing(t, s, testOrg, "Springfield", listing.TypeHouse, 5, false)
	seedListing(t, s, testOrg, "Springfield", listing.TypeHouse, 7, false)

	c := criteria.Criteria{}.ToggleBedroom(listing.BedroomSentinel)
	results, err := s.SearchListings(ctx, predicate.FromCriteria(testOrg, c))
	require.NoError(t, err)
	assert.Len(t, results, 2, "5 and 7 bedrooms match, 4 does not")

	// Mixed exact and sentinel: a disjunction.
	c = c.ToggleBedroom(4)
	results, err = s.SearchListings(ctx, predicate.FromCriteria(testOrg, c))
	require.NoError(t, err)
	assert.Len(t, results, 3)
}

func TestSearchListings_ElevatorOnlyFiltersWhenRequired(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seedListing(t, s, testOrg, "Springfield", listing.TypeApartment, 2, true)
	seedListing(t, s, testOrg, "Springfield", listing.TypeApartment, 2, false)

	c := criteria.Criteria{}.ToggleSuburb("Springfield")
	results, err := s.SearchListings(ctx, predicate.FromCriteria(testOrg, c))
	require.NoError(t, err)
	assert.Len(t, results, 2, "no elevator requirement matches both")

	c = c.WithElevatorRequired(true)
	results, err = s.SearchListings(ctx, predicate.FromCriteria(testOrg, c))
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestCompiledSearchQuery_PreparesAgainstSchema(t *testing.T) {
	s := newTestStore(t)

	// The ordering clause must be valid SQLite (COLLATE precedes the
	// direction); a compile drift here fails at prepare time and would
	// surface to users as a silent zero-match search.
	c := criteria.Criteria{}.ToggleSuburb("Springfield").ToggleBedroom(listing.BedroomSentinel)
	query, _, err := querysql.Select([]string{"id"}, predicate.FromCriteria(testOrg, c))
	require.NoError(t, err)

	stmt, err := s.DB().Prepare(query)
	require.NoError(t, err)
	require.NoError(t, stmt.Close())
}

func TestSearchListings_EmptyResultIsNotNil(t *testing.T) {
	s := newTestStore(t)

	c := criteria.Criteria{}.ToggleSuburb("Nowhere")
	results, err := s.SearchListings(context.Background(), predicate.FromCriteria(testOrg, c))
	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestPrimaryImagePaths_BatchedAcrossListings(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	withImages := &listing.Listing{
		ID:             uuid.New(),
		OrganisationID: testOrg,
		CreatedBy:      uuid.New(),
		Status:         listing.StatusDraft,
		Suburb:         strPtr("Springfield"),
	}
	require.NoError(t, s.SaveListing(ctx, withImages, nil, []listing.Image{
		{ID: uuid.New(), ListingID: withImages.ID, StoragePath: "org/primary.jpg", IsPrimary: true},
		{ID: uuid.New(), ListingID: withImages.ID, StoragePath: "org/other.jpg", DisplayOrder: 1},
	}))
	withPrimary := withImages.ID
	withoutPrimary := seedListing(t, s, testOrg, "Springfield", listing.TypeHouse, 3, false)

	paths, err := s.PrimaryImagePaths(ctx, []uuid.UUID{withPrimary, withoutPrimary})
	require.NoError(t, err)

	assert.Equal(t, "org/primary.jpg", paths[withPrimary])
	_, ok := paths[withoutPrimary]
	assert.False(t, ok, "listings without a primary image are absent")
}

func TestPrimaryImagePaths_EmptyInput(t *testing.T) {
	s := newTestStore(t)

	paths, err := s.PrimaryImagePaths(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, paths)
}

func TestUpdateListing_AppliesImageDelta(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	keep := listing.Image{ID: uuid.New(), StoragePath: "org/keep.jpg", DisplayOrder: 0, IsPrimary: true}
	drop := listing.Image{ID: uuid.New(), StoragePath: "org/drop.jpg", DisplayOrder: 1}

	l := &listing.Listing{
		ID:             uuid.New(),
		OrganisationID: testOrg,
		CreatedBy:      uuid.New(),
		Status:         listing.StatusDraft,
		Suburb:         strPtr("Springfield"),
	}
	require.NoError(t, s.SaveListing(ctx, l, nil, []listing.Image{keep, drop}))

	l.Suburb = strPtr("Newtown")
	added := listing.Image{ID: uuid.New(), StoragePath: "org/new.jpg", DisplayOrder: 1}
	keep.IsPrimary = false
	added.IsPrimary = true
	err := s.UpdateListing(ctx, l, nil, ImageChanges{
		Add:    []listing.Image{added},
		Update: []listing.Image{keep},
		Delete: []uuid.UUID{drop.ID},
	})
	require.NoError(t, err)

	got, err := s.GetListing(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, "Newtown", *got.Suburb)

	images, err := s.ListingImages(ctx, l.ID)
	require.NoError(t, err)
	require.Len(t, images, 2)

	paths, err := s.PrimaryImagePaths(ctx, []uuid.UUID{l.ID})
	require.NoError(t, err)
	assert.Equal(t, "org/new.jpg", paths[l.ID])
}

func TestUpdateListing_UnknownIDFails(t *testing.T) {
	s := newTestStore(t)

	l := &listing.Listing{ID: uuid.New(), OrganisationID: testOrg, CreatedBy: uuid.New(), Status: listing.StatusDraft}
	err := s.UpdateListing(context.Background(), l, nil, ImageChanges{})
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestListByTenant_Paginates(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		seedListing(t, s, testOrg, "Springfield", listing.TypeHouse, 3, false)
	}

	page1, err := s.ListByTenant(ctx, testOrg, 2, 0)
	require.NoError(t, err)
	assert.Len(t, page1, 2)

	page3, err := s.ListByTenant(ctx, testOrg, 2, 4)
	require.NoError(t, err)
	assert.Len(t, page3, 1)
}

func TestResolver_PublicURL(t *testing.T) {
	r := Resolver{BaseURL: "https://img.example.com"}

	assert.Equal(t, "https://img.example.com/org/a.jpg", r.PublicURL("org/a.jpg"))
	assert.Equal(t, "https://img.example.com/org/a.jpg", r.PublicURL("/org/a.jpg"))
}
