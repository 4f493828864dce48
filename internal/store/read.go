package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/tenwick/lettings/internal/listing"
	"github.com/tenwick/lettings/internal/predicate"
	"github.com/tenwick/lettings/internal/querysql"
)

// summaryColumns is the fixed result-card projection of a search.
// Order must match scanSummary.
var summaryColumns = []string{
	"id", "address_line_1", "suburb", "city", "state",
	"bedrooms", "bathrooms", "rent_weekly", "property_type", "available_from",
}

// TotalCount returns the number of listings owned by the organisation.
func (s *Store) TotalCount(ctx context.Context, orgID uuid.UUID) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM listings WHERE organisation_id = ?
	`, orgID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count listings: %w", err)
	}
	return count, nil
}

// DistinctSuburbs returns the distinct non-empty suburbs of an
// organisation's listings, sorted with locale-aware collation so the
// suburb picker reads naturally.
func (s *Store) DistinctSuburbs(ctx context.Context, orgID uuid.UUID) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT suburb
		FROM listings
		WHERE organisation_id = ? AND suburb IS NOT NULL AND suburb != ''
	`, orgID)
	if err != nil {
		return nil, fmt.Errorf("query suburbs: %w", err)
	}
	defer rows.Close()

	var suburbs []string
	for rows.Next() {
		var suburb string
		if err := rows.Scan(&suburb); err != nil {
			return nil, fmt.Errorf("scan suburb: %w", err)
		}
		suburbs = append(suburbs, suburb)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate suburbs: %w", err)
	}

	collate.New(language.English, collate.IgnoreCase).SortStrings(suburbs)

	if suburbs == nil {
		suburbs = []string{}
	}
	return suburbs, nil
}

// CountListings returns the number of listings matching a compiled
// predicate.
func (s *Store) CountListings(ctx context.Context, p predicate.Predicate) (int, error) {
	query, params, err := querysql.Count(p)
	if err != nil {
		return 0, fmt.Errorf("compile count query: %w", err)
	}

	var count int
	if err := s.db.QueryRowContext(ctx, query, params...).Scan(&count); err != nil {
		return 0, fmt.Errorf("execute count query: %w", err)
	}
	return count, nil
}

// SearchListings returns the summary projection of every listing
// matching a predicate, in the compiler's deterministic order.
//
// Returns an empty slice (not nil) when nothing matches.
func (s *Store) SearchListings(ctx context.Context, p predicate.Predicate) ([]listing.Summary, error) {
	query, params, err := querysql.Select(summaryColumns, p)
	if err != nil {
		return nil, fmt.Errorf("compile search query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("execute search query: %w", err)
	}
	defer rows.Close()

	var summaries []listing.Summary
	for rows.Next() {
		sum, err := scanSummary(rows)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate search results: %w", err)
	}

	if summaries == nil {
		summaries = []listing.Summary{}
	}
	return summaries, nil
}

// ListByTenant returns a page of an organisation's listings as
// summaries, newest first.
func (s *Store) ListByTenant(ctx context.Context, orgID uuid.UUID, limit, offset int) ([]listing.Summary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, address_line_1, suburb, city, state,
		       bedrooms, bathrooms, rent_weekly, property_type, available_from
		FROM listings
		WHERE organisation_id = ?
		ORDER BY created_at DESC, id COLLATE BINARY ASC
		LIMIT ? OFFSET ?
	`, orgID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query tenant listings: %w", err)
	}
	defer rows.Close()

	var summaries []listing.Summary
	for rows.Next() {
		sum, err := scanSummary(rows)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tenant listings: %w", err)
	}

	if summaries == nil {
		summaries = []listing.Summary{}
	}
	return summaries, nil
}

// GetListing retrieves a full listing record by ID.
// Returns sql.ErrNoRows if not found.
func (s *Store) GetListing(ctx context.Context, id uuid.UUID) (*listing.Listing, error) {
	cols := "id, organisation_id, created_by, status, " +
		"address_line_1, address_line_2, suburb, city, state, postcode, country, " +
		"bedrooms, bathrooms, parking_spaces, floor_area_sqm, land_area_sqm, floors, " +
		"property_type, furnished, " +
		"rent_weekly, rent_monthly, bond, available_from, lease_min_months, lease_max_months, " +
		"max_occupants, pets_allowed, smokers_allowed, " +
		"title, description, internal_notes, elevator, " +
		amenityColumnList() + ", created_at, updated_at"

	row := s.db.QueryRowContext(ctx, "SELECT "+cols+" FROM listings WHERE id = ?", id)

	l := &listing.Listing{Amenities: make(map[listing.AmenityKey]bool)}
	var propertyType, furnished, petsAllowed, smokersAllowed sql.NullString

	targets := []any{
		&l.ID, &l.OrganisationID, &l.CreatedBy, &l.Status,
		&l.AddressLine1, &l.AddressLine2, &l.Suburb, &l.City, &l.State, &l.Postcode, &l.Country,
		&l.Bedrooms, &l.Bathrooms, &l.ParkingSpaces, &l.FloorAreaSqm, &l.LandAreaSqm, &l.Floors,
		&propertyType, &furnished,
		&l.RentWeekly, &l.RentMonthly, &l.Bond, &l.AvailableFrom, &l.LeaseMinMonths, &l.LeaseMaxMonths,
		&l.MaxOccupants, &petsAllowed, &smokersAllowed,
		&l.Title, &l.Description, &l.InternalNotes, &l.Elevator,
	}
	amenities := make([]bool, len(listing.AmenityCatalog))
	for i := range amenities {
		targets = append(targets, &amenities[i])
	}
	targets = append(targets, &l.CreatedAt, &l.UpdatedAt)

	if err := row.Scan(targets...); err != nil {
		return nil, err
	}

	if propertyType.Valid {
		pt := listing.PropertyType(propertyType.String)
		l.PropertyType = &pt
	}
	if furnished.Valid {
		f := listing.FurnishedOption(furnished.String)
		l.Furnished = &f
	}
	if petsAllowed.Valid {
		v := listing.YesNoUnspecified(petsAllowed.String)
		l.PetsAllowed = &v
	}
	if smokersAllowed.Valid {
		v := listing.YesNoUnspecified(smokersAllowed.String)
		l.SmokersAllowed = &v
	}
	for i, info := range listing.AmenityCatalog {
		if amenities[i] {
			l.Amenities[info.Key] = true
		}
	}

	return l, nil
}

// ListingRooms returns the rooms of a listing in insertion order.
func (s *Store) ListingRooms(ctx context.Context, listingID uuid.UUID) ([]listing.Room, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, listing_id, room_type, name, width_m, length_m, notes
		FROM listing_rooms
		WHERE listing_id = ?
		ORDER BY rowid ASC
	`, listingID)
	if err != nil {
		return nil, fmt.Errorf("query rooms: %w", err)
	}
	defer rows.Close()

	var rooms []listing.Room
	for rows.Next() {
		var r listing.Room
		if err := rows.Scan(&r.ID, &r.ListingID, &r.RoomType, &r.Name, &r.WidthM, &r.LengthM, &r.Notes); err != nil {
			return nil, fmt.Errorf("scan room: %w", err)
		}
		rooms = append(rooms, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rooms: %w", err)
	}

	if rooms == nil {
		rooms = []listing.Room{}
	}
	return rooms, nil
}

// ListingImages returns the images of a listing in display order.
func (s *Store) ListingImages(ctx context.Context, listingID uuid.UUID) ([]listing.Image, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, listing_id, storage_path, display_order, is_primary, caption, created_at
		FROM listing_images
		WHERE listing_id = ?
		ORDER BY display_order ASC, id COLLATE BINARY ASC
	`, listingID)
	if err != nil {
		return nil, fmt.Errorf("query images: %w", err)
	}
	defer rows.Close()

	var images []listing.Image
	for rows.Next() {
		var img listing.Image
		if err := rows.Scan(&img.ID, &img.ListingID, &img.StoragePath, &img.DisplayOrder,
			&img.IsPrimary, &img.Caption, &img.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan image: %w", err)
		}
		images = append(images, img)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate images: %w", err)
	}

	if images == nil {
		images = []listing.Image{}
	}
	return images, nil
}

// scanSummary scans one summary projection row. Nullable text columns
// degrade to "" in the summary; the result card renders blanks.
func scanSummary(rows *sql.Rows) (listing.Summary, error) {
	var sum listing.Summary
	var addr, suburb, city, state, propertyType, availableFrom sql.NullString

	if err := rows.Scan(
		&sum.ID, &addr, &suburb, &city, &state,
		&sum.Bedrooms, &sum.Bathrooms, &sum.RentWeekly, &propertyType, &availableFrom,
	); err != nil {
		return listing.Summary{}, fmt.Errorf("scan summary: %w", err)
	}

	sum.AddressLine1 = addr.String
	sum.Suburb = suburb.String
	sum.City = city.String
	sum.State = state.String
	sum.PropertyType = listing.PropertyType(propertyType.String)
	sum.AvailableFrom = availableFrom.String
	return sum, nil
}
