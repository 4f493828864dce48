package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tenwick/lettings/internal/listing"
	"github.com/tenwick/lettings/internal/predicate"
)

// amenityColumnList returns the amenity columns in catalog order,
// comma-joined for embedding in a projection.
func amenityColumnList() string {
	cols := make([]string, len(listing.AmenityCatalog))
	for i, info := range listing.AmenityCatalog {
		// Catalog keys are always mapped.
		col, _ := predicate.AmenityColumn(info.Key)
		cols[i] = col
	}
	return strings.Join(cols, ", ")
}

// listingColumns is every listings column in insert order, excluding
// the amenity block which amenityColumnList supplies.
const listingColumnsHead = "id, organisation_id, created_by, status, " +
	"address_line_1, address_line_2, suburb, city, state, postcode, country, " +
	"bedrooms, bathrooms, parking_spaces, floor_area_sqm, land_area_sqm, floors, " +
	"property_type, furnished, " +
	"rent_weekly, rent_monthly, bond, available_from, lease_min_months, lease_max_months, " +
	"max_occupants, pets_allowed, smokers_allowed, " +
	"title, description, internal_notes, elevator"

// listingValues flattens a listing into insert parameters matching
// listingColumnsHead + amenityColumnList + created_at, updated_at.
func listingValues(l *listing.Listing) []any {
	vals := []any{
		l.ID, l.OrganisationID, l.CreatedBy, string(l.Status),
		l.AddressLine1, l.AddressLine2, l.Suburb, l.City, l.State, l.Postcode, l.Country,
		l.Bedrooms, l.Bathrooms, l.ParkingSpaces, l.FloorAreaSqm, l.LandAreaSqm, l.Floors,
		optEnum(l.PropertyType), optEnum(l.Furnished),
		l.RentWeekly, l.RentMonthly, l.Bond, l.AvailableFrom, l.LeaseMinMonths, l.LeaseMaxMonths,
		l.MaxOccupants, optEnum(l.PetsAllowed), optEnum(l.SmokersAllowed),
		l.Title, l.Description, l.InternalNotes, l.Elevator,
	}
	for _, info := range listing.AmenityCatalog {
		vals = append(vals, l.Amenities[info.Key])
	}
	return append(vals, l.CreatedAt, l.UpdatedAt)
}

// optEnum converts an optional enum pointer to a nullable string param.
func optEnum[T ~string](v *T) any {
	if v == nil {
		return nil
	}
	return string(*v)
}

// SaveListing persists a new listing with its rooms and images in one
// transaction. Timestamps are stamped here; the caller's values are
// ignored.
func (s *Store) SaveListing(ctx context.Context, l *listing.Listing, rooms []listing.Room, images []listing.Image) error {
	now := time.Now().UTC()
	l.CreatedAt = now
	l.UpdatedAt = now

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	cols := listingColumnsHead + ", " + amenityColumnList() + ", created_at, updated_at"
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", strings.Count(cols, ",")+1), ", ")
	query := "INSERT INTO listings (" + cols + ") VALUES (" + placeholders + ")"

	if _, err := tx.ExecContext(ctx, query, listingValues(l)...); err != nil {
		return fmt.Errorf("insert listing: %w", err)
	}

	if err := insertRooms(ctx, tx, l.ID, rooms); err != nil {
		return err
	}
	if err := insertImages(ctx, tx, l.ID, images, now); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit listing: %w", err)
	}
	return nil
}

// ImageChanges describes the image delta of an edit: new uploads,
// metadata updates to kept images, and removals.
type ImageChanges struct {
	Add    []listing.Image
	Update []listing.Image
	Delete []uuid.UUID
}

// UpdateListing rewrites an existing listing, replaces its room list,
// and applies the image delta, all in one transaction.
func (s *Store) UpdateListing(ctx context.Context, l *listing.Listing, rooms []listing.Room, images ImageChanges) error {
	now := time.Now().UTC()
	l.UpdatedAt = now

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	assignments := make([]string, 0, 64)
	for _, col := range strings.Split(listingColumnsHead, ", ") {
		assignments = append(assignments, col+" = ?")
	}
	for _, info := range listing.AmenityCatalog {
		col, _ := predicate.AmenityColumn(info.Key)
		assignments = append(assignments, col+" = ?")
	}
	assignments = append(assignments, "updated_at = ?")

	vals := listingValues(l)
	// listingValues ends with created_at, updated_at; created_at never
	// changes on update.
	vals = append(vals[:len(vals)-2], l.UpdatedAt, l.ID)

	query := "UPDATE listings SET " + strings.Join(assignments, ", ") + " WHERE id = ?"
	res, err := tx.ExecContext(ctx, query, vals...)
	if err != nil {
		return fmt.Errorf("update listing: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update listing: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM listing_rooms WHERE listing_id = ?", l.ID); err != nil {
		return fmt.Errorf("clear rooms: %w", err)
	}
	if err := insertRooms(ctx, tx, l.ID, rooms); err != nil {
		return err
	}

	for _, id := range images.Delete {
		if _, err := tx.ExecContext(ctx, "DELETE FROM listing_images WHERE id = ? AND listing_id = ?", id, l.ID); err != nil {
			return fmt.Errorf("delete image %s: %w", id, err)
		}
	}
	for _, img := range images.Update {
		_, err := tx.ExecContext(ctx, `
			UPDATE listing_images
			SET display_order = ?, is_primary = ?, caption = ?
			WHERE id = ? AND listing_id = ?
		`, img.DisplayOrder, img.IsPrimary, img.Caption, img.ID, l.ID)
		if err != nil {
			return fmt.Errorf("update image %s: %w", img.ID, err)
		}
	}
	if err := insertImages(ctx, tx, l.ID, images.Add, now); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit listing update: %w", err)
	}
	return nil
}

func insertRooms(ctx context.Context, tx *sql.Tx, listingID uuid.UUID, rooms []listing.Room) error {
	for _, r := range rooms {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO listing_rooms (id, listing_id, room_type, name, width_m, length_m, notes)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, r.ID, listingID, string(r.RoomType), r.Name, r.WidthM, r.LengthM, r.Notes)
		if err != nil {
			return fmt.Errorf("insert room: %w", err)
		}
	}
	return nil
}

func insertImages(ctx context.Context, tx *sql.Tx, listingID uuid.UUID, images []listing.Image, now time.Time) error {
	for _, img := range images {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO listing_images (id, listing_id, storage_path, display_order, is_primary, caption, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, img.ID, listingID, img.StoragePath, img.DisplayOrder, img.IsPrimary, img.Caption, now)
		if err != nil {
			return fmt.Errorf("insert image: %w", err)
		}
	}
	return nil
}
