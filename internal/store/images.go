package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// PrimaryImagePaths returns the storage path of the primary image for
// each of the given listings, keyed by listing ID. Listings without a
// primary image are simply absent from the map.
//
// One batched IN query for the whole ID list - never a per-listing
// round trip.
func (s *Store) PrimaryImagePaths(ctx context.Context, listingIDs []uuid.UUID) (map[uuid.UUID]string, error) {
	paths := make(map[uuid.UUID]string, len(listingIDs))
	if len(listingIDs) == 0 {
		return paths, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(listingIDs)), ", ")
	args := make([]any, len(listingIDs))
	for i, id := range listingIDs {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT listing_id, storage_path
		FROM listing_images
		WHERE is_primary = 1 AND listing_id IN (`+placeholders+`)
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("query primary images: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var listingID uuid.UUID
		var path string
		if err := rows.Scan(&listingID, &path); err != nil {
			return nil, fmt.Errorf("scan primary image: %w", err)
		}
		paths[listingID] = path
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate primary images: %w", err)
	}

	return paths, nil
}

// Resolver turns stored image paths into public URLs.
type Resolver struct {
	// BaseURL is the public root of the image bucket, without a
	// trailing slash.
	BaseURL string
}

// PublicURL returns the public URL for a storage path.
func (r Resolver) PublicURL(storagePath string) string {
	return r.BaseURL + "/" + strings.TrimPrefix(storagePath, "/")
}

// ImageSource bundles a Store with a Resolver so callers get the
// batched path lookup and URL resolution from one value.
type ImageSource struct {
	*Store
	Resolver
}
