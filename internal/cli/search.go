package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tenwick/lettings/internal/search"
	"github.com/tenwick/lettings/internal/store"
)

// NewSearchCommand creates the search command.
func NewSearchCommand(opts *RootOptions) *cobra.Command {
	filters := &filterFlags{}
	var imageBaseURL string

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search listings matching the given filters",
		Long:  "Execute a full search through the wizard's session: the filters compile to one query, results come back in stable order with primary images resolved in a single batch.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := &OutputFormatter{
				Format:    opts.Format,
				Writer:    cmd.OutOrStdout(),
				ErrWriter: cmd.ErrOrStderr(),
				Verbose:   opts.Verbose,
			}

			orgID, c, err := filters.parse()
			if err != nil {
				out.Error(err.Error())
				return WrapExitError(ExitCommandError, "invalid filters", err)
			}

			s, err := store.Open(opts.DBPath)
			if err != nil {
				out.Error(err.Error())
				return WrapExitError(ExitCommandError, "open database", err)
			}
			defer s.Close()

			images := store.ImageSource{
				Store:    s,
				Resolver: store.Resolver{BaseURL: imageBaseURL},
			}

			ctx := cmd.Context()
			session := search.NewSession(s, images, orgID)
			if err := session.Start(ctx); err != nil {
				out.Error(err.Error())
				return WrapExitError(ExitFailure, "start session", err)
			}
			defer session.Close()

			for _, suburb := range c.Suburbs {
				session.ToggleSuburb(suburb)
			}
			for _, pt := range c.PropertyTypes {
				session.TogglePropertyType(pt)
			}
			for _, b := range c.Bedrooms {
				session.ToggleBedroom(b)
			}
			for _, a := range c.Amenities {
				session.ToggleAmenity(a)
			}
			if c.ElevatorRequired {
				session.SetElevatorRequired(true)
			}

			results, err := session.ExecuteSearch(ctx)
			if err != nil {
				out.Error(err.Error())
				return WrapExitError(ExitFailure, "execute search", err)
			}
			out.VerboseLog("%d of %d listings match", len(results), session.TotalAssets())

			if opts.Format == "json" {
				return out.Success(toSearchRows(results))
			}
			return out.Success(renderResults(results))
		},
	}

	filters.register(cmd)
	cmd.Flags().StringVar(&imageBaseURL, "images-base-url", "", "public base URL for image paths")
	return cmd
}

type searchRow struct {
	ID           string   `json:"id"`
	AddressLine1 string   `json:"address_line_1,omitempty"`
	Suburb       string   `json:"suburb,omitempty"`
	City         string   `json:"city,omitempty"`
	State        string   `json:"state,omitempty"`
	Bedrooms     *int     `json:"bedrooms,omitempty"`
	Bathrooms    *int     `json:"bathrooms,omitempty"`
	RentWeekly   *float64 `json:"rent_weekly,omitempty"`
	PropertyType string   `json:"property_type,omitempty"`
	AvailableFrom string  `json:"available_from,omitempty"`
	PrimaryImage string   `json:"primary_image,omitempty"`
}

func toSearchRows(results []search.Result) []searchRow {
	rows := make([]searchRow, len(results))
	for i, r := range results {
		rows[i] = searchRow{
			ID:            r.ID.String(),
			AddressLine1:  r.AddressLine1,
			Suburb:        r.Suburb,
			City:          r.City,
			State:         r.State,
			Bedrooms:      r.Bedrooms,
			Bathrooms:     r.Bathrooms,
			RentWeekly:    r.RentWeekly,
			PropertyType:  string(r.PropertyType),
			AvailableFrom: r.AvailableFrom,
			PrimaryImage:  r.PrimaryImageURL,
		}
	}
	return rows
}

// renderResults formats results as one line per listing.
func renderResults(results []search.Result) string {
	if len(results) == 0 {
		return "no matching listings"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d matching listings\n", len(results))
	for _, r := range results {
		parts := []string{}
		if r.AddressLine1 != "" {
			parts = append(parts, r.AddressLine1)
		}
		if r.Suburb != "" {
			parts = append(parts, r.Suburb)
		}
		if r.Bedrooms != nil {
			parts = append(parts, fmt.Sprintf("%d bed", *r.Bedrooms))
		}
		if r.RentWeekly != nil {
			parts = append(parts, fmt.Sprintf("$%.0f/wk", *r.RentWeekly))
		}
		if r.PropertyType != "" {
			parts = append(parts, string(r.PropertyType))
		}
		fmt.Fprintf(&b, "  %s  %s\n", r.ID, strings.Join(parts, ", "))
	}
	return strings.TrimRight(b.String(), "\n")
}
