package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tenwick/lettings/internal/fixture"
	"github.com/tenwick/lettings/internal/store"
)

// NewSeedCommand creates the seed command.
func NewSeedCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed <fixture.yaml>",
		Short: "Seed the database from a YAML fixture",
		Long:  "Validate a YAML fixture against the listing schema and insert its listings. The fixture is rejected wholesale on any validation error; nothing is written.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := &OutputFormatter{
				Format:    opts.Format,
				Writer:    cmd.OutOrStdout(),
				ErrWriter: cmd.ErrOrStderr(),
				Verbose:   opts.Verbose,
			}

			f, err := fixture.Load(args[0])
			if err != nil {
				out.Error(err.Error())
				return WrapExitError(ExitFailure, "fixture rejected", err)
			}
			out.VerboseLog("fixture valid: %d listings for organisation %s", len(f.Listings), f.Organisation)

			s, err := store.Open(opts.DBPath)
			if err != nil {
				out.Error(err.Error())
				return WrapExitError(ExitCommandError, "open database", err)
			}
			defer s.Close()

			ctx := cmd.Context()
			for _, m := range f.Materialize() {
				if err := s.SaveListing(ctx, m.Listing, nil, m.Images); err != nil {
					out.Error(err.Error())
					return WrapExitError(ExitFailure, "insert listing", err)
				}
			}

			return out.Success(seedResult{
				Organisation: f.Organisation.String(),
				Inserted:     len(f.Listings),
			})
		},
	}
	return cmd
}

type seedResult struct {
	Organisation string `json:"organisation"`
	Inserted     int    `json:"inserted"`
}

func (r seedResult) String() string {
	return fmt.Sprintf("seeded %d listings for organisation %s", r.Inserted, r.Organisation)
}
