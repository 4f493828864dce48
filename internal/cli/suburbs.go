package cli

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/tenwick/lettings/internal/store"
)

// NewSuburbsCommand creates the suburbs command.
func NewSuburbsCommand(opts *RootOptions) *cobra.Command {
	var org string

	cmd := &cobra.Command{
		Use:   "suburbs",
		Short: "List the distinct suburbs of an organisation's listings",
		Long:  "Print the suburb choices the wizard's first step offers, in collated order.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := &OutputFormatter{
				Format:    opts.Format,
				Writer:    cmd.OutOrStdout(),
				ErrWriter: cmd.ErrOrStderr(),
				Verbose:   opts.Verbose,
			}

			orgID, err := uuid.Parse(org)
			if err != nil {
				out.Error(fmt.Sprintf("invalid --org: %v", err))
				return WrapExitError(ExitCommandError, "invalid organisation id", err)
			}

			s, err := store.Open(opts.DBPath)
			if err != nil {
				out.Error(err.Error())
				return WrapExitError(ExitCommandError, "open database", err)
			}
			defer s.Close()

			suburbs, err := s.DistinctSuburbs(cmd.Context(), orgID)
			if err != nil {
				out.Error(err.Error())
				return WrapExitError(ExitFailure, "list suburbs", err)
			}

			if opts.Format == "json" {
				return out.Success(suburbs)
			}
			if len(suburbs) == 0 {
				return out.Success("no suburbs")
			}
			return out.Success(strings.Join(suburbs, "\n"))
		},
	}

	cmd.Flags().StringVar(&org, "org", "", "organisation id (required)")
	cmd.MarkFlagRequired("org")
	return cmd
}
