package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tenwick/lettings/internal/predicate"
	"github.com/tenwick/lettings/internal/store"
)

// NewCountCommand creates the count command.
func NewCountCommand(opts *RootOptions) *cobra.Command {
	filters := &filterFlags{}

	cmd := &cobra.Command{
		Use:   "count",
		Short: "Count listings matching the given filters",
		Long:  "Run the same count query the wizard's live matching indicator uses. With no filters, the count is the organisation's total.",
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

			ctx := cmd.Context()

			// Empty criteria short-circuit to the total, same as the wizard.
			var count int
			if c.Empty() {
				count, err = s.TotalCount(ctx, orgID)
			} else {
				count, err = s.CountListings(ctx, predicate.FromCriteria(orgID, c))
			}
			if err != nil {
				out.Error(err.Error())
				return WrapExitError(ExitFailure, "count listings", err)
			}

			return out.Success(countResult{Matching: count})
		},
	}

	filters.register(cmd)
	return cmd
}

type countResult struct {
	Matching int `json:"matching"`
}

func (r countResult) String() string {
	return fmt.Sprintf("%d matching listings", r.Matching)
}
