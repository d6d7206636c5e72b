package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/dayline/internal/store"
)

// NewReplayCommand creates the replay subcommand: print the normalized
// report of an archived session.
func NewReplayCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay <db> [session-id]",
		Short: "Print an archived session's report, or list sessions",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := &OutputFormatter{
				Format:    opts.Format,
				Writer:    cmd.OutOrStdout(),
				ErrWriter: cmd.ErrOrStderr(),
				Verbose:   opts.Verbose,
			}
			if len(args) == 1 {
				return runReplayList(cmd, f, args[0])
			}
			return runReplay(cmd, f, args[0], args[1])
		},
	}
	return cmd
}

func runReplayList(cmd *cobra.Command, f *OutputFormatter, dbPath string) error {
	s, err := store.Open(dbPath)
	if err != nil {
		f.Error(ErrCodeArchive, err.Error(), nil)
		return WrapExitError(ExitCommandError, "open archive", err)
	}
	defer s.Close()

	ids, err := s.ListSessions(cmd.Context())
	if err != nil {
		f.Error(ErrCodeArchive, err.Error(), nil)
		return WrapExitError(ExitCommandError, "list sessions", err)
	}

	if f.Format == "json" {
		return f.Success(ids)
	}
	if len(ids) == 0 {
		return f.Success("no archived sessions")
	}
	for _, id := range ids {
		fmt.Fprintln(f.Writer, id)
	}
	return nil
}

func runReplay(cmd *cobra.Command, f *OutputFormatter, dbPath, sessionID string) error {
	s, err := store.Open(dbPath)
	if err != nil {
		f.Error(ErrCodeArchive, err.Error(), nil)
		return WrapExitError(ExitCommandError, "open archive", err)
	}
	defer s.Close()

	report, err := s.ReadSession(cmd.Context(), sessionID)
	if err != nil {
		f.Error(ErrCodeArchive, err.Error(), nil)
		if store.IsSessionNotFound(err) {
			return WrapExitError(ExitFailure, "replay", err)
		}
		return WrapExitError(ExitCommandError, "replay", err)
	}

	if f.Format == "json" {
		return f.Success(report)
	}

	printReport(f, report)
	return nil
}

func printReport(f *OutputFormatter, r *store.Report) {
	fmt.Fprintf(f.Writer, "session:  %s\n", r.SessionID)
	fmt.Fprintf(f.Writer, "position: day %d / %s\n", r.Day, r.Slot)
	fmt.Fprintf(f.Writer, "budget:   %d\n", r.Budget)
	fmt.Fprintf(f.Writer, "reputation: %d\n", r.Reputation)
	if r.Notes != "" {
		fmt.Fprintf(f.Writer, "notes:    %s\n", r.Notes)
	}

	if len(r.Decisions) > 0 {
		fmt.Fprintln(f.Writer, "\ndecisions:")
		for _, d := range r.Decisions {
			fmt.Fprintf(f.Writer, "  [%3d] %s -> %s\n", d.Ordinal, d.NodeID, d.OptionID)
		}
	}
	if len(r.Comparisons) > 0 {
		fmt.Fprintln(f.Writer, "\ncomparisons:")
		for _, c := range r.Comparisons {
			fmt.Fprintf(f.Writer, "  [%3d] %s: %s", c.Ordinal, c.ExpectedID, c.Outcome)
			if c.Missing != "" {
				fmt.Fprintf(f.Writer, " missing=%s", c.Missing)
			}
			fmt.Fprintln(f.Writer)
		}
		fmt.Fprintf(f.Writer, "\ndeviations: %d\n", r.Deviations())
	}
	if len(r.Completed) > 0 {
		fmt.Fprintln(f.Writer, "\ncompleted:")
		for _, id := range r.Completed {
			fmt.Fprintf(f.Writer, "  %s\n", id)
		}
	}
}
