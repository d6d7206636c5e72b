package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/dayline/internal/grade"
	"github.com/roach88/dayline/internal/harness"
	"github.com/roach88/dayline/internal/store"
)

// NewExportCommand creates the export subcommand: run a scenario and
// archive the finished session to SQLite.
func NewExportCommand(opts *RootOptions) *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "export <scenario.yaml>",
		Short: "Run a scenario and archive the resulting session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := &OutputFormatter{
				Format:    opts.Format,
				Writer:    cmd.OutOrStdout(),
				ErrWriter: cmd.ErrOrStderr(),
				Verbose:   opts.Verbose,
			}
			return runExport(cmd, f, args[0], dbPath)
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "dayline.db", "path to the archive database")
	return cmd
}

func runExport(cmd *cobra.Command, f *OutputFormatter, scenarioPath, dbPath string) error {
	scenario, err := harness.LoadScenario(scenarioPath)
	if err != nil {
		f.Error(ErrCodeScenario, err.Error(), nil)
		return WrapExitError(ExitCommandError, "load scenario", err)
	}

	result, err := harness.Run(scenario)
	if err != nil {
		f.Error(ErrCodeRun, err.Error(), nil)
		return WrapExitError(ExitFailure, "run scenario", err)
	}

	s, err := store.Open(dbPath)
	if err != nil {
		f.Error(ErrCodeArchive, err.Error(), nil)
		return WrapExitError(ExitCommandError, "open archive", err)
	}
	defer s.Close()

	expected := make([]grade.ExpectedAction, 0, len(result.Catalog.Expected))
	for _, exp := range result.Catalog.Expected {
		expected = append(expected, grade.ExpectedAction{
			ID:          exp.ID,
			TargetID:    exp.Target,
			Rule:        exp.Rule,
			Constraints: exp.Constraints,
		})
	}

	if err := s.WriteSession(cmd.Context(), result.Snapshot, expected); err != nil {
		f.Error(ErrCodeArchive, err.Error(), nil)
		return WrapExitError(ExitCommandError, "archive session", err)
	}

	if f.Format == "json" {
		return f.Success(map[string]string{
			"session_id": result.Snapshot.SessionID,
			"db":         dbPath,
		})
	}
	return f.Success(fmt.Sprintf("archived session %s to %s", result.Snapshot.SessionID, dbPath))
}
