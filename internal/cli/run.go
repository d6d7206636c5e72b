package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/dayline/internal/harness"
)

// NewRunCommand creates the run subcommand: execute a scenario file and
// print the resulting trace, failing when assertions do not hold.
func NewRunCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <scenario.yaml>",
		Short: "Run a scripted scenario against a fresh session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := &OutputFormatter{
				Format:    opts.Format,
				Writer:    cmd.OutOrStdout(),
				ErrWriter: cmd.ErrOrStderr(),
				Verbose:   opts.Verbose,
			}
			return runScenario(f, args[0])
		},
	}
	return cmd
}

func runScenario(f *OutputFormatter, path string) error {
	scenario, err := harness.LoadScenario(path)
	if err != nil {
		f.Error(ErrCodeScenario, err.Error(), nil)
		return WrapExitError(ExitCommandError, "load scenario", err)
	}

	f.VerboseLog("running scenario %s (%d steps)", scenario.Name, len(scenario.Steps))

	result, err := harness.Run(scenario)
	if err != nil {
		f.Error(ErrCodeRun, err.Error(), nil)
		return WrapExitError(ExitFailure, "run scenario", err)
	}

	failures := harness.Check(result)

	if f.Format == "json" {
		traceJSON, err := harness.TraceJSON(result)
		if err != nil {
			return WrapExitError(ExitCommandError, "marshal trace", err)
		}
		payload := runPayload{
			Scenario: scenario.Name,
			Trace:    string(traceJSON),
			Failures: failures,
		}
		if len(failures) > 0 {
			f.Success(payload)
			return NewExitError(ExitFailure, fmt.Sprintf("%d assertion(s) failed", len(failures)))
		}
		return f.Success(payload)
	}

	printTextTrace(f, result)
	if len(failures) > 0 {
		fmt.Fprintf(f.Writer, "\nFAILED (%d assertion(s)):\n", len(failures))
		for _, msg := range failures {
			fmt.Fprintf(f.Writer, "  - %s\n", msg)
		}
		return NewExitError(ExitFailure, fmt.Sprintf("%d assertion(s) failed", len(failures)))
	}
	fmt.Fprintf(f.Writer, "\nOK: %d assertion(s) passed\n", len(scenario.Assertions))
	return nil
}

type runPayload struct {
	Scenario string   `json:"scenario"`
	Trace    string   `json:"trace"`
	Failures []string `json:"failures,omitempty"`
}

func printTextTrace(f *OutputFormatter, result *harness.Result) {
	snap := result.Snapshot

	fmt.Fprintf(f.Writer, "scenario: %s\n", result.Scenario.Name)
	fmt.Fprintf(f.Writer, "session:  %s\n", snap.SessionID)
	fmt.Fprintf(f.Writer, "position: %s\n", snap.At.String())
	fmt.Fprintf(f.Writer, "budget:   %d\n", snap.Budget)
	fmt.Fprintf(f.Writer, "reputation: %d\n", snap.Reputation)

	if len(snap.Decisions) > 0 {
		fmt.Fprintln(f.Writer, "\ndecisions:")
		for _, d := range snap.Decisions {
			fmt.Fprintf(f.Writer, "  [%3d] %s -> %s\n", d.Ordinal, d.NodeID, d.OptionID)
		}
	}
	if len(snap.Comparisons) > 0 {
		fmt.Fprintln(f.Writer, "\ncomparisons:")
		for _, c := range snap.Comparisons {
			fmt.Fprintf(f.Writer, "  [%3d] %s: %s\n", c.Ordinal, c.ExpectedID, c.Result.Outcome)
		}
	}
	if len(snap.Completed) > 0 {
		fmt.Fprintf(f.Writer, "\ncompleted: %s\n", strings.Join(snap.Completed, ", "))
	}
}

// Error codes for run/export/replay commands.
const (
	ErrCodeScenario = "E201" // Scenario load/parse error
	ErrCodeRun      = "E202" // Scenario execution error
	ErrCodeArchive  = "E203" // Archive read/write error
)
