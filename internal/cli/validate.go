package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/dayline/internal/content"
)

// NewValidateCommand creates the validate subcommand: compile a catalog
// directory and report errors with source positions.
func NewValidateCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <content-dir>",
		Short: "Compile and validate a scenario catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := &OutputFormatter{
				Format:    opts.Format,
				Writer:    cmd.OutOrStdout(),
				ErrWriter: cmd.ErrOrStderr(),
				Verbose:   opts.Verbose,
			}
			return runValidate(f, args[0])
		},
	}
	return cmd
}

func runValidate(f *OutputFormatter, dir string) error {
	f.VerboseLog("validating catalog in %s", dir)

	cat, err := content.LoadDir(dir)
	if err != nil {
		var loadErr *content.LoadError
		if errors.As(err, &loadErr) {
			f.Error(loadErr.Code, loadErr.Error(), nil)
			return NewExitError(ExitFailure, loadErr.Error())
		}
		f.Error(content.ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "validate", err)
	}

	summary := validateSummary{
		Sequences:    len(cat.Sequences),
		Nodes:        len(cat.Nodes),
		SimpleEvents: len(cat.SimpleEvents),
		Stakeholders: len(cat.Stakeholders),
		Expected:     len(cat.Expected),
		Scheduled:    len(cat.Schedule),
	}

	if f.Format == "json" {
		return f.Success(summary)
	}
	return f.Success(summary.String())
}

type validateSummary struct {
	Sequences    int `json:"sequences"`
	Nodes        int `json:"nodes"`
	SimpleEvents int `json:"simple_events"`
	Stakeholders int `json:"stakeholders"`
	Expected     int `json:"expected"`
	Scheduled    int `json:"scheduled"`
}

func (s validateSummary) String() string {
	return fmt.Sprintf(
		"catalog OK: %d sequences, %d nodes, %d simple events, %d stakeholders, %d expectations, %d scheduled",
		s.Sequences, s.Nodes, s.SimpleEvents, s.Stakeholders, s.Expected, s.Scheduled,
	)
}
