package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/entail/internal/runlog"
)

// NewRunsCommand creates the runs command.
func NewRunsCommand(rootOpts *RootOptions) *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:           "runs",
		Short:         "List recorded runs",
		Long:          "List the runs recorded in a run log, newest first.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRuns(rootOpts, dbPath, cmd)
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "run log database path (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runRuns(opts *RootOptions, dbPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	log, err := runlog.Open(dbPath)
	if err != nil {
		_ = formatter.Error(ErrCodeRunLog, err.Error(), nil)
		return WrapExitError(ExitCommandError, "opening run log", err)
	}
	defer log.Close()

	runs, err := log.ListRuns(cmd.Context())
	if err != nil {
		_ = formatter.Error(ErrCodeRunLog, err.Error(), nil)
		return WrapExitError(ExitCommandError, "listing runs", err)
	}

	if formatter.Format == "json" {
		return formatter.Success(runs)
	}

	if len(runs) == 0 {
		fmt.Fprintln(formatter.Writer, "no runs recorded")
		return nil
	}
	for _, r := range runs {
		fmt.Fprintf(formatter.Writer, "%s  %-14s %s  %d step(s)  %d branch(es)\n",
			r.CreatedAt, r.Phase, r.Token, r.Steps, r.Branches)
	}
	return nil
}
