package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/entail/internal/geo"
	"github.com/roach88/entail/internal/runlog"
)

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "replay <run-token>",
		Short: "Re-run a recorded check and compare outcomes",
		Long: `Recompile the stored source of a recorded run, drain it through a
fresh engine, and compare the verdict, entailed facts, and unhandled
set against what was recorded.

A mismatch means the recorded run is stale or the log was tampered
with; it exits with code 1.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(rootOpts, dbPath, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "run log database path (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runReplay(opts *RootOptions, dbPath, token string, cmd *cobra.Command) error {
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

	res, err := log.Replay(cmd.Context(), token, geo.NewRegistry(), geo.NewModel)
	if err != nil {
		if errors.Is(err, runlog.ErrRunNotFound) {
			_ = formatter.Error(ErrCodeNotFound, fmt.Sprintf("run %q not found", token), nil)
			return WrapExitError(ExitCommandError, "replaying run", err)
		}
		_ = formatter.Error(ErrCodeRunLog, err.Error(), nil)
		return WrapExitError(ExitCommandError, "replaying run", err)
	}

	if formatter.Format == "json" {
		if err := formatter.Success(res); err != nil {
			return err
		}
	} else if res.Match {
		fmt.Fprintf(formatter.Writer, "✓ replay of %s matched (%s)\n", res.Token, res.RecordedPhase)
	} else {
		fmt.Fprintf(formatter.Writer, "✗ replay of %s diverged\n", res.Token)
		for _, m := range res.Mismatches {
			fmt.Fprintf(formatter.Writer, "  %s\n", m)
		}
	}

	if !res.Match {
		return NewExitError(ExitFailure, fmt.Sprintf("replay diverged with %d mismatch(es)", len(res.Mismatches)))
	}
	return nil
}
