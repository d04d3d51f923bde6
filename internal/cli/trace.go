package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/entail/internal/engine"
	"github.com/roach88/entail/internal/runlog"
)

// TraceResult holds the recorded run summary and its event stream.
type TraceResult struct {
	Run    *runlog.RunRecord   `json:"run"`
	Events []engine.TraceEvent `json:"events"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "trace <run-token>",
		Short: "Show the recorded event stream of a run",
		Long: `Print the rewrite, branch, veto, and completion events recorded for a
run, in the order the engine emitted them.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(rootOpts, dbPath, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "run log database path (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runTrace(opts *RootOptions, dbPath, token string, cmd *cobra.Command) error {
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

	rec, err := log.ReadRun(cmd.Context(), token)
	if err != nil {
		if errors.Is(err, runlog.ErrRunNotFound) {
			_ = formatter.Error(ErrCodeNotFound, fmt.Sprintf("run %q not found", token), nil)
			return WrapExitError(ExitCommandError, "reading run", err)
		}
		_ = formatter.Error(ErrCodeRunLog, err.Error(), nil)
		return WrapExitError(ExitCommandError, "reading run", err)
	}

	events, err := log.ReadEvents(cmd.Context(), token)
	if err != nil {
		_ = formatter.Error(ErrCodeRunLog, err.Error(), nil)
		return WrapExitError(ExitCommandError, "reading events", err)
	}

	if formatter.Format == "json" {
		return formatter.Success(TraceResult{Run: rec, Events: events})
	}

	fmt.Fprintf(formatter.Writer, "run %s  %s  %d step(s)  %d branch(es)\n",
		rec.Token, rec.Phase, rec.Steps, rec.Branches)
	for _, ev := range events {
		fmt.Fprintf(formatter.Writer, "%4d  %-14s %s\n", ev.Seq, ev.Type, formatTraceEvent(ev))
	}
	return nil
}

// formatTraceEvent renders the event-specific fields on one line.
func formatTraceEvent(ev engine.TraceEvent) string {
	var parts []string
	add := func(label, value string) {
		if value != "" {
			parts = append(parts, label+"="+value)
		}
	}
	add("stage", ev.Stage)
	add("before", ev.Before)
	add("after", ev.After)
	add("branch", ev.Branch)
	add("member", ev.Member)
	add("submodel", ev.Submodel)
	add("axiom", ev.Axiom)
	add("reason", ev.Reason)
	add("phase", ev.Phase)
	if ev.Steps > 0 {
		parts = append(parts, fmt.Sprintf("steps=%d", ev.Steps))
	}
	return strings.Join(parts, " ")
}
