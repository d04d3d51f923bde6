package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/entail/internal/compiler"
	"github.com/roach88/entail/internal/engine"
	"github.com/roach88/entail/internal/geo"
	"github.com/roach88/entail/internal/runlog"
)

// CheckResult holds the outcome of one consistency check.
type CheckResult struct {
	Token     string   `json:"token"`
	Verdict   string   `json:"verdict"` // "solved" or "unsatisfiable"
	Facts     []string `json:"facts,omitempty"`
	Unhandled []string `json:"unhandled,omitempty"`
	Conflict  string   `json:"conflict,omitempty"`
	Steps     int      `json:"steps"`
	Branches  int      `json:"branches"`
}

// CheckOptions holds flags for the check command.
type CheckOptions struct {
	DBPath   string // record the run in this run log when set
	MaxSteps int
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CheckOptions{}

	cmd := &cobra.Command{
		Use:   "check <document.cue>",
		Short: "Check an axiom document for consistency",
		Long: `Compile a CUE axiom document, drain it through the engine, and report
the verdict: solved with the entailed facts, or unsatisfiable with the
triggering conflict.

With --db, the run (verdict, facts, trace, source) is recorded in a
SQLite run log for later replay and trace inspection.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(rootOpts, opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DBPath, "db", "", "run log database path (optional)")
	cmd.Flags().IntVar(&opts.MaxSteps, "max-steps", engine.DefaultMaxSteps, "step quota across all branches")

	return cmd
}

func runCheck(rootOpts *RootOptions, opts *CheckOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    rootOpts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   rootOpts.Verbose,
	}

	doc, src, err := compileDocumentFile(path)
	if err != nil {
		return err
	}
	formatter.VerboseLog("Compiled %s: %d axiom(s)", path, len(doc.Axioms))

	reg := geo.NewRegistry()
	if verrs := compiler.Validate(doc, reg); len(verrs) > 0 {
		return outputValidationErrors(formatter, verrs)
	}

	tracer := engine.NewTracer()
	eng := engine.New(reg, geo.NewModel,
		engine.WithObserver(tracer),
		engine.WithMaxSteps(opts.MaxSteps),
	)

	res, err := eng.Check(cmd.Context(), doc.Arena, doc.Axioms...)
	if err != nil {
		_ = formatter.Error(ErrCodeEngine, err.Error(), nil)
		return WrapExitError(ExitCommandError, "check failed", err)
	}

	if opts.DBPath != "" {
		if err := recordRun(cmd, opts.DBPath, res, src, tracer.Events()); err != nil {
			_ = formatter.Error(ErrCodeRunLog, err.Error(), nil)
			return WrapExitError(ExitCommandError, "recording run", err)
		}
		formatter.VerboseLog("Recorded run %s in %s", res.RunToken, opts.DBPath)
	}

	return outputCheckResult(formatter, res)
}

// compileDocumentFile reads and compiles a CUE document, mapping
// failures to command-level exit errors.
func compileDocumentFile(path string) (*compiler.Document, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", WrapExitError(ExitCommandError, "reading document", err)
	}
	doc, err := compiler.CompileString(string(data))
	if err != nil {
		return nil, "", WrapExitError(ExitCommandError, "compiling document", err)
	}
	if doc.Name == "" {
		doc.Name = path
	}
	return doc, string(data), nil
}

func recordRun(cmd *cobra.Command, dbPath string, res *engine.Result, source string, events []engine.TraceEvent) error {
	log, err := runlog.Open(dbPath)
	if err != nil {
		return err
	}
	defer log.Close()
	return log.WriteRun(cmd.Context(), res, source, events)
}

func outputCheckResult(formatter *OutputFormatter, res *engine.Result) error {
	result := CheckResult{
		Token:    res.RunToken,
		Verdict:  res.Phase.String(),
		Steps:    res.Steps,
		Branches: res.Branches,
	}
	if res.Model != nil {
		for _, at := range res.Model.Facts() {
			result.Facts = append(result.Facts, at.String())
		}
	}
	for _, at := range res.Unhandled {
		result.Unhandled = append(result.Unhandled, at.String())
	}
	if res.Conflict != nil {
		result.Conflict = res.Conflict.Error()
	}

	if formatter.Format == "json" {
		if err := formatter.Success(result); err != nil {
			return err
		}
	} else {
		printCheckText(formatter, result)
	}

	if !res.Consistent() {
		return NewExitError(ExitFailure, fmt.Sprintf("document unsatisfiable: %s", result.Conflict))
	}
	return nil
}

func printCheckText(formatter *OutputFormatter, result CheckResult) {
	w := formatter.Writer
	if result.Verdict == "solved" {
		fmt.Fprintf(w, "✓ solved (run %s, %d steps, %d branches)\n", result.Token, result.Steps, result.Branches)
		for _, fact := range result.Facts {
			fmt.Fprintf(w, "  %s\n", fact)
		}
	} else {
		fmt.Fprintf(w, "✗ unsatisfiable (run %s)\n", result.Token)
		if result.Conflict != "" {
			fmt.Fprintf(w, "  conflict: %s\n", result.Conflict)
		}
	}
	if len(result.Unhandled) > 0 {
		fmt.Fprintf(w, "unhandled (%d):\n", len(result.Unhandled))
		for _, at := range result.Unhandled {
			fmt.Fprintf(w, "  %s\n", at)
		}
	}
}
