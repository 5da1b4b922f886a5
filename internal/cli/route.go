package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/cubera-io/cubera/internal/query"
	"github.com/cubera-io/cubera/internal/routing"
	"github.com/cubera-io/cubera/internal/selector"
)

// RouteOptions holds flags for the route command.
type RouteOptions struct {
	DBPath       string
	Project      string
	BlackoutPath string
	ShowTrace    bool
}

// RouteResult is the outcome of routing one query.
type RouteResult struct {
	QueryID     string            `json:"query_id"`
	Model       string            `json:"model,omitempty"`
	Realization string            `json:"realization,omitempty"`
	AliasMap    map[string]string `json:"alias_map,omitempty"`
	Error       *CLIError         `json:"error,omitempty"`
	Trace       *routing.Trace    `json:"trace,omitempty"`
}

// RouteReport is the success payload of a route run.
type RouteReport struct {
	Project  string        `json:"project"`
	Snapshot string        `json:"snapshot"`
	Results  []RouteResult `json:"results"`
	Failed   int           `json:"failed"`
}

// NewRouteCommand creates the route command.
func NewRouteCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RouteOptions{}

	cmd := &cobra.Command{
		Use:   "route <query.yaml>",
		Short: "Route queries to realizations",
		Long: `Route each query in a YAML batch against the stored catalog.

Every query is routed independently: a query that cannot be served
reports its failure and the run continues. The command exits non-zero
when any query failed.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoute(rootOpts, opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DBPath, "db", "catalog.db", "catalog store path")
	cmd.Flags().StringVar(&opts.Project, "project", "", "project to route against (defaults to the query file's project)")
	cmd.Flags().StringVar(&opts.BlackoutPath, "blackout", "", "blackout config path (YAML deny list)")
	cmd.Flags().BoolVar(&opts.ShowTrace, "trace", false, "include the per-query attempt trace")

	return cmd
}

func runRoute(rootOpts *RootOptions, opts *RouteOptions, queryPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    rootOpts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   rootOpts.Verbose,
	}

	project, contexts, err := LoadQueryFile(queryPath, query.UUIDv7Generator{})
	if err != nil {
		_ = formatter.Error(ErrCodeQueryFile, err.Error(), nil)
		return NewExitError(ExitCommandError, err.Error())
	}
	if opts.Project != "" {
		project = opts.Project
	}

	denied, err := LoadBlackoutConfig(opts.BlackoutPath)
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return NewExitError(ExitCommandError, err.Error())
	}

	s, err := openExistingStore(opts.DBPath)
	if err != nil {
		_ = formatter.Error(ErrCodeStoreFailed, err.Error(), nil)
		return NewExitError(ExitCommandError, err.Error())
	}
	defer s.Close()

	snap, err := s.LoadSnapshot(cmd.Context(), project)
	if err != nil {
		_ = formatter.Error(ErrCodeStoreFailed, err.Error(), nil)
		return NewExitError(ExitCommandError, err.Error())
	}

	chooserOpts := []routing.Option{routing.WithBlackout(denied...)}
	if rootOpts.Verbose {
		chooserOpts = append(chooserOpts,
			routing.WithLogger(slog.New(slog.NewTextHandler(formatter.GetErrWriter(), nil))))
	}
	chooser := routing.NewChooser(selector.LowestCost{}, chooserOpts...)

	report := RouteReport{
		Project:  project,
		Snapshot: snap.Fingerprint(),
		Results:  make([]RouteResult, 0, len(contexts)),
	}
	for _, qc := range contexts {
		res, trace, err := chooser.RouteWithTrace(qc, snap)

		result := RouteResult{QueryID: qc.ID}
		if opts.ShowTrace {
			result.Trace = trace
		}
		if err != nil {
			result.Error = &CLIError{Code: routeErrorCode(err), Message: err.Error()}
			report.Failed++
		} else {
			result.Model = res.Model.Name()
			result.Realization = res.Realization.Name
			result.AliasMap = res.Mapping
		}
		report.Results = append(report.Results, result)
	}

	if err := outputRouteReport(formatter, report, opts.ShowTrace); err != nil {
		return err
	}
	if report.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d queries failed to route", report.Failed, len(report.Results)))
	}
	return nil
}

func outputRouteReport(formatter *OutputFormatter, report RouteReport, showTrace bool) error {
	if formatter.Format == "json" {
		if report.Failed > 0 {
			return formatter.Error(ErrCodeGeneric,
				fmt.Sprintf("%d of %d queries failed to route", report.Failed, len(report.Results)),
				report)
		}
		return formatter.Success(report)
	}

	fmt.Fprintf(formatter.Writer, "project %s, snapshot %s\n", report.Project, report.Snapshot)
	for _, r := range report.Results {
		if r.Error != nil {
			fmt.Fprintf(formatter.Writer, "✗ %s: [%s] %s\n", r.QueryID, r.Error.Code, r.Error.Message)
		} else {
			fmt.Fprintf(formatter.Writer, "✓ %s: %s via %s\n", r.QueryID, r.Realization, r.Model)
		}
		if showTrace && r.Trace != nil {
			for _, a := range r.Trace.Attempts {
				fmt.Fprintf(formatter.Writer, "    %s %s cost=%s", a.Outcome, a.Model, a.Cost)
				if a.Realization != "" {
					fmt.Fprintf(formatter.Writer, " realization=%s", a.Realization)
				}
				fmt.Fprintln(formatter.Writer)
			}
		}
	}
	return nil
}
