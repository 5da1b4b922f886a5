package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// ReadyOptions holds flags for the ready command.
type ReadyOptions struct {
	DBPath  string
	Project string
	Off     bool
}

// ReadyResult is the success payload of a readiness change.
type ReadyResult struct {
	Project     string `json:"project"`
	Realization string `json:"realization"`
	Ready       bool   `json:"ready"`
}

// NewReadyCommand creates the ready command.
func NewReadyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReadyOptions{}

	cmd := &cobra.Command{
		Use:   "ready <realization>",
		Short: "Mark a stored realization ready or not ready",
		Long: `Flip a stored realization's ready flag.

A realization that is not ready stays in the catalog but is never
selected by routing. Use --off to take a realization out of service
without deleting it.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReady(rootOpts, opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DBPath, "db", "catalog.db", "catalog store path")
	cmd.Flags().StringVar(&opts.Project, "project", "default", "project holding the realization")
	cmd.Flags().BoolVar(&opts.Off, "off", false, "mark not ready instead of ready")

	return cmd
}

func runReady(rootOpts *RootOptions, opts *ReadyOptions, name string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    rootOpts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   rootOpts.Verbose,
	}

	s, err := openExistingStore(opts.DBPath)
	if err != nil {
		_ = formatter.Error(ErrCodeStoreFailed, err.Error(), nil)
		return NewExitError(ExitCommandError, err.Error())
	}
	defer s.Close()

	ready := !opts.Off
	if err := s.SetReady(cmd.Context(), opts.Project, name, ready); err != nil {
		_ = formatter.Error(ErrCodeStoreFailed, err.Error(), nil)
		return NewExitError(ExitFailure, err.Error())
	}

	result := ReadyResult{Project: opts.Project, Realization: name, Ready: ready}
	if formatter.Format == "json" {
		return formatter.Success(result)
	}
	state := "ready"
	if !ready {
		state = "not ready"
	}
	fmt.Fprintf(formatter.Writer, "✓ %s is now %s\n", name, state)
	return nil
}
