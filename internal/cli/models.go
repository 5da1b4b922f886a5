package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cubera-io/cubera/internal/routing"
)

// ModelsOptions holds flags for the models command.
type ModelsOptions struct {
	DBPath  string
	Project string
}

// ModelInfo summarizes one stored model.
type ModelInfo struct {
	Name         string            `json:"name"`
	FactTable    string            `json:"fact_table"`
	Tables       int               `json:"tables"`
	InnerJoins   int               `json:"inner_joins"`
	Realizations []RealizationInfo `json:"realizations"`
}

// RealizationInfo summarizes one stored realization.
type RealizationInfo struct {
	Name  string       `json:"name"`
	Kind  string       `json:"kind"`
	Ready bool         `json:"ready"`
	Cost  routing.Cost `json:"cost"`
}

// CatalogListing is the payload of the models command.
type CatalogListing struct {
	Project  string      `json:"project"`
	Snapshot string      `json:"snapshot"`
	Models   []ModelInfo `json:"models"`
}

// NewModelsCommand creates the models command.
func NewModelsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ModelsOptions{}

	cmd := &cobra.Command{
		Use:   "models",
		Short: "List stored models and their realizations",
		Long: `List a project's models with their realizations and routing costs.

Realizations are shown with the cost the router ranks them by, so the
listing doubles as an explanation of candidate order.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runModels(rootOpts, opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DBPath, "db", "catalog.db", "catalog store path")
	cmd.Flags().StringVar(&opts.Project, "project", "default", "project to list")

	return cmd
}

func runModels(rootOpts *RootOptions, opts *ModelsOptions, cmd *cobra.Command) error {
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

	snap, err := s.LoadSnapshot(cmd.Context(), opts.Project)
	if err != nil {
		_ = formatter.Error(ErrCodeStoreFailed, err.Error(), nil)
		return NewExitError(ExitCommandError, err.Error())
	}

	listing := CatalogListing{
		Project:  opts.Project,
		Snapshot: snap.Fingerprint(),
		Models:   []ModelInfo{},
	}
	byModel := make(map[string][]RealizationInfo)
	for _, name := range snap.RealizationNames() {
		r, _ := snap.Realization(name)
		byModel[r.ModelName] = append(byModel[r.ModelName], RealizationInfo{
			Name:  r.Name,
			Kind:  string(r.Kind),
			Ready: r.Ready,
			Cost:  routing.CostOf(r),
		})
	}
	for _, name := range snap.ModelNames() {
		m, _ := snap.Model(name)
		listing.Models = append(listing.Models, ModelInfo{
			Name:         name,
			FactTable:    m.FactTable().Table,
			Tables:       len(m.Tables()),
			InnerJoins:   m.InnerJoinCount(),
			Realizations: byModel[name],
		})
	}

	if formatter.Format == "json" {
		return formatter.Success(listing)
	}

	fmt.Fprintf(formatter.Writer, "project %s, snapshot %s\n", listing.Project, listing.Snapshot)
	for _, m := range listing.Models {
		fmt.Fprintf(formatter.Writer, "%s (fact %s, %d tables, %d inner joins)\n",
			m.Name, m.FactTable, m.Tables, m.InnerJoins)
		for _, r := range m.Realizations {
			state := "ready"
			if !r.Ready {
				state = "not ready"
			}
			fmt.Fprintf(formatter.Writer, "  %s kind=%s cost=%s %s\n", r.Name, r.Kind, r.Cost, state)
		}
	}
	return nil
}
