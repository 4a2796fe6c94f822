package cli

import (
	"fmt"

	"github.com/Lessica/lessica.github.io/internal/infra/workspacefinder"
	"github.com/Lessica/lessica.github.io/internal/usecase"
	"github.com/spf13/cobra"
)

func validateCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate index.yaml and devkit.yaml (no network)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			root, err := resolveWorkspaceRoot(g.workspace)
			if err != nil {
				return err
			}

			uc := usecase.NewValidateWorkspace(workspacefinder.NewLoader())
			ws, err := uc.Execute(root)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "OK (%d repos, %d havoc mappings)\n", len(ws.Index.Repos), len(ws.Index.HavocMappings))
			return nil
		},
	}
}
