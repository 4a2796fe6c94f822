package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Lessica/lessica.github.io/internal/domain"
	"github.com/Lessica/lessica.github.io/internal/infra/fsworkspace"
	"github.com/Lessica/lessica.github.io/internal/usecase"
	"github.com/spf13/cobra"
)

func initCmd(g *globalFlags) *cobra.Command {
	var force bool
	var baseURL string

	c := &cobra.Command{
		Use:   "init",
		Short: "Scaffold index.yaml, devkit.yaml, icons/ and downloads/",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			root := strings.TrimSpace(g.workspace)
			if root == "" {
				wd, err := os.Getwd()
				if err != nil {
					return fmt.Errorf("get working directory: %w", err)
				}
				root = wd
			}
			root, err := filepath.Abs(root)
			if err != nil {
				return fmt.Errorf("invalid workspace path: %w", err)
			}

			uc := usecase.NewInitWorkspace(fsworkspace.NewInitializer(domain.DefaultConfig().Paths))
			if err := uc.Execute(root, baseURL, force); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Initialized workspace at %s\n", root)
			return nil
		},
	}

	c.Flags().BoolVar(&force, "force", false, "Overwrite existing index.yaml and devkit.yaml")
	c.Flags().StringVar(&baseURL, "base-url", "", "Public URL of the repository (used for Icon fields)")
	return c
}
