package cli

import (
	"context"

	"github.com/spf13/cobra"
)

// stageCmd builds a command running a single built-in stage in the current workspace.
func stageCmd(g *globalFlags, use, short string, run func(ctx context.Context, wc *workspaceCtx) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			wc, err := loadWorkspace(g)
			if err != nil {
				return err
			}
			defer wc.cleanup()
			return run(cmd.Context(), wc)
		},
	}
}

func collectDistsCmd(g *globalFlags) *cobra.Command {
	return stageCmd(g, "collect-dists", "Download the Havoc index and every .deb from the listed GitHub releases",
		func(ctx context.Context, wc *workspaceCtx) error {
			return wc.collectDists().Execute(ctx, wc.ws, wc.secrets.GitHubToken)
		})
}

func collectIconsCmd(g *globalFlags) *cobra.Command {
	return stageCmd(g, "collect-icons", "Download package icons from Havoc and write icons/index.yaml",
		func(ctx context.Context, wc *workspaceCtx) error {
			return wc.collectIcons().Execute(ctx, wc.ws)
		})
}

func buildPackagesCmd(g *globalFlags) *cobra.Command {
	return stageCmd(g, "build-packages", "Generate Packages and its compressed variants from downloads/",
		func(ctx context.Context, wc *workspaceCtx) error {
			return wc.buildPackages().Execute(ctx, wc.ws)
		})
}

func buildReleaseCmd(g *globalFlags) *cobra.Command {
	return stageCmd(g, "build-release", "Generate the Release file",
		func(ctx context.Context, wc *workspaceCtx) error {
			return wc.buildRelease().Execute(ctx, wc.ws)
		})
}
