package cli

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Lessica/lessica.github.io/internal/infra/console"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	workspace string
	debug     bool
	quiet     bool
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, stderr io.Writer) int {
	cmd := newRootCmd()
	if err := cmd.ExecuteContext(ctx); err != nil {
		console.New(stderr).Error(err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}

	cmd := &cobra.Command{
		Use:           "devkit",
		Short:         "Keep the APT repository in sync with GitHub releases",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&g.workspace, "workspace", "w", "", "Workspace root (optional; autodetected if omitted)")
	cmd.PersistentFlags().BoolVar(&g.debug, "debug", false, "enable verbose logging to .devkit/logs/devkit.log")
	cmd.PersistentFlags().BoolVarP(&g.quiet, "quiet", "q", false, "only print errors")

	cmd.AddCommand(
		syncCmd(g),
		collectDistsCmd(g),
		collectIconsCmd(g),
		buildPackagesCmd(g),
		buildReleaseCmd(g),
		validateCmd(g),
		initCmd(g),
		versionCmd(),
	)
	return cmd
}
