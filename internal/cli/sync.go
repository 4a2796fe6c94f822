package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Lessica/lessica.github.io/internal/domain"
	"github.com/Lessica/lessica.github.io/internal/infra/execrunner"
	"github.com/Lessica/lessica.github.io/internal/infra/gitrepo"
	"github.com/Lessica/lessica.github.io/internal/infra/pgpkey"
	"github.com/Lessica/lessica.github.io/internal/infra/pyruntime"
	"github.com/Lessica/lessica.github.io/internal/infra/runstore"
	"github.com/Lessica/lessica.github.io/internal/infra/workspacefinder"
	"github.com/Lessica/lessica.github.io/internal/ports"
	"github.com/Lessica/lessica.github.io/internal/usecase"
)

func syncCmd(g *globalFlags) *cobra.Command {
	var opts usecase.SyncOptions
	var noReport bool
	var cloneURL string

	c := &cobra.Command{
		Use:   "sync",
		Short: "Collect, build and publish the repository index (signed commit + push when Packages changed)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			root, err := resolveSyncRoot(g.workspace, cloneURL)
			if err != nil {
				return err
			}

			// index.yaml may only appear once the checkout step has cloned the tree.
			wc, err := openWorkspace(g, root)
			if err != nil {
				return err
			}
			defer wc.cleanup()

			ws := wc.ws
			if cloneURL == "" {
				cloneURL = ws.Config.Sync.CloneURL
			}

			runner := execrunner.New(execrunner.WithLogger(wc.log), execrunner.WithConsole(os.Stderr, os.Stderr))
			repo := gitrepo.New(gitrepo.Options{
				Root:     ws.Root,
				CloneURL: cloneURL,
				Token:    wc.secrets.GitHubToken,
				Logger:   wc.log,
			})

			var store ports.ReportStore
			if !noReport {
				store = runstore.NewJSONStore(ws.Root, ws.Config,
					runstore.WithIndex(true),
					runstore.WithSecrets(wc.secrets.Values()...),
				)
			}

			uc := usecase.NewSyncRepository(
				repo,
				pyruntime.New(runner),
				runner,
				workspaceStages{wc: wc},
				pgpkey.NewImporter(runner, ws.Config.Sync.Keyring, ws.Config.Sync.GPGProgram),
				store,
				append(wc.stageOptions(), usecase.WithWorkspaceLoader(workspacefinder.NewLoader()))...,
			)

			report, reportID, err := uc.Execute(cmd.Context(), ws, wc.secrets, opts)
			if !g.quiet {
				printReport(cmd.OutOrStdout(), report, reportID)
			}
			return err
		},
	}

	c.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Stop after checking whether Packages changed")
	c.Flags().BoolVar(&opts.Reset, "reset", false, "Hard-reset the working tree to HEAD before building")
	c.Flags().BoolVar(&noReport, "no-report", false, "Do not save a sync report under .devkit/runs/")
	c.Flags().StringVar(&cloneURL, "clone-url", "", "Clone this repository into the workspace when it has no git repository (overrides sync.clone-url)")
	return c
}

// resolveSyncRoot falls back to the working directory when no workspace exists
// yet but a clone url was given: the checkout step creates it.
func resolveSyncRoot(workspaceFlag, cloneURL string) (string, error) {
	root, err := resolveWorkspaceRoot(workspaceFlag)
	if err == nil || strings.TrimSpace(workspaceFlag) != "" || cloneURL == "" {
		return root, err
	}
	wd, werr := os.Getwd()
	if werr != nil {
		return "", err
	}
	return wd, nil
}

// workspaceStages builds the built-in stages against the workspace handed to
// each stage, which is the one read after checkout.
type workspaceStages struct {
	wc *workspaceCtx
}

var _ usecase.StageRunner = workspaceStages{}

func (s workspaceStages) RunStage(ctx context.Context, name domain.StepName, ws domain.Workspace, secrets domain.Secrets) error {
	wc := *s.wc
	wc.ws = ws
	wc.secrets = secrets
	return wc.builtinStages().RunStage(ctx, name, ws, secrets)
}

func printReport(w io.Writer, report domain.SyncReport, reportID string) {
	fmt.Fprintln(w)
	for _, s := range report.Steps {
		line := fmt.Sprintf("  %-8s %-15s", statusMark(s.Status), s.Name)
		if d := s.Duration(); d > 0 {
			line += fmt.Sprintf(" %8s", d.Round(time.Millisecond))
		}
		if s.Detail != "" {
			line += "  " + s.Detail
		}
		fmt.Fprintln(w, line)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Outcome:  %s\n", report.Outcome)
	if report.Commit != "" {
		fmt.Fprintf(w, "Commit:   %s\n", report.Commit)
	}
	if !report.StartedAt.IsZero() && !report.EndedAt.IsZero() {
		fmt.Fprintf(w, "Duration: %s\n", report.EndedAt.Sub(report.StartedAt).Round(time.Millisecond))
	}
	if reportID != "" {
		fmt.Fprintf(w, "Report:   %s\n", reportID)
	}
}

func statusMark(s domain.StepStatus) string {
	switch s {
	case domain.StepSucceeded:
		return "[ok]"
	case domain.StepSkipped:
		return "[skip]"
	case domain.StepFailed:
		return "[FAIL]"
	default:
		return "[-]"
	}
}
