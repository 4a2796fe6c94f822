package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/Lessica/lessica.github.io/internal/domain"
	"github.com/Lessica/lessica.github.io/internal/infra/compress"
	"github.com/Lessica/lessica.github.io/internal/infra/config"
	"github.com/Lessica/lessica.github.io/internal/infra/console"
	"github.com/Lessica/lessica.github.io/internal/infra/debfile"
	"github.com/Lessica/lessica.github.io/internal/infra/debversion"
	"github.com/Lessica/lessica.github.io/internal/infra/digest"
	"github.com/Lessica/lessica.github.io/internal/infra/envconfig"
	gh "github.com/Lessica/lessica.github.io/internal/infra/github"
	"github.com/Lessica/lessica.github.io/internal/infra/httpclient"
	"github.com/Lessica/lessica.github.io/internal/infra/logger"
	"github.com/Lessica/lessica.github.io/internal/infra/workspacefinder"
	"github.com/Lessica/lessica.github.io/internal/ports"
	"github.com/Lessica/lessica.github.io/internal/usecase"
)

type workspaceCtx struct {
	ws      domain.Workspace
	secrets domain.Secrets

	notifier ports.Notifier
	log      *slog.Logger
	cleanup  func()
}

// loadWorkspace resolves the root, loads .env, settings, index and secrets,
// and points the logger at the workspace.
func loadWorkspace(g *globalFlags) (*workspaceCtx, error) {
	root, err := resolveWorkspaceRoot(g.workspace)
	if err != nil {
		return nil, err
	}

	wc, err := openWorkspace(g, root)
	if err != nil {
		return nil, err
	}

	ws, err := workspacefinder.NewLoader().LoadWorkspace(root)
	if err != nil {
		wc.cleanup()
		return nil, err
	}
	wc.ws = ws

	wc.log.Info("workspace.loaded", "root", root, "repos", len(ws.Index.Repos), "mappings", len(ws.Index.HavocMappings))
	return wc, nil
}

// openWorkspace prepares everything that does not need index.yaml: .env,
// secrets, devkit.yaml (defaults when absent) and the logger. The index is left empty.
func openWorkspace(g *globalFlags, root string) (*workspaceCtx, error) {
	if err := envconfig.LoadDotEnv(root); err != nil {
		return nil, err
	}

	secrets, err := envconfig.LoadSecrets()
	if err != nil {
		return nil, err
	}

	cfg, err := workspacefinder.LoadConfig(root)
	if err != nil {
		return nil, err
	}

	cleanup := func() {}
	closeLog, lerr := logger.Setup(logger.Config{Root: root, Debug: g.debug, Secrets: secrets.Values()})
	if lerr == nil && closeLog != nil {
		cleanup = func() { _ = closeLog() }
	}

	return &workspaceCtx{
		ws:       domain.Workspace{Root: root, Config: cfg},
		secrets:  secrets,
		notifier: newNotifier(g),
		log:      logger.L(),
		cleanup:  cleanup,
	}, nil
}

func newNotifier(g *globalFlags) ports.Notifier {
	if g.quiet {
		return console.Nop{}
	}
	return console.New(os.Stderr)
}

func (wc *workspaceCtx) stageOptions() []usecase.StageOption {
	return []usecase.StageOption{
		usecase.WithNotifier(wc.notifier),
		usecase.WithLogger(wc.log),
	}
}

func (wc *workspaceCtx) httpConfig() httpclient.Config {
	cfg := httpclient.DefaultConfig()
	cfg.Timeout = wc.ws.Config.HTTP.Timeout
	cfg.Retries = wc.ws.Config.HTTP.Retries
	return cfg
}

func (wc *workspaceCtx) http() *httpclient.Executor {
	return httpclient.NewExecutor(wc.httpConfig(), httpclient.WithLogger(wc.log))
}

func (wc *workspaceCtx) iconStore() *config.IconStore {
	return config.NewIconStore(wc.ws.Root, wc.ws.Config.Paths.IconsDir)
}

func (wc *workspaceCtx) collectDists() *usecase.CollectDists {
	lister := gh.NewLister(httpclient.New(wc.httpConfig()), wc.secrets.GitHubToken)
	return usecase.NewCollectDists(lister, wc.http(), wc.stageOptions()...)
}

func (wc *workspaceCtx) collectIcons() *usecase.CollectIcons {
	return usecase.NewCollectIcons(
		compress.NewCompressor(),
		debversion.NewComparer(),
		wc.http(),
		wc.iconStore(),
		wc.stageOptions()...,
	)
}

func (wc *workspaceCtx) buildPackages() *usecase.BuildPackages {
	return usecase.NewBuildPackages(
		debfile.NewReader(),
		digest.NewDigester(),
		compress.NewCompressor(),
		wc.iconStore(),
		wc.stageOptions()...,
	)
}

func (wc *workspaceCtx) buildRelease() *usecase.BuildRelease {
	return usecase.NewBuildRelease(digest.NewDigester(), wc.stageOptions()...)
}

func (wc *workspaceCtx) builtinStages() *usecase.BuiltinStages {
	return &usecase.BuiltinStages{
		Dists:    wc.collectDists(),
		Icons:    wc.collectIcons(),
		Packages: wc.buildPackages(),
		Release:  wc.buildRelease(),
	}
}

func resolveWorkspaceRoot(workspaceFlag string) (string, error) {
	w := strings.TrimSpace(workspaceFlag)
	if w != "" {
		abs, err := filepath.Abs(w)
		if err != nil {
			return "", fmt.Errorf("invalid workspace path: %w", err)
		}
		return abs, nil
	}

	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}

	var locator ports.WorkspaceLocator = workspacefinder.NewFinder()
	root, err := locator.FindRoot(wd)
	if err != nil {
		return "", fmt.Errorf("workspace not found from %q (tip: run `devkit init`): %w", wd, err)
	}
	return root, nil
}
