package usecase

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/Lessica/lessica.github.io/internal/domain"
	"github.com/Lessica/lessica.github.io/internal/ports"
)

type ValidateWorkspace struct {
	loader   ports.WorkspaceLoader
	resolver *domain.VarResolver
}

func NewValidateWorkspace(loader ports.WorkspaceLoader) *ValidateWorkspace {
	return &ValidateWorkspace{
		loader:   loader,
		resolver: domain.NewVarResolver(),
	}
}

// Execute loads index.yaml and devkit.yaml without touching the network and
// reports every problem found. Loading errors are returned as-is.
func (uc *ValidateWorkspace) Execute(root string) (domain.Workspace, error) {
	ws, err := uc.loader.LoadWorkspace(root)
	if err != nil {
		return domain.Workspace{}, err
	}

	var problems []error

	if len(ws.Index.Repos) == 0 {
		problems = append(problems, invalid("index.yaml", "repos: no repositories listed"))
	}
	seen := map[domain.GitHubRepo]bool{}
	for i, raw := range ws.Index.Repos {
		repo, err := domain.ParseGitHubRepo(raw)
		if err != nil {
			problems = append(problems, invalid("index.yaml", fmt.Sprintf("repos[%d]: %v", i, err)))
			continue
		}
		if seen[repo] {
			problems = append(problems, invalid("index.yaml", fmt.Sprintf("repos[%d]: duplicate %s", i, repo)))
		}
		seen[repo] = true
	}

	if _, err := ws.HavocCacheDir(); err != nil {
		problems = append(problems, invalid("devkit.yaml", "havoc.base-url must be an absolute URL"))
	}

	// Stage placeholders must resolve with the variables the pipeline provides.
	rt := uc.resolver.NewRuntime(domain.Vars{"python": "python", "root": ws.Root})
	names := make([]string, 0, len(ws.Config.Sync.Stages))
	for name := range ws.Config.Sync.Stages {
		names = append(names, string(name))
	}
	sort.Strings(names)
	for _, name := range names {
		argv := ws.Config.Sync.Stages[domain.StepName(name)]
		if len(argv) == 0 || strings.TrimSpace(argv[0]) == "" {
			problems = append(problems, invalid("devkit.yaml", fmt.Sprintf("sync.stages.%s: empty command", name)))
			continue
		}
		if _, err := rt.ResolveArgs(argv); err != nil {
			problems = append(problems, invalid("devkit.yaml", fmt.Sprintf("sync.stages.%s: %v", name, err)))
		}
	}

	if strings.TrimSpace(ws.Config.Sync.TrackedPath) == "" {
		problems = append(problems, invalid("devkit.yaml", "sync.tracked-path is empty"))
	}

	return ws, errors.Join(problems...)
}

func invalid(file, msg string) error {
	return &domain.OpError{
		Op:   "validate",
		Kind: domain.KindInvalidConfig,
		Path: file,
		Err:  fmt.Errorf("%s: %w", msg, domain.ErrInvalidConfig),
	}
}
