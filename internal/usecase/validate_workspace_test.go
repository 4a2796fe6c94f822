package usecase

import (
	"errors"
	"strings"
	"testing"

	"github.com/Lessica/lessica.github.io/internal/domain"
)

type fakeWorkspaceLoader struct {
	ws  domain.Workspace
	err error
}

func (f fakeWorkspaceLoader) LoadWorkspace(root string) (domain.Workspace, error) {
	if f.err != nil {
		return domain.Workspace{}, f.err
	}
	ws := f.ws
	ws.Root = root
	return ws, nil
}

func validWorkspace() domain.Workspace {
	return domain.Workspace{
		Config: domain.DefaultConfig(),
		Index: domain.RepoIndex{
			BaseURL: "https://repo.example.com",
			Repos:   []string{"https://github.com/Lessica/TrollRecorder"},
		},
	}
}

func TestValidateWorkspace_OK(t *testing.T) {
	ws := validWorkspace()
	ws.Config.Sync.Stages[domain.StepCollectDists] = []string{"{{python}}", "collect_dists.py", "{{$timestamp}}"}

	got, err := NewValidateWorkspace(fakeWorkspaceLoader{ws: ws}).Execute("/work")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.Root != "/work" {
		t.Fatalf("expected loaded workspace returned, got %+v", got)
	}
}

func TestValidateWorkspace_ReportsEveryProblem(t *testing.T) {
	ws := validWorkspace()
	ws.Index.Repos = []string{
		"https://github.com/Lessica/TrollRecorder",
		"https://github.com/Lessica/TrollRecorder.git",
		"https://example.com/a/b",
	}
	ws.Config.Havoc.BaseURL = "havoc"
	ws.Config.Sync.Stages[domain.StepBuildRelease] = []string{"./release.sh", "{{unknown}}"}

	_, err := NewValidateWorkspace(fakeWorkspaceLoader{ws: ws}).Execute("/work")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.KindInvalidConfig) || !errors.Is(err, domain.ErrInvalidConfig) {
		t.Fatalf("expected invalid_config, got %v", err)
	}

	msg := err.Error()
	for _, want := range []string{"repos[1]: duplicate Lessica/TrollRecorder", "repos[2]", "havoc.base-url", "sync.stages.build-release", "missing variable: unknown"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("expected %q in:\n%s", want, msg)
		}
	}
}

func TestValidateWorkspace_EmptyRepos(t *testing.T) {
	ws := validWorkspace()
	ws.Index.Repos = nil

	_, err := NewValidateWorkspace(fakeWorkspaceLoader{ws: ws}).Execute("/work")
	if err == nil || !strings.Contains(err.Error(), "no repositories") {
		t.Fatalf("expected empty repos error, got %v", err)
	}
}

func TestValidateWorkspace_LoadErrorPassesThrough(t *testing.T) {
	loadErr := &domain.OpError{Op: "config.load_index", Kind: domain.KindNotFound, Err: domain.ErrNotFound}

	_, err := NewValidateWorkspace(fakeWorkspaceLoader{err: loadErr}).Execute("/work")
	if !errors.Is(err, loadErr) {
		t.Fatalf("expected load error, got %v", err)
	}
}
