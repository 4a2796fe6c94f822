package usecase

import (
	"testing"

	"github.com/Lessica/lessica.github.io/internal/domain"
)

type fakeInitializer struct {
	root  string
	index domain.RepoIndex
	force bool
}

func (f *fakeInitializer) Init(root string, index domain.RepoIndex, force bool) error {
	f.root, f.index, f.force = root, index, force
	return nil
}

func TestInitWorkspace_Execute(t *testing.T) {
	fi := &fakeInitializer{}

	if err := NewInitWorkspace(fi).Execute("/work", "https://repo.example.com", true); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if fi.root != "/work" || !fi.force {
		t.Fatalf("unexpected call %+v", fi)
	}
	if fi.index.BaseURL != "https://repo.example.com" || fi.index.Repos == nil || fi.index.HavocMappings == nil {
		t.Fatalf("expected empty but non-nil index, got %+v", fi.index)
	}
}
