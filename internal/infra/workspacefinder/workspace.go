package workspacefinder

import (
	"path/filepath"

	"github.com/Lessica/lessica.github.io/internal/domain"
	"github.com/Lessica/lessica.github.io/internal/infra/config"
	"github.com/Lessica/lessica.github.io/internal/ports"
)

// Loader reads index.yaml and devkit.yaml from a workspace root.
type Loader struct{}

func NewLoader() *Loader {
	return &Loader{}
}

var _ ports.WorkspaceLoader = (*Loader)(nil)

func (l *Loader) LoadWorkspace(root string) (domain.Workspace, error) {
	root = filepath.Clean(root)

	cfg, err := LoadConfig(root)
	if err != nil {
		return domain.Workspace{}, err
	}

	index, err := config.LoadIndex(filepath.Join(root, config.IndexFile))
	if err != nil {
		return domain.Workspace{}, err
	}

	return domain.Workspace{Root: root, Config: cfg, Index: index}, nil
}
