package ports

import "github.com/Lessica/lessica.github.io/internal/domain"

// WorkspaceInitializer scaffolds a repository workspace.
type WorkspaceInitializer interface {
	Init(root string, index domain.RepoIndex, force bool) error
}
