package ports

import "github.com/Lessica/lessica.github.io/internal/domain"

// WorkspaceLocator finds a repository workspace root starting from an arbitrary directory.
type WorkspaceLocator interface {
	FindRoot(startDir string) (string, error)
}

// WorkspaceLoader reads the repository index and settings of a workspace root.
type WorkspaceLoader interface {
	LoadWorkspace(root string) (domain.Workspace, error)
}
