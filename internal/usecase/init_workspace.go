package usecase

import (
	"github.com/Lessica/lessica.github.io/internal/domain"
	"github.com/Lessica/lessica.github.io/internal/ports"
)

type InitWorkspace struct {
	initializer ports.WorkspaceInitializer
}

func NewInitWorkspace(initializer ports.WorkspaceInitializer) *InitWorkspace {
	return &InitWorkspace{initializer: initializer}
}

// Execute scaffolds root with an index pointing at baseURL.
func (uc *InitWorkspace) Execute(root, baseURL string, force bool) error {
	return uc.initializer.Init(root, domain.RepoIndex{
		BaseURL:       baseURL,
		Repos:         []string{},
		HavocMappings: map[string]string{},
	}, force)
}
