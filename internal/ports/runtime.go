package ports

import (
	"context"

	"github.com/Lessica/lessica.github.io/internal/domain"
)

// RuntimeProvisioner prepares the pinned Python runtime and its dependencies.
type RuntimeProvisioner interface {
	Provision(ctx context.Context, root string, spec domain.RuntimeSpec) (domain.Runtime, error)
	// InstallDeps reports false, nil when the manifest does not exist.
	InstallDeps(ctx context.Context, root string, rt domain.Runtime, manifest string) (bool, error)
}
