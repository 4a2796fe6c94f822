package ports

import (
	"context"

	"github.com/Lessica/lessica.github.io/internal/domain"
)

// KeyImporter loads the signing key and registers it with the local keyring.
type KeyImporter interface {
	Import(ctx context.Context, armored, passphrase string) (domain.SigningKey, error)
}

// Checkout describes the working copy the pipeline operates on.
type Checkout struct {
	Root   string
	Branch string
	Head   string
}

// Repository is the version control surface used by the sync pipeline.
type Repository interface {
	// Checkout opens (or clones) the repository and optionally resets it to HEAD.
	Checkout(ctx context.Context, reset bool) (Checkout, error)
	// Configure writes committer identity and mandatory signing into local config.
	Configure(identity domain.Identity, key domain.SigningKey) error
	// Changed compares one path of the working tree against HEAD.
	Changed(path string) (bool, error)
	// CommitAll stages every change and creates one signed commit.
	CommitAll(ctx context.Context, message string, identity domain.Identity, key domain.SigningKey) (string, error)
	Push(ctx context.Context, remote string) error
}
