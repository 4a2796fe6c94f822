package ports

import (
	"context"

	"github.com/Lessica/lessica.github.io/internal/domain"
)

// CommandRunner executes external processes.
// A non-zero exit is reported as an error wrapping *domain.CommandError.
type CommandRunner interface {
	Run(ctx context.Context, cmd domain.Command) (domain.CommandResult, error)
}
