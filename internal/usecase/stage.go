package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Lessica/lessica.github.io/internal/domain"
	"github.com/Lessica/lessica.github.io/internal/ports"
)

type stageOptions struct {
	notifier ports.Notifier
	log      *slog.Logger
	now      func() time.Time
	loader   ports.WorkspaceLoader
}

// StageOption configures the built-in stages.
type StageOption func(*stageOptions)

// WithNotifier routes human-facing progress to n.
func WithNotifier(n ports.Notifier) StageOption {
	return func(o *stageOptions) {
		if n != nil {
			o.notifier = n
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) StageOption {
	return func(o *stageOptions) {
		if l != nil {
			o.log = l
		}
	}
}

// WithClock overrides the time source (useful for tests).
func WithClock(now func() time.Time) StageOption {
	return func(o *stageOptions) {
		if now != nil {
			o.now = now
		}
	}
}

// WithWorkspaceLoader makes SyncRepository re-read index.yaml and devkit.yaml
// from the checked out tree before the remaining steps run.
func WithWorkspaceLoader(l ports.WorkspaceLoader) StageOption {
	return func(o *stageOptions) { o.loader = l }
}

func newStageOptions(opts []StageOption) stageOptions {
	o := stageOptions{
		notifier: nopNotifier{},
		log:      slog.New(slog.DiscardHandler),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

type nopNotifier struct{}

func (nopNotifier) Info(string)    {}
func (nopNotifier) Detail(string)  {}
func (nopNotifier) Success(string) {}
func (nopNotifier) Warn(string)    {}

func (nopNotifier) Progress(string) ports.ProgressFunc {
	return func(int64, int64) {}
}

// StageRunner executes a built-in build stage.
type StageRunner interface {
	RunStage(ctx context.Context, name domain.StepName, ws domain.Workspace, secrets domain.Secrets) error
}

// BuiltinStages dispatches build stages to their native implementations.
type BuiltinStages struct {
	Dists    *CollectDists
	Icons    *CollectIcons
	Packages *BuildPackages
	Release  *BuildRelease
}

var _ StageRunner = (*BuiltinStages)(nil)

func (b *BuiltinStages) RunStage(ctx context.Context, name domain.StepName, ws domain.Workspace, secrets domain.Secrets) error {
	switch name {
	case domain.StepCollectDists:
		return b.Dists.Execute(ctx, ws, secrets.GitHubToken)
	case domain.StepCollectIcons:
		return b.Icons.Execute(ctx, ws)
	case domain.StepBuildPackages:
		return b.Packages.Execute(ctx, ws)
	case domain.StepBuildRelease:
		return b.Release.Execute(ctx, ws)
	default:
		return &domain.OpError{
			Op:   "stage." + string(name),
			Kind: domain.KindInvalidConfig,
			Err:  fmt.Errorf("unknown stage %q: %w", name, domain.ErrInvalidConfig),
		}
	}
}
