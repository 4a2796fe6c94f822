package usecase

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/Lessica/lessica.github.io/internal/domain"
	"github.com/Lessica/lessica.github.io/internal/ports"
	"golang.org/x/sync/errgroup"
)

// BuildRelease writes the Release file describing Packages and its compressed variants.
type BuildRelease struct {
	digester ports.Digester
	notifier ports.Notifier
	log      *slog.Logger
	now      func() time.Time
}

func NewBuildRelease(d ports.Digester, opts ...StageOption) *BuildRelease {
	o := newStageOptions(opts)
	return &BuildRelease{
		digester: d,
		notifier: o.notifier,
		log:      o.log,
		now:      o.now,
	}
}

func (uc *BuildRelease) Execute(ctx context.Context, ws domain.Workspace) error {
	files := ws.IndexFiles()
	digests := make([]domain.FileDigest, len(files))

	g, gctx := errgroup.WithContext(ctx)
	for i, p := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			d, err := uc.digester.Digest(p)
			if err != nil {
				return err
			}
			digests[i] = d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := domain.WriteRelease(&buf, ws.Config.Release, uc.now(), digests); err != nil {
		return &domain.OpError{Op: "build_release.render", Kind: domain.KindExecution, Err: err}
	}

	out := ws.Path(ws.Config.Paths.Release)
	tmp := out + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return &domain.OpError{Op: "build_release.write", Kind: domain.KindExecution, Path: tmp, Err: err}
	}
	if err := os.Rename(tmp, out); err != nil {
		_ = os.Remove(tmp)
		return &domain.OpError{Op: "build_release.write", Kind: domain.KindExecution, Path: out, Err: err}
	}

	uc.log.Info("build_release.done", "files", len(files))
	uc.notifier.Success("Release file generated at " + ws.Config.Paths.Release)
	return nil
}
