package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/Lessica/lessica.github.io/internal/domain"
	"github.com/Lessica/lessica.github.io/internal/ports"
)

// CollectDists mirrors the Havoc package index and downloads every .deb
// attached to the GitHub releases listed in index.yaml.
type CollectDists struct {
	releases   ports.ReleaseLister
	downloader ports.Downloader
	notifier   ports.Notifier
	log        *slog.Logger
}

func NewCollectDists(rl ports.ReleaseLister, dl ports.Downloader, opts ...StageOption) *CollectDists {
	o := newStageOptions(opts)
	return &CollectDists{
		releases:   rl,
		downloader: dl,
		notifier:   o.notifier,
		log:        o.log,
	}
}

func (uc *CollectDists) Execute(ctx context.Context, ws domain.Workspace, token string) error {
	if strings.TrimSpace(token) == "" {
		return &domain.OpError{
			Op:   "collect_dists",
			Kind: domain.KindInvalidConfig,
			Err:  fmt.Errorf("GITHUB_TOKEN is not set: %w", domain.ErrInvalidConfig),
		}
	}

	cacheDir, err := ws.HavocCacheDir()
	if err != nil {
		return err
	}
	manifest := ws.HavocPackagesURL()
	uc.notifier.Info("Downloading " + manifest)
	if _, err := uc.download(ctx, manifest, cacheDir, 0); err != nil {
		return err
	}

	downloads := ws.Path(ws.Config.Paths.DownloadsDir)
	seen := map[string]bool{}
	for _, raw := range ws.Index.Repos {
		if err := ctx.Err(); err != nil {
			return err
		}

		repo, err := domain.ParseGitHubRepo(raw)
		if err != nil {
			return &domain.OpError{Op: "collect_dists", Kind: domain.KindInvalidConfig, Err: err}
		}

		assets, err := uc.releases.ListAssets(ctx, repo)
		if err != nil {
			return err
		}
		debs, dups := debAssets(assets, seen)
		uc.log.Info("collect_dists.repo", "repo", repo.String(), "assets", len(assets), "debs", len(debs))
		for _, a := range dups {
			uc.log.Warn("collect_dists.duplicate", "repo", repo.String(), "asset", a.Name, "release", a.Release)
			uc.notifier.Warn(fmt.Sprintf("[%s] Skipping %s from %s: the name is already taken by a newer release", repo, a.Name, a.Release))
		}

		for _, a := range debs {
			uc.notifier.Info(fmt.Sprintf("[%s] Downloading %s", repo, a.Name))
			if _, err := uc.download(ctx, a.DownloadURL, downloads, a.Size); err != nil {
				return err
			}
		}
	}

	uc.notifier.Success("Dists collected")
	return nil
}

func (uc *CollectDists) download(ctx context.Context, url, dir string, size int64) (domain.DownloadResult, error) {
	res, err := uc.downloader.Download(ctx, domain.DownloadRequest{
		URL:      url,
		Dir:      dir,
		Size:     size,
		Progress: uc.notifier.Progress(url[strings.LastIndex(url, "/")+1:]),
	})
	if err != nil {
		var oe *domain.OpError
		if !errors.As(err, &oe) {
			err = &domain.OpError{Op: "collect_dists.download", Kind: domain.KindRemote, Path: dir, Err: err}
		}
		return res, err
	}

	switch {
	case res.Skipped:
		uc.notifier.Detail(res.Path + " already exists, skipping download")
	case res.Resumed:
		uc.notifier.Detail("Resumed " + res.Path)
	}
	return res, nil
}

// debAssets keeps Debian packages sorted by name. Every file name lands in the
// same downloads directory, so only the first asset with a given name is kept:
// assets arrive newest release first. Later ones are returned as dups.
func debAssets(assets []domain.Asset, seen map[string]bool) (debs, dups []domain.Asset) {
	for _, a := range assets {
		if !strings.HasSuffix(a.Name, ".deb") {
			continue
		}
		if seen[a.Name] {
			dups = append(dups, a)
			continue
		}
		seen[a.Name] = true
		debs = append(debs, a)
	}
	sort.SliceStable(debs, func(i, j int) bool { return debs[i].Name < debs[j].Name })
	return debs, dups
}
