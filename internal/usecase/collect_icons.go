package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Lessica/lessica.github.io/internal/domain"
	"github.com/Lessica/lessica.github.io/internal/ports"
)

// iconSuffixes maps supported icon content types to file suffixes.
var iconSuffixes = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
}

// CollectIcons downloads the Havoc icon of every mapped package and records
// the file names in the icon index.
type CollectIcons struct {
	index    ports.Decompressor
	versions ports.VersionComparer
	fetcher  ports.Fetcher
	icons    ports.IconIndexStore
	notifier ports.Notifier
	log      *slog.Logger
}

func NewCollectIcons(dc ports.Decompressor, vc ports.VersionComparer, f ports.Fetcher, icons ports.IconIndexStore, opts ...StageOption) *CollectIcons {
	o := newStageOptions(opts)
	return &CollectIcons{
		index:    dc,
		versions: vc,
		fetcher:  f,
		icons:    icons,
		notifier: o.notifier,
		log:      o.log,
	}
}

func (uc *CollectIcons) Execute(ctx context.Context, ws domain.Workspace) error {
	cacheDir, err := ws.HavocCacheDir()
	if err != nil {
		return err
	}

	raw, err := uc.index.DecompressFile(filepath.Join(cacheDir, "Packages.gz"))
	if err != nil {
		return err
	}

	latest := uc.newest(string(raw), ws.Index)

	names := make([]string, 0, len(latest))
	for pkg, p := range latest {
		if icon, ok := p.Get("Icon"); ok && icon != "" {
			names = append(names, pkg)
		}
	}
	sort.Strings(names)
	uc.notifier.Info(fmt.Sprintf("Found %d icons", len(names)))

	dir := ws.Path(ws.Config.Paths.IconsDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &domain.OpError{Op: "collect_icons.mkdir", Kind: domain.KindExecution, Path: dir, Err: err}
	}

	out := domain.IconIndex{}
	for _, pkg := range names {
		if err := ctx.Err(); err != nil {
			return err
		}

		url, _ := latest[pkg].Get("Icon")
		uc.notifier.Info("Downloading " + url)

		file, err := uc.fetcher.Fetch(ctx, url)
		if err != nil {
			return err
		}

		suffix, ok := iconSuffixes[file.ContentType]
		if !ok {
			uc.notifier.Warn("Unsupported image format: " + file.ContentType)
			uc.log.Warn("collect_icons.unsupported", "package", pkg, "url", url, "content_type", file.ContentType)
			continue
		}

		name := iconName(url) + suffix
		dst := filepath.Join(dir, name)
		if err := os.WriteFile(dst, file.Body, 0o644); err != nil {
			return &domain.OpError{Op: "collect_icons.write", Kind: domain.KindExecution, Path: dst, Err: err}
		}
		out[pkg] = name
		uc.notifier.Detail("Saved to " + filepath.ToSlash(filepath.Join(ws.Config.Paths.IconsDir, name)))
	}

	if err := uc.icons.SaveIcons(out); err != nil {
		return err
	}
	uc.notifier.Success(fmt.Sprintf("Icon index written (%d icons)", len(out)))
	return nil
}

// newest keeps, per mapped package, the paragraph with the greatest version.
// When versions cannot be compared the later paragraph wins.
func (uc *CollectIcons) newest(text string, index domain.RepoIndex) map[string]domain.Paragraph {
	paragraphs, skipped := domain.ParseParagraphs(text)
	if skipped > 0 {
		uc.log.Debug("collect_icons.skipped_paragraphs", "count", skipped)
	}

	out := map[string]domain.Paragraph{}
	for _, p := range paragraphs {
		pkg, ver := p.Package(), p.Version()
		if pkg == "" || ver == "" {
			continue
		}
		if _, mapped := index.HavocMappings[pkg]; !mapped {
			continue
		}

		if prev, ok := out[pkg]; ok {
			newer, err := uc.versions.Greater(prev.Version(), ver)
			if err != nil {
				uc.log.Warn("collect_icons.version", "package", pkg, "err", err)
			} else if newer {
				continue
			}
		}
		out[pkg] = p
	}
	return out
}

// iconName is the last path segment of an icon URL, without query or fragment.
func iconName(url string) string {
	if i := strings.IndexAny(url, "?#"); i >= 0 {
		url = url[:i]
	}
	url = strings.TrimRight(url, "/")
	return url[strings.LastIndex(url, "/")+1:]
}
