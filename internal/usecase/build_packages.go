package usecase

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Lessica/lessica.github.io/internal/domain"
	"github.com/Lessica/lessica.github.io/internal/ports"
)

// BuildPackages regenerates the Packages index from downloads/*.deb and writes
// its compressed variants.
type BuildPackages struct {
	control    ports.ControlReader
	digester   ports.Digester
	compressor ports.Compressor
	icons      ports.IconIndexStore
	notifier   ports.Notifier
	log        *slog.Logger
}

func NewBuildPackages(cr ports.ControlReader, d ports.Digester, c ports.Compressor, icons ports.IconIndexStore, opts ...StageOption) *BuildPackages {
	o := newStageOptions(opts)
	return &BuildPackages{
		control:    cr,
		digester:   d,
		compressor: c,
		icons:      icons,
		notifier:   o.notifier,
		log:        o.log,
	}
}

func (uc *BuildPackages) Execute(ctx context.Context, ws domain.Workspace) error {
	icons, err := uc.icons.LoadIcons()
	if err != nil {
		return err
	}

	debs, err := listDebs(ws.Path(ws.Config.Paths.DownloadsDir))
	if err != nil {
		return err
	}

	entries := make([]domain.PackageEntry, 0, len(debs))
	for _, name := range debs {
		if err := ctx.Err(); err != nil {
			return err
		}

		rel := path.Join(filepath.ToSlash(ws.Config.Paths.DownloadsDir), name)
		uc.notifier.Info("Processing " + rel)

		entry, err := uc.entry(ws, icons, rel)
		if err != nil {
			return err
		}
		entries = append(entries, entry)
	}

	out := ws.Path(ws.Config.Paths.Packages)
	if err := writePackages(out, entries); err != nil {
		return &domain.OpError{Op: "build_packages.write", Kind: domain.KindExecution, Path: out, Err: err}
	}
	uc.notifier.Success(fmt.Sprintf("Packages file generated at %s (%d packages)", ws.Config.Paths.Packages, len(entries)))

	written, err := uc.compressor.CompressFile(out, ws.Config.Paths.Compressions)
	if err != nil {
		return err
	}
	uc.log.Info("build_packages.done", "packages", len(entries), "variants", len(written))
	if len(written) > 0 {
		uc.notifier.Success(fmt.Sprintf("Packages file compressed into %d formats", len(written)))
	}
	return nil
}

func (uc *BuildPackages) entry(ws domain.Workspace, icons domain.IconIndex, rel string) (domain.PackageEntry, error) {
	abs := ws.Path(rel)

	ctrl, err := uc.control.ReadControl(abs)
	if err != nil {
		return domain.PackageEntry{}, err
	}
	digest, err := uc.digester.Digest(abs)
	if err != nil {
		return domain.PackageEntry{}, err
	}

	e := domain.PackageEntry{
		Control:  ctrl,
		Filename: rel,
		Digest:   digest,
	}

	pkg := ctrl.Package()
	id, ok := ws.Index.HavocID(pkg)
	if !ok {
		uc.notifier.Detail("Package name: " + pkg)
		return e, nil
	}

	uc.notifier.Detail(fmt.Sprintf("Package name: %s, Havoc ID: %s", pkg, id))
	e.Depiction = domain.DepictionURL(id)
	e.SileoDepiction = domain.SileoDepictionURL(id)
	if icon := icons[pkg]; ws.Index.BaseURL != "" && icon != "" {
		e.Icon = domain.IconURL(ws.Index.BaseURL, ws.Config.Paths.IconsDir, icon)
	}
	return e, nil
}

// listDebs returns the .deb file names in dir, sorted.
func listDebs(dir string) ([]string, error) {
	items, err := os.ReadDir(dir)
	if err != nil {
		kind := domain.KindExecution
		if errors.Is(err, fs.ErrNotExist) {
			kind = domain.KindNotFound
		}
		return nil, &domain.OpError{Op: "build_packages.list", Kind: kind, Path: dir, Err: err}
	}

	var out []string
	for _, it := range items {
		if it.IsDir() || !strings.HasSuffix(it.Name(), ".deb") {
			continue
		}
		out = append(out, it.Name())
	}
	sort.Strings(out)
	return out, nil
}

func writePackages(dst string, entries []domain.PackageEntry) error {
	tmp := dst + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(f)
	for _, e := range entries {
		if err = domain.WritePackageEntry(bw, e); err != nil {
			break
		}
	}
	if err == nil {
		err = bw.Flush()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, dst)
}
