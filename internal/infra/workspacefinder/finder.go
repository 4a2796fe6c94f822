package workspacefinder

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Lessica/lessica.github.io/internal/domain"
	"github.com/Lessica/lessica.github.io/internal/infra/config"
	"github.com/Lessica/lessica.github.io/internal/ports"
)

// Finder walks up from a directory to the repository workspace root.
//
// A directory is a root when it holds devkit.yaml, or index.yaml outside the
// icons directory (icons/index.yaml is the icon index, not a repository index).
// The walk never leaves the git repository it started in.
type Finder struct {
	IndexFile    string
	SettingsFile string
	IconsDir     string
}

func NewFinder() *Finder {
	return &Finder{
		IndexFile:    config.IndexFile,
		SettingsFile: SettingsFile,
		IconsDir:     domain.DefaultConfig().Paths.IconsDir,
	}
}

var _ ports.WorkspaceLocator = (*Finder)(nil)

func (f *Finder) FindRoot(startDir string) (string, error) {
	if startDir == "" {
		return "", &domain.OpError{
			Op:   "workspacefinder.findroot",
			Kind: domain.KindInvalidConfig,
			Err:  errors.New("startDir is empty"),
		}
	}

	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", &domain.OpError{
			Op:   "workspacefinder.findroot",
			Kind: domain.KindExecution,
			Err:  err,
		}
	}

	if info, statErr := os.Stat(abs); statErr == nil && !info.IsDir() {
		abs = filepath.Dir(abs)
	}

	cur := filepath.Clean(abs)
	for {
		if f.isRoot(cur) {
			return cur, nil
		}

		parent := filepath.Dir(cur)
		if parent == cur || exists(filepath.Join(cur, ".git")) {
			return "", &domain.OpError{
				Op:   "workspacefinder.findroot",
				Kind: domain.KindNotFound,
				Path: abs,
				Err:  fmt.Errorf("no %s or %s above %s: %w", f.IndexFile, f.SettingsFile, abs, domain.ErrNotFound),
			}
		}
		cur = parent
	}
}

func (f *Finder) isRoot(dir string) bool {
	if f.SettingsFile != "" && exists(filepath.Join(dir, f.SettingsFile)) {
		return true
	}
	if f.IconsDir != "" && filepath.Base(dir) == filepath.Base(f.IconsDir) {
		return false
	}
	return exists(filepath.Join(dir, f.IndexFile))
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
