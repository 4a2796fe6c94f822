package domain

import (
	"net/url"
	"path/filepath"
	"strings"
)

// Workspace is a loaded repository checkout: its root, settings and index.
type Workspace struct {
	Root   string
	Config Config
	Index  RepoIndex
}

// Path resolves a workspace-relative path.
func (w Workspace) Path(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(w.Root, filepath.FromSlash(rel))
}

// HavocPackagesURL is the compressed package index published by Havoc.
func (w Workspace) HavocPackagesURL() string {
	return strings.TrimRight(w.Config.Havoc.BaseURL, "/") + "/Packages.gz"
}

// HavocCacheDir is where the Havoc index is mirrored: <cache>/<host>.
func (w Workspace) HavocCacheDir() (string, error) {
	u, err := url.Parse(w.Config.Havoc.BaseURL)
	if err != nil || u.Host == "" {
		return "", &OpError{Op: "workspace.havoc_cache", Kind: KindInvalidConfig, Err: ErrInvalidConfig}
	}
	return filepath.Join(w.Path(w.Config.Paths.CacheDir), u.Host), nil
}

// IndexFiles lists the Packages index and its compressed variants, in Release order.
func (w Workspace) IndexFiles() []string {
	base := w.Path(w.Config.Paths.Packages)
	out := []string{base}
	for _, c := range w.Config.Paths.Compressions {
		out = append(out, base+c.Ext())
	}
	return out
}
