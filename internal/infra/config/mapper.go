package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/Lessica/lessica.github.io/internal/domain"
)

func MapIndex(path string, y YAMLIndex) (domain.RepoIndex, error) {
	ix := domain.RepoIndex{
		BaseURL:       strings.TrimSpace(y.BaseURL),
		Repos:         make([]string, 0, len(y.Repos)),
		HavocMappings: map[string]string{},
	}

	if ix.BaseURL != "" {
		u, err := url.Parse(ix.BaseURL)
		if err != nil || !u.IsAbs() || u.Host == "" {
			return domain.RepoIndex{}, invalidField(path, "base-url", "must be an absolute url")
		}
	}

	for i, r := range y.Repos {
		r = strings.TrimSpace(r)
		if _, err := domain.ParseGitHubRepo(r); err != nil {
			return domain.RepoIndex{}, invalidField(path, fmt.Sprintf("repos[%d]", i), "expected https://github.com/<owner>/<repo>")
		}
		ix.Repos = append(ix.Repos, r)
	}

	for pkg, id := range y.HavocMappings {
		if strings.TrimSpace(pkg) == "" {
			return domain.RepoIndex{}, invalidField(path, "havoc-mappings", "package id is required")
		}
		if strings.TrimSpace(id) == "" {
			return domain.RepoIndex{}, invalidField(path, "havoc-mappings."+pkg, "havoc id is required")
		}
		ix.HavocMappings[pkg] = strings.TrimSpace(id)
	}

	return ix, nil
}

func invalidField(path, field, msg string) error {
	return &domain.OpError{
		Op:   "config.map",
		Kind: domain.KindInvalidConfig,
		Path: path,
		Err:  fmt.Errorf("field %s: %s: %w", field, msg, domain.ErrInvalidConfig),
	}
}
