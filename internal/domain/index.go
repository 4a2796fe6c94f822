package domain

import (
	"fmt"
	"net/url"
	"strings"
)

// RepoIndex is the repository description kept in index.yaml.
type RepoIndex struct {
	BaseURL       string
	Repos         []string
	HavocMappings map[string]string
}

// HavocID returns the Havoc identifier mapped to a package, if any.
func (ix RepoIndex) HavocID(pkg string) (string, bool) {
	id, ok := ix.HavocMappings[pkg]
	if !ok || strings.TrimSpace(id) == "" {
		return "", false
	}
	return id, true
}

// IconIndex maps a package identifier to an icon file name under the icons directory.
type IconIndex map[string]string

// GitHubRepo identifies a repository on GitHub.
type GitHubRepo struct {
	Owner string
	Name  string
}

func (r GitHubRepo) String() string {
	return r.Owner + "/" + r.Name
}

// ParseGitHubRepo extracts owner/name from a https://github.com/<owner>/<name> URL.
// The last two path segments are used, so trailing ".git" and slashes are tolerated.
func ParseGitHubRepo(raw string) (GitHubRepo, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return GitHubRepo{}, fmt.Errorf("parse repo url %q: %w", raw, ErrInvalidConfig)
	}
	if u.Scheme != "https" || !strings.EqualFold(u.Host, "github.com") {
		return GitHubRepo{}, fmt.Errorf("repo url %q is not a https://github.com url: %w", raw, ErrInvalidConfig)
	}

	parts := strings.FieldsFunc(u.Path, func(r rune) bool { return r == '/' })
	if len(parts) < 2 {
		return GitHubRepo{}, fmt.Errorf("repo url %q needs owner and name: %w", raw, ErrInvalidConfig)
	}
	owner := parts[len(parts)-2]
	name := strings.TrimSuffix(parts[len(parts)-1], ".git")
	if owner == "" || name == "" {
		return GitHubRepo{}, fmt.Errorf("repo url %q needs owner and name: %w", raw, ErrInvalidConfig)
	}
	return GitHubRepo{Owner: owner, Name: name}, nil
}

// DepictionURL is the Cydia depiction page for a Havoc package.
func DepictionURL(havocID string) string {
	return "https://havoc.app/depiction/" + havocID
}

// SileoDepictionURL is the Sileo native depiction for a Havoc package.
func SileoDepictionURL(havocID string) string {
	return "https://havoc.app/package/" + havocID + "/depiction.json"
}

// IconURL joins the repository base URL with an icon file name.
func IconURL(baseURL, iconsDir, file string) string {
	return strings.TrimRight(baseURL, "/") + "/" + strings.Trim(iconsDir, "/") + "/" + file
}
