package fsworkspace

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/Lessica/lessica.github.io/internal/domain"
	"github.com/Lessica/lessica.github.io/internal/infra/config"
	"gopkg.in/yaml.v3"
)

type Initializer struct {
	Paths domain.PathsConfig
}

func NewInitializer(paths domain.PathsConfig) *Initializer {
	return &Initializer{Paths: paths}
}

// Init scaffolds a repository workspace. Existing files are kept unless force is set.
func (i *Initializer) Init(root string, index domain.RepoIndex, force bool) error {
	root = filepath.Clean(root)

	dirs := []string{
		filepath.Join(root, i.Paths.DownloadsDir),
		filepath.Join(root, i.Paths.IconsDir),
		filepath.Join(root, ".devkit", "logs"),
	}

	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return opErr(d, err)
		}
	}

	if err := ensureGitignore(root, i.Paths.CacheDir); err != nil {
		return opErr(filepath.Join(root, ".gitignore"), err)
	}

	if err := writeIndex(filepath.Join(root, config.IndexFile), index, force); err != nil {
		return opErr(filepath.Join(root, config.IndexFile), err)
	}

	return fs.WalkDir(templatesFS, "templates", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel := strings.TrimPrefix(p, "templates/")
		dst := filepath.Join(root, rel)

		if !force && exists(dst) {
			return nil
		}

		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return opErr(dst, err)
		}

		b, err := fs.ReadFile(templatesFS, p)
		if err != nil {
			return err
		}

		if err := os.WriteFile(dst, b, 0o644); err != nil {
			return opErr(dst, err)
		}
		return nil
	})
}

func writeIndex(path string, index domain.RepoIndex, force bool) error {
	if !force && exists(path) {
		return nil
	}

	dto := config.YAMLIndex{
		BaseURL:       index.BaseURL,
		Repos:         index.Repos,
		HavocMappings: index.HavocMappings,
	}
	if dto.Repos == nil {
		dto.Repos = []string{}
	}
	if dto.HavocMappings == nil {
		dto.HavocMappings = map[string]string{}
	}

	b, err := yaml.Marshal(dto)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func opErr(path string, err error) error {
	return &domain.OpError{
		Op:   "fsworkspace.init",
		Kind: domain.KindExecution,
		Path: path,
		Err:  err,
	}
}

func ensureGitignore(root, cacheDir string) error {
	const header = "# devkit"
	entries := []string{
		".devkit/",
		strings.TrimSuffix(filepath.ToSlash(cacheDir), "/") + "/",
	}

	path := filepath.Join(root, ".gitignore")
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			lines := append([]string{header}, entries...)
			lines = append(lines, "")
			return os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644)
		}
		return err
	}

	existing := string(b)
	present := map[string]bool{}
	for _, line := range strings.Split(existing, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		present[trimmed] = true
	}

	var missing []string
	for _, e := range entries {
		if !present[e] {
			missing = append(missing, e)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	var out strings.Builder
	out.Grow(len(existing) + 64)

	out.WriteString(existing)
	if existing != "" && !strings.HasSuffix(existing, "\n") {
		out.WriteByte('\n')
	}
	out.WriteByte('\n')
	if !present[header] {
		out.WriteString(header)
		out.WriteByte('\n')
	}
	for _, e := range missing {
		out.WriteString(e)
		out.WriteByte('\n')
	}

	return os.WriteFile(path, []byte(out.String()), 0o644)
}
