package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/Lessica/lessica.github.io/internal/domain"
	"gopkg.in/yaml.v3"
)

// IndexFile is the repository index that marks a workspace root.
const IndexFile = "index.yaml"

func LoadIndex(path string) (domain.RepoIndex, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return domain.RepoIndex{}, &domain.OpError{
			Op:   "config.load_index",
			Kind: domain.KindNotFound,
			Path: path,
			Err:  err,
		}
	}

	var dto YAMLIndex
	if err := yaml.Unmarshal(b, &dto); err != nil {
		return domain.RepoIndex{}, &domain.OpError{
			Op:   "config.load_index",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  err,
		}
	}

	return MapIndex(path, dto)
}

// IconStore reads and writes the icon index kept next to the icons.
type IconStore struct {
	Path string
}

func NewIconStore(root, iconsDir string) *IconStore {
	return &IconStore{Path: filepath.Join(root, iconsDir, IndexFile)}
}

// LoadIcons returns an empty index when the file does not exist yet.
func (s *IconStore) LoadIcons() (domain.IconIndex, error) {
	b, err := os.ReadFile(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return domain.IconIndex{}, nil
	}
	if err != nil {
		return nil, &domain.OpError{Op: "config.load_icons", Kind: domain.KindExecution, Path: s.Path, Err: err}
	}

	var dto YAMLIconIndex
	if err := yaml.Unmarshal(b, &dto); err != nil {
		return nil, &domain.OpError{Op: "config.load_icons", Kind: domain.KindInvalidConfig, Path: s.Path, Err: err}
	}

	out := domain.IconIndex{}
	for k, v := range dto {
		out[k] = v
	}
	return out, nil
}

func (s *IconStore) SaveIcons(icons domain.IconIndex) error {
	dto := YAMLIconIndex{}
	for k, v := range icons {
		dto[k] = v
	}

	b, err := yaml.Marshal(dto)
	if err != nil {
		return &domain.OpError{Op: "config.save_icons", Kind: domain.KindExecution, Path: s.Path, Err: err}
	}

	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return &domain.OpError{Op: "config.save_icons", Kind: domain.KindExecution, Path: s.Path, Err: err}
	}

	tmp := s.Path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return &domain.OpError{Op: "config.save_icons", Kind: domain.KindExecution, Path: s.Path, Err: err}
	}
	if err := os.Rename(tmp, s.Path); err != nil {
		_ = os.Remove(tmp)
		return &domain.OpError{Op: "config.save_icons", Kind: domain.KindExecution, Path: s.Path, Err: err}
	}
	return nil
}
