package workspacefinder

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Lessica/lessica.github.io/internal/domain"
	"gopkg.in/yaml.v3"
)

// SettingsFile holds optional devkit settings at the workspace root.
const SettingsFile = "devkit.yaml"

// LoadConfig loads devkit.yaml from the workspace root and applies defaults.
// A missing file yields the defaults.
func LoadConfig(root string) (domain.Config, error) {
	cfg := domain.DefaultConfig()

	path := filepath.Join(root, SettingsFile)
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, &domain.OpError{
			Op:   "workspacefinder.loadconfig",
			Kind: domain.KindExecution,
			Path: path,
			Err:  err,
		}
	}

	var y yamlConfig
	if err := yaml.Unmarshal(b, &y); err != nil {
		return cfg, &domain.OpError{
			Op:   "workspacefinder.loadconfig",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  err,
		}
	}

	if err := apply(&cfg, y); err != nil {
		return domain.DefaultConfig(), &domain.OpError{
			Op:   "workspacefinder.loadconfig",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  err,
		}
	}
	return cfg, nil
}

// apply overlays parsed values on top of defaults.
func apply(cfg *domain.Config, y yamlConfig) error {
	if y.Masking.Enabled != nil {
		cfg.Masking.Enabled = *y.Masking.Enabled
	}

	r := y.Release
	setString(&cfg.Release.Origin, r.Origin)
	setString(&cfg.Release.Label, r.Label)
	setString(&cfg.Release.Suite, r.Suite)
	setString(&cfg.Release.Version, r.Version)
	setString(&cfg.Release.Codename, r.Codename)
	setString(&cfg.Release.Description, r.Description)
	if len(r.Architectures) > 0 {
		cfg.Release.Architectures = r.Architectures
	}
	if len(r.Components) > 0 {
		cfg.Release.Components = r.Components
	}

	p := y.Paths
	setString(&cfg.Paths.DownloadsDir, p.Downloads)
	setString(&cfg.Paths.CacheDir, p.Cache)
	setString(&cfg.Paths.IconsDir, p.Icons)
	setString(&cfg.Paths.Packages, p.Packages)
	setString(&cfg.Paths.Release, p.Release)
	setString(&cfg.Paths.RunsDir, p.Runs)
	if p.Compressions != nil {
		cfg.Paths.Compressions = make([]domain.Compression, 0, len(p.Compressions))
		for _, raw := range p.Compressions {
			c, err := domain.ParseCompression(raw)
			if err != nil {
				return fmt.Errorf("paths.compressions: %w", err)
			}
			cfg.Paths.Compressions = append(cfg.Paths.Compressions, c)
		}
	}

	setString(&cfg.Havoc.BaseURL, y.Havoc.BaseURL)

	if y.HTTP.Timeout != "" {
		d, err := time.ParseDuration(y.HTTP.Timeout)
		if err != nil || d <= 0 {
			return fmt.Errorf("http.timeout: invalid duration %q: %w", y.HTTP.Timeout, domain.ErrInvalidConfig)
		}
		cfg.HTTP.Timeout = d
	}
	if y.HTTP.Retries != nil {
		if *y.HTTP.Retries < 0 {
			return fmt.Errorf("http.retries: must not be negative: %w", domain.ErrInvalidConfig)
		}
		cfg.HTTP.Retries = *y.HTTP.Retries
	}

	s := y.Sync
	setString(&cfg.Sync.TrackedPath, s.TrackedPath)
	setString(&cfg.Sync.CommitMessage, s.CommitMessage)
	setString(&cfg.Sync.Remote, s.Remote)
	setString(&cfg.Sync.CloneURL, s.CloneURL)
	setString(&cfg.Sync.Identity.Name, s.Identity.Name)
	setString(&cfg.Sync.Identity.Email, s.Identity.Email)
	setString(&cfg.Sync.GPGProgram, s.GPGProgram)
	setString(&cfg.Sync.Runtime.Python, s.Runtime.Python)
	setString(&cfg.Sync.Runtime.Interpreter, s.Runtime.Interpreter)
	setString(&cfg.Sync.Runtime.Venv, s.Runtime.Venv)
	setString(&cfg.Sync.Runtime.Manifest, s.Runtime.Manifest)

	if s.Keyring != "" {
		switch mode := domain.KeyringMode(strings.ToLower(strings.TrimSpace(s.Keyring))); mode {
		case domain.KeyringGPG, domain.KeyringNone:
			cfg.Sync.Keyring = mode
		default:
			return fmt.Errorf("sync.keyring: unsupported mode %q: %w", s.Keyring, domain.ErrInvalidConfig)
		}
	}

	for name, argv := range s.Stages {
		step := domain.StepName(name)
		if !domain.IsBuildStage(step) {
			return fmt.Errorf("sync.stages: unknown stage %q: %w", name, domain.ErrInvalidConfig)
		}
		if len(argv) == 0 || strings.TrimSpace(argv[0]) == "" {
			return fmt.Errorf("sync.stages.%s: command is empty: %w", name, domain.ErrInvalidConfig)
		}
		cfg.Sync.Stages[step] = argv
	}

	return nil
}

func setString(dst *string, v string) {
	if strings.TrimSpace(v) != "" {
		*dst = strings.TrimSpace(v)
	}
}

type yamlConfig struct {
	Masking struct {
		Enabled *bool `yaml:"enabled"`
	} `yaml:"masking"`

	Release struct {
		Origin        string   `yaml:"origin"`
		Label         string   `yaml:"label"`
		Suite         string   `yaml:"suite"`
		Version       string   `yaml:"version"`
		Codename      string   `yaml:"codename"`
		Architectures []string `yaml:"architectures"`
		Components    []string `yaml:"components"`
		Description   string   `yaml:"description"`
	} `yaml:"release"`

	Paths struct {
		Downloads    string   `yaml:"downloads"`
		Cache        string   `yaml:"cache"`
		Icons        string   `yaml:"icons"`
		Packages     string   `yaml:"packages"`
		Release      string   `yaml:"release"`
		Runs         string   `yaml:"runs"`
		Compressions []string `yaml:"compressions"`
	} `yaml:"paths"`

	Havoc struct {
		BaseURL string `yaml:"base-url"`
	} `yaml:"havoc"`

	HTTP struct {
		Timeout string `yaml:"timeout"`
		Retries *int   `yaml:"retries"`
	} `yaml:"http"`

	Sync struct {
		TrackedPath   string `yaml:"tracked-path"`
		CommitMessage string `yaml:"commit-message"`
		Remote        string `yaml:"remote"`
		CloneURL      string `yaml:"clone-url"`
		Identity      struct {
			Name  string `yaml:"name"`
			Email string `yaml:"email"`
		} `yaml:"identity"`
		Keyring    string `yaml:"keyring"`
		GPGProgram string `yaml:"gpg-program"`
		Runtime    struct {
			Python      string `yaml:"python"`
			Interpreter string `yaml:"interpreter"`
			Venv        string `yaml:"venv"`
			Manifest    string `yaml:"manifest"`
		} `yaml:"runtime"`
		Stages map[string][]string `yaml:"stages"`
	} `yaml:"sync"`
}
