package workspacefinder

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Lessica/lessica.github.io/internal/domain"
)

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}
	if cfg.Sync.CommitMessage != "update dists" {
		t.Fatalf("expected default commit message, got=%q", cfg.Sync.CommitMessage)
	}
	if cfg.Sync.TrackedPath != "Packages" {
		t.Fatalf("expected tracked path Packages, got=%q", cfg.Sync.TrackedPath)
	}
}

func TestLoadConfig_AppliesDefaults(t *testing.T) {
	root := t.TempDir()

	content := `masking:
  enabled: false
http:
  timeout: 30s
  retries: 0
paths:
  compressions: [gz, xz]
sync:
  keyring: none
  runtime:
    python: ">=3.10"
  stages:
    collect-dists: ["{{python}}", "devkit/collect_dists.py"]
`
	if err := os.WriteFile(filepath.Join(root, SettingsFile), []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := LoadConfig(root)
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}

	if cfg.Masking.Enabled {
		t.Fatalf("expected masking=false")
	}
	if cfg.HTTP.Timeout != 30*time.Second || cfg.HTTP.Retries != 0 {
		t.Fatalf("unexpected http config %+v", cfg.HTTP)
	}
	if len(cfg.Paths.Compressions) != 2 || cfg.Paths.Compressions[1] != domain.CompressionXZ {
		t.Fatalf("unexpected compressions %v", cfg.Paths.Compressions)
	}
	if cfg.Paths.DownloadsDir != "downloads" {
		t.Fatalf("expected default downloads dir, got=%s", cfg.Paths.DownloadsDir)
	}
	if cfg.Sync.Keyring != domain.KeyringNone {
		t.Fatalf("expected keyring none, got=%s", cfg.Sync.Keyring)
	}
	if cfg.Sync.Runtime.Python != ">=3.10" || cfg.Sync.Runtime.Venv != ".venv" {
		t.Fatalf("unexpected runtime %+v", cfg.Sync.Runtime)
	}
	argv := cfg.Sync.Stages[domain.StepCollectDists]
	if len(argv) != 2 || argv[0] != "{{python}}" {
		t.Fatalf("unexpected stage override %v", argv)
	}
	if cfg.Release.Codename != "82Flex_Repo" {
		t.Fatalf("expected default codename, got=%s", cfg.Release.Codename)
	}
}

func TestLoadConfig_RejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"unknown stage":   "sync:\n  stages:\n    publish: [\"true\"]\n",
		"empty stage":     "sync:\n  stages:\n    build-release: []\n",
		"bad keyring":     "sync:\n  keyring: agent\n",
		"bad timeout":     "http:\n  timeout: soon\n",
		"bad compression": "paths:\n  compressions: [lz4]\n",
	}

	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			root := t.TempDir()
			if err := os.WriteFile(filepath.Join(root, SettingsFile), []byte(content), 0o644); err != nil {
				t.Fatalf("write: %v", err)
			}
			_, err := LoadConfig(root)
			if !domain.IsKind(err, domain.KindInvalidConfig) {
				t.Fatalf("expected invalid config, got %v", err)
			}
			if !strings.Contains(err.Error(), SettingsFile) {
				t.Fatalf("expected path in error, got %v", err)
			}
		})
	}
}
