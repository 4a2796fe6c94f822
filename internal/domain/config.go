package domain

import "time"

// Config represents devkit settings loaded from devkit.yaml.
type Config struct {
	Masking MaskingConfig
	Release ReleaseConfig
	Paths   PathsConfig
	Havoc   HavocConfig
	HTTP    HTTPConfig
	Sync    SyncConfig
}

type MaskingConfig struct {
	Enabled bool
}

// ReleaseConfig holds the static header fields of the Release file.
type ReleaseConfig struct {
	Origin        string
	Label         string
	Suite         string
	Version       string
	Codename      string
	Architectures []string
	Components    []string
	Description   string
}

type PathsConfig struct {
	DownloadsDir string
	CacheDir     string
	IconsDir     string
	Packages     string
	Release      string
	RunsDir      string
	// Compressions lists the compressed variants written next to Packages.
	Compressions []Compression
}

type HavocConfig struct {
	BaseURL string
}

type HTTPConfig struct {
	Timeout time.Duration
	Retries int
}

// Identity is the committer identity used for the sync commit.
type Identity struct {
	Name  string
	Email string
}

// KeyringMode selects where the signing key is imported.
type KeyringMode string

const (
	KeyringGPG  KeyringMode = "gpg"
	KeyringNone KeyringMode = "none"
)

type SyncConfig struct {
	TrackedPath   string
	CommitMessage string
	Remote        string
	CloneURL      string
	Identity      Identity
	Keyring       KeyringMode
	GPGProgram    string
	Runtime       RuntimeSpec

	// Stages maps a build stage to an external argv that replaces the built-in stage.
	Stages map[StepName][]string
}

// RuntimeSpec pins the Python runtime used by external stage commands.
// An empty Python constraint disables runtime provisioning.
type RuntimeSpec struct {
	Python      string
	Interpreter string
	Venv        string
	Manifest    string
}

// DefaultConfig provides sane defaults if devkit.yaml is partially missing.
func DefaultConfig() Config {
	return Config{
		Masking: MaskingConfig{Enabled: true},
		Release: ReleaseConfig{
			Origin:        "82Flex",
			Label:         "82Flex",
			Suite:         "stable",
			Version:       "1.0",
			Codename:      "82Flex_Repo",
			Architectures: []string{"iphoneos-arm", "iphoneos-arm64", "iphoneos-arm64e"},
			Components:    []string{"main"},
			Description:   "Personal repository of @Lessica",
		},
		Paths: PathsConfig{
			DownloadsDir: "downloads",
			CacheDir:     ".cache",
			IconsDir:     "icons",
			Packages:     "Packages",
			Release:      "Release",
			RunsDir:      ".devkit/runs",
			Compressions: AllCompressions(),
		},
		Havoc: HavocConfig{
			BaseURL: "https://havoc.app",
		},
		HTTP: HTTPConfig{
			Timeout: 120 * time.Second,
			Retries: 3,
		},
		Sync: SyncConfig{
			TrackedPath:   "Packages",
			CommitMessage: "update dists",
			Remote:        "origin",
			Identity: Identity{
				Name:  "github-actions[bot]",
				Email: "41898282+github-actions[bot]@users.noreply.github.com",
			},
			Keyring:    KeyringGPG,
			GPGProgram: "gpg",
			Runtime: RuntimeSpec{
				Interpreter: "python3",
				Venv:        ".venv",
				Manifest:    "requirements.txt",
			},
			Stages: map[StepName][]string{},
		},
	}
}
