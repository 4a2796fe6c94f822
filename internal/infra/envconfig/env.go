// Package envconfig reads CI secrets from the process environment.
package envconfig

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/Lessica/lessica.github.io/internal/domain"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// DotEnvFile is loaded from the workspace root when present.
const DotEnvFile = ".env"

type secretsEnv struct {
	GitHubToken   string `env:"GITHUB_TOKEN"`
	GPGPrivateKey string `env:"GPG_PRIVATE_KEY"`
	GPGPassphrase string `env:"GPG_PASSPHRASE"`
}

// LoadDotEnv exports variables from <root>/.env without overriding the environment.
// A missing file is not an error.
func LoadDotEnv(root string) error {
	path := filepath.Join(root, DotEnvFile)
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return &domain.OpError{
			Op:   "envconfig.dotenv",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  err,
		}
	}
	return nil
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func LoadSecrets() (domain.Secrets, error) {
	var raw secretsEnv
	if err := ParseEnv(&raw); err != nil {
		return domain.Secrets{}, &domain.OpError{
			Op:   "envconfig.secrets",
			Kind: domain.KindInvalidConfig,
			Err:  err,
		}
	}
	return domain.Secrets{
		GitHubToken:   raw.GitHubToken,
		GPGPrivateKey: raw.GPGPrivateKey,
		GPGPassphrase: raw.GPGPassphrase,
	}, nil
}
