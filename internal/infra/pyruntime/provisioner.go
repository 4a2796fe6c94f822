// Package pyruntime prepares the pinned Python environment used by external stages.
package pyruntime

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"

	"github.com/Lessica/lessica.github.io/internal/domain"
	"github.com/Lessica/lessica.github.io/internal/ports"
	"github.com/Masterminds/semver/v3"
)

var reVersion = regexp.MustCompile(`Python\s+(\d+\.\d+(?:\.\d+)?)`)

type Provisioner struct {
	runner ports.CommandRunner
}

func New(runner ports.CommandRunner) *Provisioner {
	return &Provisioner{runner: runner}
}

var _ ports.RuntimeProvisioner = (*Provisioner)(nil)

// Provision checks the interpreter against the pinned constraint and creates
// the virtual environment when it does not exist yet.
func (p *Provisioner) Provision(ctx context.Context, root string, spec domain.RuntimeSpec) (domain.Runtime, error) {
	constraint, err := semver.NewConstraint(spec.Python)
	if err != nil {
		return domain.Runtime{}, &domain.OpError{
			Op:   "pyruntime.provision",
			Kind: domain.KindInvalidConfig,
			Err:  fmt.Errorf("python constraint %q: %w: %w", spec.Python, domain.ErrInvalidConfig, err),
		}
	}

	res, err := p.runner.Run(ctx, domain.Command{Name: spec.Interpreter, Args: []string{"--version"}, Dir: root})
	if err != nil {
		return domain.Runtime{}, err
	}

	m := reVersion.FindStringSubmatch(res.Stdout + res.Stderr)
	if m == nil {
		return domain.Runtime{}, &domain.OpError{
			Op:   "pyruntime.provision",
			Kind: domain.KindExecution,
			Err:  fmt.Errorf("cannot read version from %s --version: %w", spec.Interpreter, domain.ErrExecution),
		}
	}
	version, err := semver.NewVersion(m[1])
	if err != nil {
		return domain.Runtime{}, &domain.OpError{Op: "pyruntime.provision", Kind: domain.KindExecution, Err: err}
	}
	if !constraint.Check(version) {
		return domain.Runtime{}, &domain.OpError{
			Op:   "pyruntime.provision",
			Kind: domain.KindExecution,
			Err:  fmt.Errorf("%s is python %s, need %s: %w", spec.Interpreter, version, spec.Python, domain.ErrExecution),
		}
	}

	venv := filepath.Join(root, spec.Venv)
	python := venvPython(venv)
	if _, err := os.Stat(python); errors.Is(err, os.ErrNotExist) {
		if _, err := p.runner.Run(ctx, domain.Command{
			Name:   spec.Interpreter,
			Args:   []string{"-m", "venv", venv},
			Dir:    root,
			Stream: true,
		}); err != nil {
			return domain.Runtime{}, err
		}
	}

	return domain.Runtime{Version: version.String(), Python: python, Venv: venv}, nil
}

// InstallDeps runs pip against the manifest. It reports false when there is no manifest.
func (p *Provisioner) InstallDeps(ctx context.Context, root string, rt domain.Runtime, manifest string) (bool, error) {
	path := filepath.Join(root, manifest)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return false, nil
	}

	_, err := p.runner.Run(ctx, domain.Command{
		Name:   rt.Python,
		Args:   []string{"-m", "pip", "install", "-r", path},
		Dir:    root,
		Stream: true,
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

func venvPython(venv string) string {
	if runtime.GOOS == "windows" {
		return filepath.Join(venv, "Scripts", "python.exe")
	}
	return filepath.Join(venv, "bin", "python")
}
