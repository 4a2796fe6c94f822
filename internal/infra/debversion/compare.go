// Package debversion compares package versions with dpkg ordering rules.
package debversion

import (
	"fmt"

	"github.com/Lessica/lessica.github.io/internal/domain"
	"github.com/Lessica/lessica.github.io/internal/ports"
	version "github.com/knqyf263/go-deb-version"
)

type Comparer struct{}

func NewComparer() *Comparer {
	return &Comparer{}
}

var _ ports.VersionComparer = (*Comparer)(nil)

// Greater reports whether a sorts after b.
func (c *Comparer) Greater(a, b string) (bool, error) {
	va, err := version.NewVersion(a)
	if err != nil {
		return false, fmt.Errorf("parse version %q: %w: %w", a, domain.ErrInvalidConfig, err)
	}
	vb, err := version.NewVersion(b)
	if err != nil {
		return false, fmt.Errorf("parse version %q: %w: %w", b, domain.ErrInvalidConfig, err)
	}
	return va.GreaterThan(vb), nil
}
