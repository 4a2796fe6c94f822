package ports

import "github.com/Lessica/lessica.github.io/internal/domain"

// IconIndexStore reads and writes the package → icon file mapping.
type IconIndexStore interface {
	LoadIcons() (domain.IconIndex, error)
	SaveIcons(icons domain.IconIndex) error
}
