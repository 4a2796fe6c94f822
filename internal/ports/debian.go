package ports

import "github.com/Lessica/lessica.github.io/internal/domain"

// ControlReader extracts the control paragraph from a .deb archive.
type ControlReader interface {
	ReadControl(path string) (domain.Paragraph, error)
}

// VersionComparer orders Debian version strings.
type VersionComparer interface {
	// Greater reports whether a sorts after b. Unparseable versions return an error.
	Greater(a, b string) (bool, error)
}

// Compressor writes compressed variants of a file next to it.
type Compressor interface {
	CompressFile(src string, formats []domain.Compression) ([]string, error)
}

// Digester computes size and checksums of a file.
type Digester interface {
	Digest(path string) (domain.FileDigest, error)
}

// Decompressor reads a compressed index (Packages.gz and friends).
type Decompressor interface {
	DecompressFile(path string) ([]byte, error)
}
