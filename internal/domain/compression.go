package domain

import "fmt"

// Compression is a compressed variant of the Packages index.
type Compression string

const (
	CompressionGzip  Compression = "gz"
	CompressionBzip2 Compression = "bz2"
	CompressionXZ    Compression = "xz"
	CompressionZstd  Compression = "zst"
)

// AllCompressions returns every supported variant in the order they are written.
func AllCompressions() []Compression {
	return []Compression{CompressionGzip, CompressionBzip2, CompressionXZ, CompressionZstd}
}

// Ext is the file suffix including the dot.
func (c Compression) Ext() string {
	return "." + string(c)
}

// ParseCompression validates a compression name.
func ParseCompression(s string) (Compression, error) {
	for _, c := range AllCompressions() {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unsupported compression %q: %w", s, ErrInvalidConfig)
}
