package compress

import (
	"bytes"
	stdbzip2 "compress/bzip2"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Lessica/lessica.github.io/internal/domain"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

func decode(t *testing.T, path string) []byte {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()

	var r io.Reader
	switch filepath.Ext(path) {
	case ".gz":
		zr, err := gzip.NewReader(f)
		if err != nil {
			t.Fatalf("gzip: %v", err)
		}
		r = zr
	case ".bz2":
		r = stdbzip2.NewReader(f)
	case ".xz":
		xr, err := xz.NewReader(f)
		if err != nil {
			t.Fatalf("xz: %v", err)
		}
		r = xr
	case ".zst":
		zr, err := zstd.NewReader(f)
		if err != nil {
			t.Fatalf("zstd: %v", err)
		}
		defer zr.Close()
		r = zr
	default:
		t.Fatalf("unexpected extension %s", path)
	}

	b, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	return b
}

func TestCompressFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "Packages")
	content := []byte(strings.Repeat("Package: wiki.qaq.trapp\nVersion: 1.0\n\n", 200))
	if err := os.WriteFile(src, content, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	paths, err := NewCompressor().CompressFile(src, domain.AllCompressions())
	if err != nil {
		t.Fatalf("CompressFile: %v", err)
	}
	want := []string{src + ".gz", src + ".bz2", src + ".xz", src + ".zst"}
	if len(paths) != len(want) {
		t.Fatalf("expected %v, got %v", want, paths)
	}
	for i, p := range paths {
		if p != want[i] {
			t.Fatalf("expected %s, got %s", want[i], p)
		}
		if got := decode(t, p); !bytes.Equal(got, content) {
			t.Fatalf("%s: round trip mismatch", p)
		}
		if _, err := os.Stat(p + ".tmp"); !os.IsNotExist(err) {
			t.Fatalf("temporary file left behind for %s", p)
		}
	}
}

func TestCompressFileMissingSource(t *testing.T) {
	_, err := NewCompressor().CompressFile(filepath.Join(t.TempDir(), "Packages"), []domain.Compression{domain.CompressionGzip})
	if !domain.IsKind(err, domain.KindExecution) {
		t.Fatalf("expected execution error, got %v", err)
	}
}

func TestDecompressFileReadsEveryFormat(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "Packages")
	content := []byte("Package: com.example.tweak\nVersion: 2.0-1\n\n")
	if err := os.WriteFile(src, content, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	c := NewCompressor()
	paths, err := c.CompressFile(src, domain.AllCompressions())
	if err != nil {
		t.Fatalf("CompressFile: %v", err)
	}
	for _, p := range paths {
		got, err := c.DecompressFile(p)
		if err != nil {
			t.Fatalf("DecompressFile(%s): %v", p, err)
		}
		if !bytes.Equal(got, content) {
			t.Fatalf("%s: got %q", p, got)
		}
	}
}

func TestDecompressFileErrors(t *testing.T) {
	c := NewCompressor()
	dir := t.TempDir()

	if _, err := c.DecompressFile(filepath.Join(dir, "Packages.gz")); !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("expected not_found, got %v", err)
	}
	if _, err := c.DecompressFile(filepath.Join(dir, "Packages.rar")); !domain.IsKind(err, domain.KindInvalidConfig) {
		t.Fatalf("expected invalid_config, got %v", err)
	}

	bad := filepath.Join(dir, "broken.gz")
	if err := os.WriteFile(bad, []byte("not gzip"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := c.DecompressFile(bad); !domain.IsKind(err, domain.KindExecution) {
		t.Fatalf("expected execution error, got %v", err)
	}
}
