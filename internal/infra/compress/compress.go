// Package compress writes compressed copies of repository index files.
package compress

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/Lessica/lessica.github.io/internal/domain"
	"github.com/Lessica/lessica.github.io/internal/ports"
	"github.com/dsnet/compress/bzip2"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

type Compressor struct{}

func NewCompressor() *Compressor {
	return &Compressor{}
}

var (
	_ ports.Compressor   = (*Compressor)(nil)
	_ ports.Decompressor = (*Compressor)(nil)
)

// CompressFile writes src.<ext> for every requested format and returns the written paths.
func (c *Compressor) CompressFile(src string, formats []domain.Compression) ([]string, error) {
	out := make([]string, 0, len(formats))
	for _, format := range formats {
		dst := src + format.Ext()
		if err := compressTo(src, dst, format); err != nil {
			return out, &domain.OpError{Op: "compress." + string(format), Kind: domain.KindExecution, Path: dst, Err: err}
		}
		out = append(out, dst)
	}
	return out, nil
}

func compressTo(src, dst string, format domain.Compression) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	tmp := dst + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(f)
	err = encode(bw, in, format)
	if err == nil {
		err = bw.Flush()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, dst)
}

func encode(w io.Writer, r io.Reader, format domain.Compression) error {
	zw, err := NewWriter(w, format)
	if err != nil {
		return err
	}
	if _, err := io.Copy(zw, r); err != nil {
		_ = zw.Close()
		return err
	}
	return zw.Close()
}

// NewWriter returns an encoder for format writing to w.
func NewWriter(w io.Writer, format domain.Compression) (io.WriteCloser, error) {
	switch format {
	case domain.CompressionGzip:
		return gzip.NewWriterLevel(w, gzip.BestCompression)
	case domain.CompressionBzip2:
		return bzip2.NewWriter(w, &bzip2.WriterConfig{Level: bzip2.BestCompression})
	case domain.CompressionXZ:
		return xz.NewWriter(w)
	case domain.CompressionZstd:
		return zstd.NewWriter(w)
	default:
		return nil, fmt.Errorf("unsupported compression %q: %w", format, domain.ErrInvalidConfig)
	}
}

// DecompressFile reads a compressed file, choosing the decoder from its extension.
func (c *Compressor) DecompressFile(path string) ([]byte, error) {
	format, err := domain.ParseCompression(strings.TrimPrefix(filepath.Ext(path), "."))
	if err != nil {
		return nil, &domain.OpError{Op: "compress.decompress", Kind: domain.KindInvalidConfig, Path: path, Err: err}
	}

	f, err := os.Open(path)
	if err != nil {
		kind := domain.KindExecution
		if errors.Is(err, fs.ErrNotExist) {
			kind = domain.KindNotFound
		}
		return nil, &domain.OpError{Op: "compress.decompress", Kind: kind, Path: path, Err: err}
	}
	defer f.Close()

	r, closeFn, err := NewReader(bufio.NewReader(f), format)
	if err == nil {
		defer closeFn()
		var b []byte
		if b, err = io.ReadAll(r); err == nil {
			return b, nil
		}
	}
	return nil, &domain.OpError{Op: "compress.decompress", Kind: domain.KindExecution, Path: path, Err: err}
}

// NewReader returns a decoder for format reading from r, with a release func.
func NewReader(r io.Reader, format domain.Compression) (io.Reader, func(), error) {
	switch format {
	case domain.CompressionGzip:
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, nil, err
		}
		return zr, func() { _ = zr.Close() }, nil
	case domain.CompressionBzip2:
		br, err := bzip2.NewReader(r, nil)
		if err != nil {
			return nil, nil, err
		}
		return br, func() { _ = br.Close() }, nil
	case domain.CompressionXZ:
		xr, err := xz.NewReader(r)
		if err != nil {
			return nil, nil, err
		}
		return xr, func() {}, nil
	case domain.CompressionZstd:
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, nil, err
		}
		return zr, zr.Close, nil
	default:
		return nil, nil, fmt.Errorf("unsupported compression %q: %w", format, domain.ErrInvalidConfig)
	}
}
