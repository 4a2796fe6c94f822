// Package debfile reads metadata out of Debian binary packages.
package debfile

import (
	"archive/tar"
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/Lessica/lessica.github.io/internal/domain"
	"github.com/Lessica/lessica.github.io/internal/ports"
	"github.com/blakesmith/ar"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// maxControlBytes caps the size of the control file.
const maxControlBytes = 1 << 20

type Reader struct{}

func NewReader() *Reader {
	return &Reader{}
}

var _ ports.ControlReader = (*Reader)(nil)

// ReadControl returns the control paragraph of the .deb at path, the same
// fields `dpkg-deb -f` prints.
func (r *Reader) ReadControl(p string) (domain.Paragraph, error) {
	f, err := os.Open(p)
	if err != nil {
		return domain.Paragraph{}, &domain.OpError{Op: "debfile.read_control", Kind: domain.KindNotFound, Path: p, Err: err}
	}
	defer f.Close()

	text, err := controlText(f)
	if err != nil {
		return domain.Paragraph{}, &domain.OpError{Op: "debfile.read_control", Kind: domain.KindInvalidConfig, Path: p, Err: err}
	}

	para, err := domain.ParseParagraph(text)
	if err != nil {
		return domain.Paragraph{}, &domain.OpError{Op: "debfile.read_control", Kind: domain.KindInvalidConfig, Path: p, Err: err}
	}
	if para.Package() == "" {
		return domain.Paragraph{}, &domain.OpError{
			Op:   "debfile.read_control",
			Kind: domain.KindInvalidConfig,
			Path: p,
			Err:  fmt.Errorf("control file has no Package field: %w", domain.ErrInvalidConfig),
		}
	}
	return para, nil
}

func controlText(r io.Reader) (string, error) {
	arc := ar.NewReader(r)
	for {
		hdr, err := arc.Next()
		if errors.Is(err, io.EOF) {
			return "", errors.New("not a debian package: control member missing")
		}
		if err != nil {
			return "", fmt.Errorf("read ar archive: %w", err)
		}

		name := strings.TrimSuffix(strings.TrimSpace(hdr.Name), "/")
		if !strings.HasPrefix(name, "control.tar") {
			continue
		}

		tr, closeFn, err := decompress(name, arc)
		if err != nil {
			return "", err
		}
		defer closeFn()
		return findControl(tar.NewReader(tr))
	}
}

func decompress(member string, r io.Reader) (io.Reader, func(), error) {
	switch path.Ext(member) {
	case ".tar":
		return r, func() {}, nil
	case ".gz":
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, nil, fmt.Errorf("open %s: %w", member, err)
		}
		return zr, func() { _ = zr.Close() }, nil
	case ".xz":
		xr, err := xz.NewReader(bufio.NewReader(r))
		if err != nil {
			return nil, nil, fmt.Errorf("open %s: %w", member, err)
		}
		return xr, func() {}, nil
	case ".zst":
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, nil, fmt.Errorf("open %s: %w", member, err)
		}
		return zr, zr.Close, nil
	default:
		return nil, nil, fmt.Errorf("unsupported control member %s", member)
	}
}

func findControl(tr *tar.Reader) (string, error) {
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return "", errors.New("control archive has no control file")
		}
		if err != nil {
			return "", fmt.Errorf("read control archive: %w", err)
		}
		if path.Clean(strings.TrimPrefix(hdr.Name, "./")) != "control" {
			continue
		}
		b, err := io.ReadAll(io.LimitReader(tr, maxControlBytes))
		if err != nil {
			return "", fmt.Errorf("read control file: %w", err)
		}
		return string(b), nil
	}
}
