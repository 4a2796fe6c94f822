// Package digest computes the checksums listed in Packages and Release.
package digest

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"

	"github.com/Lessica/lessica.github.io/internal/domain"
	"github.com/Lessica/lessica.github.io/internal/ports"
)

type Digester struct{}

func NewDigester() *Digester {
	return &Digester{}
}

var _ ports.Digester = (*Digester)(nil)

// Digest hashes the file in one pass. Name is the base name of path.
func (d *Digester) Digest(path string) (domain.FileDigest, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.FileDigest{}, &domain.OpError{Op: "digest.file", Kind: domain.KindNotFound, Path: path, Err: err}
	}
	defer f.Close()

	dg, err := Reader(f)
	if err != nil {
		return domain.FileDigest{}, &domain.OpError{Op: "digest.file", Kind: domain.KindExecution, Path: path, Err: err}
	}
	dg.Name = filepath.Base(path)
	return dg, nil
}

// Reader hashes everything read from r.
func Reader(r io.Reader) (domain.FileDigest, error) {
	h5 := md5.New()
	h1 := sha1.New()
	h256 := sha256.New()
	h512 := sha512.New()

	n, err := io.Copy(io.MultiWriter(h5, h1, h256, h512), r)
	if err != nil {
		return domain.FileDigest{}, err
	}
	return domain.FileDigest{
		Size:   n,
		MD5:    hex.EncodeToString(h5.Sum(nil)),
		SHA1:   hex.EncodeToString(h1.Sum(nil)),
		SHA256: hex.EncodeToString(h256.Sum(nil)),
		SHA512: hex.EncodeToString(h512.Sum(nil)),
	}, nil
}
