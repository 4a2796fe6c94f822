package domain

import (
	"fmt"
	"io"
	"strings"
)

// FileDigest holds the size and checksums of an index or package file.
type FileDigest struct {
	Name   string
	Size   int64
	MD5    string
	SHA1   string
	SHA256 string
	SHA512 string
}

// PackageEntry is one stanza of the generated Packages index.
type PackageEntry struct {
	Control        Paragraph
	Depiction      string
	SileoDepiction string
	Icon           string
	Filename       string
	Digest         FileDigest
}

// WritePackageEntry renders an entry: the control paragraph as shipped in the .deb,
// the optional Havoc presentation fields, then file location, size and checksums,
// terminated by a blank line.
func WritePackageEntry(w io.Writer, e PackageEntry) error {
	var b strings.Builder
	b.WriteString(e.Control.String())

	if e.Depiction != "" {
		fmt.Fprintf(&b, "Depiction: %s\n", e.Depiction)
	}
	if e.SileoDepiction != "" {
		fmt.Fprintf(&b, "SileoDepiction: %s\n", e.SileoDepiction)
	}
	if e.Icon != "" {
		fmt.Fprintf(&b, "Icon: %s\n", e.Icon)
	}

	fmt.Fprintf(&b, "Filename: %s\n", e.Filename)
	fmt.Fprintf(&b, "Size: %d\n", e.Digest.Size)
	fmt.Fprintf(&b, "MD5sum: %s\n", e.Digest.MD5)
	fmt.Fprintf(&b, "SHA1: %s\n", e.Digest.SHA1)
	fmt.Fprintf(&b, "SHA256: %s\n", e.Digest.SHA256)
	fmt.Fprintf(&b, "SHA512: %s\n", e.Digest.SHA512)
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())
	return err
}
