package domain

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// ReleaseDateLayout is the RFC 2822 style date used in Release files, always in UTC.
const ReleaseDateLayout = "Mon, 02 Jan 2006 15:04:05 +0000"

// WriteRelease renders a Release file: static header, date, then one checksum
// block per algorithm listing every index file.
func WriteRelease(w io.Writer, cfg ReleaseConfig, date time.Time, files []FileDigest) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Origin: %s\n", cfg.Origin)
	fmt.Fprintf(&b, "Label: %s\n", cfg.Label)
	fmt.Fprintf(&b, "Suite: %s\n", cfg.Suite)
	fmt.Fprintf(&b, "Version: %s\n", cfg.Version)
	fmt.Fprintf(&b, "Codename: %s\n", cfg.Codename)
	fmt.Fprintf(&b, "Architectures: %s\n", strings.Join(cfg.Architectures, " "))
	fmt.Fprintf(&b, "Components: %s\n", strings.Join(cfg.Components, " "))
	fmt.Fprintf(&b, "Description: %s\n", cfg.Description)
	fmt.Fprintf(&b, "Date: %s\n", date.UTC().Format(ReleaseDateLayout))

	blocks := []struct {
		title string
		sum   func(FileDigest) string
	}{
		{"MD5Sum", func(d FileDigest) string { return d.MD5 }},
		{"SHA1", func(d FileDigest) string { return d.SHA1 }},
		{"SHA256", func(d FileDigest) string { return d.SHA256 }},
		{"SHA512", func(d FileDigest) string { return d.SHA512 }},
	}
	for _, blk := range blocks {
		b.WriteString(blk.title + ":\n")
		for _, f := range files {
			fmt.Fprintf(&b, " %s %d %s\n", blk.sum(f), f.Size, f.Name)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}
