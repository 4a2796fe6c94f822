package domain

import (
	"fmt"
	"strings"
)

// Field is a single Debian control field. Multi-line values keep their
// continuation lines (each starting with a space) after the first newline.
type Field struct {
	Name  string
	Value string
}

// Paragraph is an ordered Debian control paragraph (one package stanza).
type Paragraph struct {
	Fields []Field
}

// Get returns the first line of a field value. Field names are case-insensitive.
func (p Paragraph) Get(name string) (string, bool) {
	for _, f := range p.Fields {
		if strings.EqualFold(f.Name, name) {
			first, _, _ := strings.Cut(f.Value, "\n")
			return strings.TrimSpace(first), true
		}
	}
	return "", false
}

// Package is a shortcut for the Package field.
func (p Paragraph) Package() string {
	v, _ := p.Get("Package")
	return v
}

// Version is a shortcut for the Version field.
func (p Paragraph) Version() string {
	v, _ := p.Get("Version")
	return v
}

// String renders the paragraph as "Name: value" lines, each terminated by a newline.
func (p Paragraph) String() string {
	var b strings.Builder
	for _, f := range p.Fields {
		b.WriteString(f.Name)
		b.WriteString(":")
		if f.Value != "" && !strings.HasPrefix(f.Value, "\n") {
			b.WriteString(" ")
		}
		b.WriteString(f.Value)
		b.WriteString("\n")
	}
	return b.String()
}

// ParseParagraph parses a single control paragraph.
func ParseParagraph(text string) (Paragraph, error) {
	var p Paragraph
	for i, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if line[0] == ' ' || line[0] == '\t' {
			if len(p.Fields) == 0 {
				return Paragraph{}, fmt.Errorf("line %d: continuation before any field: %w", i+1, ErrInvalidConfig)
			}
			last := &p.Fields[len(p.Fields)-1]
			last.Value += "\n" + line
			continue
		}

		name, value, ok := strings.Cut(line, ":")
		if !ok || strings.TrimSpace(name) == "" {
			return Paragraph{}, fmt.Errorf("line %d: malformed field %q: %w", i+1, line, ErrInvalidConfig)
		}
		p.Fields = append(p.Fields, Field{
			Name:  strings.TrimSpace(name),
			Value: strings.TrimSpace(value),
		})
	}
	return p, nil
}

// SplitParagraphs splits a Packages style document on blank lines.
func SplitParagraphs(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	var (
		out []string
		cur []string
	)
	flush := func() {
		if len(cur) > 0 {
			out = append(out, strings.Join(cur, "\n"))
			cur = nil
		}
	}
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		cur = append(cur, line)
	}
	flush()
	return out
}

// ParseParagraphs parses every paragraph of a Packages style document.
// Malformed paragraphs are skipped and counted.
func ParseParagraphs(text string) ([]Paragraph, int) {
	chunks := SplitParagraphs(text)
	out := make([]Paragraph, 0, len(chunks))
	skipped := 0
	for _, chunk := range chunks {
		p, err := ParseParagraph(chunk)
		if err != nil || len(p.Fields) == 0 {
			skipped++
			continue
		}
		out = append(out, p)
	}
	return out, skipped
}
