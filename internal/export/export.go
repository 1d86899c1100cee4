// Package export renders a note as a PDF, Word or plain text file.
package export

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrUnknownFormat is returned for formats other than pdf, docx and txt
var ErrUnknownFormat = errors.New("export: unknown format")

// Format is an export file type
type Format string

const (
	PDF  Format = "pdf"
	DOCX Format = "docx"
	TXT  Format = "txt"
)

// Formats lists the supported formats
func Formats() []Format {
	return []Format{PDF, DOCX, TXT}
}

// ParseFormat accepts a format name with or without a leading dot
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimPrefix(s, ".")))
	switch f {
	case PDF, DOCX, TXT:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Write renders title and content to w
func Write(w io.Writer, format Format, title, content string) error {
	switch format {
	case PDF:
		return writePDF(w, title, content)
	case DOCX:
		return writeDOCX(w, title, content)
	case TXT:
		_, err := io.WriteString(w, title+"\n\n"+content)
		return err
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// Filename builds "<title>.<format>" with path separators and control
// characters removed
func Filename(title string, format Format) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r < 0x20, r == 0x7f:
			return -1
		case strings.ContainsRune(`/\:*?"<>|`, r):
			return '_'
		}
		return r
	}, strings.TrimSpace(title))
	name = strings.Trim(name, ". ")
	if name == "" {
		name = "Untitled"
	}
	return name + "." + string(format)
}
