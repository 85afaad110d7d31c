// Package extract turns a job-description file into query text.
package extract

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/hyperjump/sentaku/pkg/utils"
)

// DefaultMaxBytes bounds the size of a file accepted by Extract.
const DefaultMaxBytes = 10 << 20

// ErrUnsupported is returned for binary formats that cannot be read as text.
var ErrUnsupported = errors.New("unsupported document format")

// Extractor extracts plain text from job-description files.
type Extractor struct {
	maxBytes int64
}

// NewExtractor returns an Extractor that rejects files larger than maxBytes (0 uses DefaultMaxBytes).
func NewExtractor(maxBytes int64) *Extractor {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Extractor{maxBytes: maxBytes}
}

// Extract reads the file at path and returns its text with whitespace collapsed.
func (e *Extractor) Extract(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("stat file: %w", err)
	}
	if info.Size() > e.maxBytes {
		return "", fmt.Errorf("%s is %d bytes, limit is %d", path, info.Size(), e.maxBytes)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}
	return e.ExtractBytes(content, strings.ToLower(filepath.Ext(path)))
}

// ExtractBytes detects the format from content and extracts its text.
// ext (with leading dot) is a hint used when detection only finds a generic container.
func (e *Extractor) ExtractBytes(content []byte, ext string) (string, error) {
	var (
		text string
		err  error
	)
	switch kind := Detect(content, ext); kind {
	case KindPDF:
		text, err = extractPDF(content)
	case KindDOCX:
		text, err = extractDOCX(content)
	case KindText:
		text, err = extractPlain(content)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupported, kind)
	}
	if err != nil {
		return "", err
	}
	return utils.CollapseSpaces(text), nil
}

// Kind is a detected document format.
type Kind string

const (
	KindPDF  Kind = "pdf"
	KindDOCX Kind = "docx"
	KindText Kind = "text"
)

// Detect classifies content by its magic bytes.
func Detect(content []byte, ext string) Kind {
	mt := mimetype.Detect(content)
	switch {
	case mt.Is("application/pdf"):
		return KindPDF
	case mt.Is("application/vnd.openxmlformats-officedocument.wordprocessingml.document"):
		return KindDOCX
	case mt.Is("application/zip") && ext == ".docx":
		return KindDOCX
	}
	for m := mt; m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return KindText
		}
	}
	switch ext {
	case ".txt", ".md", ".rst":
		return KindText
	}
	return Kind(mt.String())
}
