// Package ingestion turns resume sources (files and URLs) into normalized text.
package ingestion

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/jonathan/careeriq/internal/fetch"
	"github.com/nguyenthenguyen/docx"
)

// ErrUnsupportedFormat is returned for text sources with an unknown extension.
var ErrUnsupportedFormat = errors.New("unsupported resume format")

var (
	spaceRun     = regexp.MustCompile(`\s+`)
	blankLineRun = regexp.MustCompile(`\n\n\n+`)
)

// CleanText normalizes line endings and whitespace while keeping headings,
// bullets and paragraph breaks.
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = cleanLine(line)
	}

	result := removeExcessiveBlankLines(strings.Join(lines, "\n"))
	return strings.TrimSpace(result)
}

// cleanLine trims trailing space and collapses inner runs, keeping indentation.
func cleanLine(line string) string {
	line = strings.TrimRight(line, " \t")
	if strings.TrimSpace(line) == "" {
		return ""
	}

	trimmed := strings.TrimLeft(line, " \t")
	if strings.HasPrefix(trimmed, "#") {
		return trimmed
	}

	indent := strings.Repeat(" ", len(line)-len(trimmed))
	if isBulletLine(trimmed) {
		return indent + trimmed
	}
	return indent + spaceRun.ReplaceAllString(trimmed, " ")
}

func isBulletLine(line string) bool {
	trimmed := strings.TrimLeft(line, " \t")
	return strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* ") ||
		strings.HasPrefix(trimmed, "• ") || strings.HasPrefix(trimmed, "· ")
}

// removeExcessiveBlankLines reduces consecutive blank lines to max 2
func removeExcessiveBlankLines(content string) string {
	return blankLineRun.ReplaceAllString(content, "\n\n")
}

// LoadFile reads a resume from disk and returns its cleaned text.
// Supported extensions: .txt, .md, .html, .htm, .docx.
func LoadFile(path string) (string, *Metadata, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil, fmt.Errorf("file not found: %w", err)
		}
		return "", nil, fmt.Errorf("failed to read file: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	var raw string
	switch ext {
	case ".txt", ".md", "":
		raw = string(content)
	case ".html", ".htm":
		raw, err = fetch.MainText(bytes.NewReader(content))
	case ".docx":
		raw, err = extractDocxText(content)
	default:
		return "", nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return "", nil, fmt.Errorf("failed to extract text from %s: %w", filepath.Base(path), err)
	}

	cleaned := CleanText(raw)
	format := strings.TrimPrefix(ext, ".")
	if format == "" {
		format = "txt"
	}
	meta := describe(path, format, cleaned)
	return cleaned, meta, nil
}

func extractDocxText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer func() { _ = doc.Close() }()

	return wordMLText(doc.Editable().GetContent())
}

// wordMLText collects <w:t> runs, one line per <w:p> paragraph.
func wordMLText(content string) (string, error) {
	dec := xml.NewDecoder(strings.NewReader(content))
	var (
		b      strings.Builder
		inText bool
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to read document xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				b.WriteByte('\t')
			case "br":
				b.WriteByte('\n')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				b.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				b.Write(t)
			}
		}
	}
	return b.String(), nil
}
