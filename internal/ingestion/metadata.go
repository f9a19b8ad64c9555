package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
	"unicode/utf8"
)

// Metadata describes where a resume's text came from.
type Metadata struct {
	Source   string // file path or URL
	Format   string // txt, md, html, docx
	Chars    int
	Digest   string // hex SHA-256 of the cleaned text
	LoadedAt time.Time
	// Rendered is set when the text came from a headless browser render.
	Rendered bool
}

func describe(source, format, text string) *Metadata {
	sum := sha256.Sum256([]byte(text))
	return &Metadata{
		Source:   source,
		Format:   format,
		Chars:    utf8.RuneCountInString(text),
		Digest:   hex.EncodeToString(sum[:]),
		LoadedAt: time.Now().UTC(),
	}
}

// Fields flattens the metadata for structured log lines. The digest is
// shortened to 12 characters.
func (m *Metadata) Fields() map[string]interface{} {
	digest := m.Digest
	if len(digest) > 12 {
		digest = digest[:12]
	}
	return map[string]interface{}{
		"source":    m.Source,
		"format":    m.Format,
		"chars":     m.Chars,
		"digest":    digest,
		"rendered":  m.Rendered,
		"loaded_at": m.LoadedAt.Format(time.RFC3339),
	}
}
