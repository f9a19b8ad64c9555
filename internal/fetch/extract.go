package fetch

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Elements that never hold resume content.
const chrome = "nav, footer, script, style, noscript, iframe, form, .sidebar, .cookie-banner, .ad, .advertisement, .popup"

// Elements that end a line of text.
const blocks = "p, li, dt, dd, h1, h2, h3, h4, h5, h6, div, section, br, tr"

// resumeRoots are tried in order; the first present one is the resume.
var resumeRoots = []string{
	"[itemtype*='schema.org/Person']",
	".resume", "#resume",
	".cv", "#cv",
	"main", "article",
	"#content", ".content",
}

// MainText parses an HTML document and returns the text of its resume
// section, one block per line. Page chrome is dropped; when no resume
// section is recognised the whole body is used.
func MainText(r io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", fmt.Errorf("parse HTML: %w", err)
	}
	doc.Find(chrome).Remove()

	root := doc.Find("body")
	for _, sel := range resumeRoots {
		if found := doc.Find(sel); found.Length() > 0 {
			root = found.First()
			break
		}
	}

	root.Find(blocks).AppendHtml("\n")
	return collapse(root.Text()), nil
}

// collapse squeezes runs of whitespace inside each line and drops blank lines.
func collapse(text string) string {
	var b strings.Builder
	for _, line := range strings.Split(text, "\n") {
		words := strings.Fields(line)
		if len(words) == 0 {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(strings.Join(words, " "))
	}
	return b.String()
}
