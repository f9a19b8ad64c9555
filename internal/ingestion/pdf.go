package ingestion

import (
	"fmt"
	"io"

	"github.com/ledongthuc/pdf"
)

// PDFInfo summarizes a PDF before upload.
type PDFInfo struct {
	Pages int
	// TextChars is the length of the extractable plain text; zero for scanned documents.
	TextChars int
}

// InspectPDF reads the page count and extractable text size of a PDF.
// The result is informational; the backend does the real parsing.
func InspectPDF(r io.ReaderAt, size int64) (info PDFInfo, err error) {
	// The pdf reader panics on some malformed object streams.
	defer func() {
		if rec := recover(); rec != nil {
			info, err = PDFInfo{}, fmt.Errorf("failed to read pdf: %v", rec)
		}
	}()

	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return PDFInfo{}, fmt.Errorf("failed to read pdf: %w", err)
	}

	info = PDFInfo{Pages: reader.NumPage()}
	for i := 1; i <= info.Pages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, textErr := page.GetPlainText(nil)
		if textErr != nil {
			continue
		}
		info.TextChars += len(text)
	}
	return info, nil
}
