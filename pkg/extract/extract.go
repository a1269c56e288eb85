// Package extract converts raw document bytes into plain text based on
// MIME type. Multi-part content (PDF pages, DOCX paragraphs) is joined
// with blank lines; parts yielding no text are skipped.
package extract

import "fmt"

const (
	MimeTypePDF      = "application/pdf"
	MimeTypePlain    = "text/plain"
	MimeTypeMarkdown = "text/markdown"
	MimeTypeDocx     = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// SupportedMimeTypes lists every format Extract can handle.
var SupportedMimeTypes = []string{
	MimeTypePDF,
	MimeTypePlain,
	MimeTypeMarkdown,
	MimeTypeDocx,
}

// IsSupported reports whether the MIME type has an extraction path.
func IsSupported(mimeType string) bool {
	for _, m := range SupportedMimeTypes {
		if m == mimeType {
			return true
		}
	}
	return false
}

// Extract returns the plain text of a document. It fails with
// ErrUnsupportedFormat for unknown MIME types and *ExtractionError when
// the underlying parse fails.
func Extract(data []byte, mimeType string) (string, error) {
	switch mimeType {
	case MimeTypePDF:
		return extractPDF(data)
	case MimeTypePlain, MimeTypeMarkdown:
		return string(data), nil
	case MimeTypeDocx:
		return extractDocx(data)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, mimeType)
	}
}
