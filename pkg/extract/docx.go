package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"strings"
)

// documentXML mirrors the parts of word/document.xml we care about.
type documentXML struct {
	Body struct {
		Paragraphs []docxParagraph `xml:"p"`
	} `xml:"body"`
}

type docxParagraph struct {
	Runs []docxRun `xml:"r"`
}

type docxRun struct {
	Texts []string `xml:"t"`
}

// extractDocx reads an Office Open XML word-processing file. A DOCX is a
// ZIP archive with the document body in word/document.xml.
func extractDocx(data []byte) (string, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &ExtractionError{MimeType: MimeTypeDocx, Err: err}
	}

	for _, file := range reader.File {
		if file.Name != "word/document.xml" {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return "", &ExtractionError{MimeType: MimeTypeDocx, Err: err}
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return "", &ExtractionError{MimeType: MimeTypeDocx, Err: err}
		}

		var doc documentXML
		if err := xml.Unmarshal(content, &doc); err != nil {
			return "", &ExtractionError{MimeType: MimeTypeDocx, Err: err}
		}

		var parts []string
		for _, p := range doc.Body.Paragraphs {
			var sb strings.Builder
			for _, r := range p.Runs {
				for _, t := range r.Texts {
					sb.WriteString(t)
				}
			}
			if text := sb.String(); strings.TrimSpace(text) != "" {
				parts = append(parts, text)
			}
		}
		return strings.Join(parts, "\n\n"), nil
	}

	// Valid ZIP but not a word-processing document.
	return "", &ExtractionError{MimeType: MimeTypeDocx, Err: errMissingDocumentXML}
}

var errMissingDocumentXML = &missingPartError{part: "word/document.xml"}

type missingPartError struct {
	part string
}

func (e *missingPartError) Error() string {
	return "archive is missing " + e.part
}
