package extract

import (
	"archive/zip"
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractUnsupportedFormat(t *testing.T) {
	_, err := Extract([]byte("dummy"), "image/png")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestExtractPlainTextPassthrough(t *testing.T) {
	tests := []struct {
		name     string
		mimeType string
	}{
		{name: "plain text", mimeType: MimeTypePlain},
		{name: "markdown", mimeType: MimeTypeMarkdown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, err := Extract([]byte("# Notes\n\nsome content"), tt.mimeType)
			require.NoError(t, err)
			assert.Equal(t, "# Notes\n\nsome content", text)
		})
	}
}

func TestExtractCorruptPDF(t *testing.T) {
	_, err := Extract([]byte("definitely not a pdf"), MimeTypePDF)
	require.Error(t, err)

	var extractionErr *ExtractionError
	require.True(t, errors.As(err, &extractionErr))
	assert.Equal(t, MimeTypePDF, extractionErr.MimeType)
}

func TestExtractDocx(t *testing.T) {
	docXML := `<?xml version="1.0"?>
<document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <body>
    <p><r><t>First paragraph.</t></r></p>
    <p><r><t>Second </t></r><r><t>paragraph.</t></r></p>
    <p><r><t>   </t></r></p>
  </body>
</document>`

	data := buildZip(t, map[string]string{
		"word/document.xml": docXML,
	})

	text, err := Extract(data, MimeTypeDocx)
	require.NoError(t, err)
	assert.Equal(t, "First paragraph.\n\nSecond paragraph.", text)
}

func TestExtractDocxMissingDocumentPart(t *testing.T) {
	data := buildZip(t, map[string]string{
		"word/other.xml": "<x/>",
	})

	_, err := Extract(data, MimeTypeDocx)
	require.Error(t, err)

	var extractionErr *ExtractionError
	require.True(t, errors.As(err, &extractionErr))
	assert.Contains(t, extractionErr.Error(), "word/document.xml")
}

func TestExtractDocxNotAZip(t *testing.T) {
	_, err := Extract([]byte("not an archive"), MimeTypeDocx)
	require.Error(t, err)

	var extractionErr *ExtractionError
	assert.True(t, errors.As(err, &extractionErr))
}

func TestIsSupported(t *testing.T) {
	assert.True(t, IsSupported(MimeTypePDF))
	assert.True(t, IsSupported(MimeTypeDocx))
	assert.False(t, IsSupported("application/zip"))
}

func buildZip(t *testing.T, files map[string]string) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range files {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}
