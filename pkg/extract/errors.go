package extract

import (
	"errors"
	"fmt"
)

// ErrUnsupportedFormat is returned for MIME types outside the supported
// set. It is terminal: no retry will make the format readable.
var ErrUnsupportedFormat = errors.New("unsupported document format")

// ExtractionError wraps a parser failure for a supported format (corrupt
// or malformed file). Also terminal.
type ExtractionError struct {
	MimeType string
	Err      error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("failed to extract text from %s document: %v", e.MimeType, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}
