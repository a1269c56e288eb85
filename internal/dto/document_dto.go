package dto

import (
	"time"

	"github.com/google/uuid"
)

type UploadDocumentResponse struct {
	Id               uuid.UUID `json:"id"`
	OriginalFilename string    `json:"original_filename"`
	ProcessingStatus string    `json:"processing_status"`
}

type DocumentResponse struct {
	Id               uuid.UUID `json:"id"`
	SessionId        uuid.UUID `json:"session_id"`
	OriginalFilename string    `json:"original_filename"`
	MimeType         string    `json:"mime_type"`
	FileSize         int64     `json:"file_size"`
	ProcessingStatus string    `json:"processing_status"`
	ProcessingError  *string   `json:"processing_error,omitempty"`
	ChunkCount       int       `json:"chunk_count"`
	CreatedAt        time.Time `json:"created_at"`
}

// ProcessDocumentMessage is the payload carried on the ingestion queue.
type ProcessDocumentMessage struct {
	DocumentId uuid.UUID `json:"document_id"`
}
