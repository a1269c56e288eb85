package entity

import (
	"time"

	"github.com/google/uuid"
)

type Document struct {
	Id               uuid.UUID
	SessionId        uuid.UUID
	UserId           uuid.UUID
	Filename         string // unique stored name on disk
	OriginalFilename string
	FilePath         string
	FileSize         int64
	MimeType         string
	ProcessingStatus string
	ProcessingError  *string
	ChunkCount       int
	CreatedAt        time.Time
	UpdatedAt        *time.Time
	DeletedAt        *time.Time
}
