package entity

import (
	"time"

	"github.com/google/uuid"
)

// DocumentChunk is one embedded slice of a document's extracted text.
// SessionId is denormalized from the parent document so similarity search
// can scope by session without a join.
type DocumentChunk struct {
	Id         uuid.UUID
	DocumentId uuid.UUID
	SessionId  uuid.UUID
	ChunkIndex int
	Content    string
	Embedding  []float32 // nil until computed
	Metadata   map[string]interface{}
	CreatedAt  time.Time
	DeletedAt  *time.Time
}
