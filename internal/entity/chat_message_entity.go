package entity

import (
	"time"

	"github.com/google/uuid"
)

// SourceRef is one citation attached to an assistant message.
type SourceRef struct {
	ChunkId      uuid.UUID `json:"chunk_id"`
	DocumentName string    `json:"document_name"`
	Similarity   float64   `json:"similarity"`
}

type ChatMessage struct {
	Id        uuid.UUID
	SessionId uuid.UUID
	UserId    uuid.UUID
	Role      string // "user" or "assistant"
	Content   string
	Sources   []SourceRef // empty for user messages and ungrounded answers
	CreatedAt time.Time
	DeletedAt *time.Time
}
