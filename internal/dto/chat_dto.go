package dto

import (
	"time"

	"github.com/google/uuid"

	"studybuddy-be/internal/entity"
)

type SendMessageRequest struct {
	Content string `json:"content" validate:"required"`
}

type SendMessageResponse struct {
	Id       uuid.UUID          `json:"id"`
	Response string             `json:"response"`
	Sources  []entity.SourceRef `json:"sources"`
}

type ChatMessageResponse struct {
	Id        uuid.UUID          `json:"id"`
	Role      string             `json:"role"`
	Content   string             `json:"content"`
	Sources   []entity.SourceRef `json:"sources,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
}
