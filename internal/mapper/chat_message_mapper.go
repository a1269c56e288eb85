package mapper

import (
	"encoding/json"
	"time"

	"studybuddy-be/internal/entity"
	"studybuddy-be/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ChatMessageMapper struct{}

func NewChatMessageMapper() *ChatMessageMapper {
	return &ChatMessageMapper{}
}

func (m *ChatMessageMapper) ToEntity(e *model.ChatMessage) *entity.ChatMessage {
	if e == nil {
		return nil
	}

	var deletedAt *time.Time
	if e.DeletedAt.Valid {
		t := e.DeletedAt.Time
		deletedAt = &t
	}

	var sources []entity.SourceRef
	if len(e.Sources) > 0 {
		// Corrupt source payloads degrade to an empty citation list rather
		// than failing the whole read.
		_ = json.Unmarshal(e.Sources, &sources)
	}

	return &entity.ChatMessage{
		Id:        e.Id,
		SessionId: e.SessionId,
		UserId:    e.UserId,
		Role:      e.Role,
		Content:   e.Content,
		Sources:   sources,
		CreatedAt: e.CreatedAt,
		DeletedAt: deletedAt,
	}
}

func (m *ChatMessageMapper) ToModel(e *entity.ChatMessage) *model.ChatMessage {
	if e == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if e.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *e.DeletedAt, Valid: true}
	}

	sources := e.Sources
	if sources == nil {
		sources = []entity.SourceRef{}
	}
	raw, _ := json.Marshal(sources)

	return &model.ChatMessage{
		Id:        e.Id,
		SessionId: e.SessionId,
		UserId:    e.UserId,
		Role:      e.Role,
		Content:   e.Content,
		Sources:   datatypes.JSON(raw),
		CreatedAt: e.CreatedAt,
		DeletedAt: deletedAt,
	}
}
