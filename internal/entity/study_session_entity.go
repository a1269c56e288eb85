package entity

import (
	"time"

	"github.com/google/uuid"
)

type StudySession struct {
	Id          uuid.UUID
	UserId      uuid.UUID
	Title       string
	Description string
	Subject     string
	IsArchived  bool
	CreatedAt   time.Time
	UpdatedAt   *time.Time
	DeletedAt   *time.Time
}
