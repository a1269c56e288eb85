package unitofwork

import (
	"context"

	"studybuddy-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	StudySessionRepository() contract.StudySessionRepository
	NoteRepository() contract.NoteRepository
	DocumentRepository() contract.DocumentRepository
	DocumentChunkRepository() contract.DocumentChunkRepository
	ChatMessageRepository() contract.ChatMessageRepository
}
