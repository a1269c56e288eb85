package service

import (
	"context"
	"errors"
	"time"

	"studybuddy-be/internal/constant"
	"studybuddy-be/internal/dto"
	"studybuddy-be/internal/entity"
	"studybuddy-be/internal/repository/specification"
	"studybuddy-be/internal/repository/unitofwork"
	"studybuddy-be/pkg/llm"
	"studybuddy-be/pkg/rag"

	"github.com/google/uuid"
)

type IChatService interface {
	SendMessage(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID, req *dto.SendMessageRequest) (*dto.SendMessageResponse, error)
	History(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) ([]*dto.ChatMessageResponse, error)
	ClearHistory(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) error
}

type chatService struct {
	uowFactory   unitofwork.RepositoryFactory
	orchestrator *rag.Orchestrator
	maxHistory   int
}

func NewChatService(uowFactory unitofwork.RepositoryFactory, orchestrator *rag.Orchestrator, maxHistory int) IChatService {
	if maxHistory <= 0 {
		maxHistory = 10
	}
	return &chatService{
		uowFactory:   uowFactory,
		orchestrator: orchestrator,
		maxHistory:   maxHistory,
	}
}

// SendMessage runs one full chat turn. The user message and the
// assistant answer are persisted together only after generation
// succeeds, so a failed turn leaves no half-written history.
func (s *chatService) SendMessage(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID, req *dto.SendMessageRequest) (*dto.SendMessageResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.StudySessionRepository().FindOne(ctx,
		specification.ByID{ID: sessionId},
		specification.ByUserID{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, errors.New("study session not found")
	}

	recent, err := uow.ChatMessageRepository().FindRecent(ctx, sessionId, s.maxHistory)
	if err != nil {
		return nil, err
	}

	history := make([]llm.Message, len(recent))
	for i, m := range recent {
		history[i] = llm.Message{Role: m.Role, Content: m.Content}
	}

	result, err := s.orchestrator.Run(ctx, uow.DocumentChunkRepository(), rag.TurnInput{
		SessionId: sessionId,
		UserId:    userId,
		Query:     req.Content,
		History:   history,
	})
	if err != nil {
		return nil, err
	}

	now := time.Now()
	userMessage := &entity.ChatMessage{
		Id:        uuid.New(),
		SessionId: sessionId,
		UserId:    userId,
		Role:      constant.ChatMessageRoleUser,
		Content:   req.Content,
		CreatedAt: now,
	}
	assistantMessage := &entity.ChatMessage{
		Id:        uuid.New(),
		SessionId: sessionId,
		UserId:    userId,
		Role:      constant.ChatMessageRoleAssistant,
		Content:   result.Response,
		Sources:   toEntitySources(result.Sources),
		CreatedAt: now.Add(time.Millisecond),
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	if err := uow.ChatMessageRepository().CreateBulk(ctx, []*entity.ChatMessage{userMessage, assistantMessage}); err != nil {
		uow.Rollback()
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	return &dto.SendMessageResponse{
		Id:       assistantMessage.Id,
		Response: result.Response,
		Sources:  assistantMessage.Sources,
	}, nil
}

func (s *chatService) History(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) ([]*dto.ChatMessageResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.StudySessionRepository().FindOne(ctx,
		specification.ByID{ID: sessionId},
		specification.ByUserID{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, errors.New("study session not found")
	}

	messages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.BySessionID{SessionID: sessionId},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.ChatMessageResponse, len(messages))
	for i, m := range messages {
		res[i] = &dto.ChatMessageResponse{
			Id:        m.Id,
			Role:      m.Role,
			Content:   m.Content,
			Sources:   m.Sources,
			CreatedAt: m.CreatedAt,
		}
	}
	return res, nil
}

func (s *chatService) ClearHistory(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.StudySessionRepository().FindOne(ctx,
		specification.ByID{ID: sessionId},
		specification.ByUserID{UserID: userId},
	)
	if err != nil {
		return err
	}
	if session == nil {
		return errors.New("study session not found")
	}

	return uow.ChatMessageRepository().DeleteBySessionId(ctx, sessionId)
}

func toEntitySources(sources []rag.SourceRef) []entity.SourceRef {
	out := make([]entity.SourceRef, len(sources))
	for i, s := range sources {
		out[i] = entity.SourceRef{
			ChunkId:      s.ChunkId,
			DocumentName: s.DocumentName,
			Similarity:   s.Similarity,
		}
	}
	return out
}
