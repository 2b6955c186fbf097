package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"mitr-be/internal/dto"
	"mitr-be/internal/entity"
	"mitr-be/internal/pkg/apperror"
	"mitr-be/internal/pkg/logger"
	"mitr-be/internal/pkg/metrics"
	"mitr-be/internal/repository/specification"
	"mitr-be/internal/repository/unitofwork"
	"mitr-be/pkg/insight"
	"mitr-be/pkg/llm"

	"github.com/google/uuid"
)

const recordChatFeature = "record_chat"

// IRecordChatService answers questions about a user's lab reports.
type IRecordChatService interface {
	Chat(ctx context.Context, userId uuid.UUID, req *dto.RecordChatRequest) (*dto.RecordChatResponse, error)
	History(ctx context.Context, userId uuid.UUID, recordId *uuid.UUID) ([]*dto.ChatHistoryResponse, error)
}

type recordChatService struct {
	uowFactory unitofwork.RepositoryFactory
	provider   llm.LLMProvider
	logger     logger.ILogger
}

func NewRecordChatService(uowFactory unitofwork.RepositoryFactory, provider llm.LLMProvider, log logger.ILogger) IRecordChatService {
	return &recordChatService{
		uowFactory: uowFactory,
		provider:   provider,
		logger:     log,
	}
}

type chatContext struct {
	RecordId *uuid.UUID `json:"record_id,omitempty"`
	Source   string     `json:"source"`
}

func (s *recordChatService) Chat(ctx context.Context, userId uuid.UUID, req *dto.RecordChatRequest) (*dto.RecordChatResponse, error) {
	ctx, span := tracer.Start(ctx, "RecordChat.Chat")
	defer span.End()

	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, apperror.BadRequest("message is required")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	var recordType string
	var metadata []byte
	if req.RecordId != nil {
		record, err := uow.HealthRecordRepository().FindOne(ctx,
			specification.ByID{ID: *req.RecordId},
			specification.UserOwnedBy{UserID: userId},
		)
		if err != nil {
			return nil, recordError(span, err)
		}
		if record == nil {
			return nil, apperror.NotFound("health record not found")
		}
		recordType, metadata = record.RecordType, record.Metadata
	}

	reply, source := s.answer(ctx, recordType, metadata, message)

	ctxJSON, err := json.Marshal(chatContext{RecordId: req.RecordId, Source: source})
	if err != nil {
		return nil, recordError(span, err)
	}
	if err := uow.ChatHistoryRepository().Create(ctx, &entity.ChatHistory{
		Id:          uuid.New(),
		UserId:      userId,
		UserMessage: message,
		BotResponse: reply,
		Context:     ctxJSON,
		Ts:          time.Now(),
	}); err != nil {
		return nil, recordError(span, err)
	}

	return &dto.RecordChatResponse{Reply: reply, Source: source}, nil
}

func (s *recordChatService) answer(ctx context.Context, recordType string, metadata []byte, message string) (string, string) {
	if s.provider != nil {
		start := time.Now()
		reply, err := s.provider.Chat(ctx, []llm.Message{
			{Role: llm.RoleSystem, Content: insight.ChatSystemPrompt(recordType, metadata)},
			{Role: llm.RoleUser, Content: message},
		})
		if err == nil && strings.TrimSpace(reply) != "" {
			metrics.RecordLLMCall(recordChatFeature, "ok", time.Since(start))
			return strings.TrimSpace(reply), insight.SourceLLM
		}
		if err != nil {
			s.logger.Warn("RecordChat", "Model chat failed, using mock reply", map[string]interface{}{"error": err.Error()})
		}
	}

	metrics.RecordLLMCall(recordChatFeature, "fallback", 0)
	return insight.MockChatReply(recordType, metadata), insight.SourceMock
}

func (s *recordChatService) History(ctx context.Context, userId uuid.UUID, recordId *uuid.UUID) ([]*dto.ChatHistoryResponse, error) {
	specs := []specification.Specification{specification.UserOwnedBy{UserID: userId}}
	if recordId != nil {
		specs = append(specs, specification.ByContextRecord{RecordID: *recordId})
	}
	specs = append(specs, specification.OrderBy{Field: "ts"})

	uow := s.uowFactory.NewUnitOfWork(ctx)
	rows, err := uow.ChatHistoryRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	out := make([]*dto.ChatHistoryResponse, 0, len(rows))
	for _, c := range rows {
		out = append(out, &dto.ChatHistoryResponse{
			Id:          c.Id,
			UserMessage: c.UserMessage,
			BotResponse: c.BotResponse,
			Context:     rawJSON(c.Context),
			Ts:          c.Ts,
		})
	}
	return out, nil
}
