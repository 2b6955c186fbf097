package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"mitr-be/internal/dto"
	"mitr-be/internal/entity"
	"mitr-be/internal/pkg/apperror"
	"mitr-be/internal/pkg/logger"
	"mitr-be/internal/pkg/metrics"
	"mitr-be/internal/repository/contract"
	"mitr-be/internal/repository/specification"
	"mitr-be/internal/repository/unitofwork"
	"mitr-be/pkg/llm"

	"github.com/google/uuid"
)

const (
	DefaultChatLang   = "en-US"
	EmptyChatReply    = "Sorry, I couldn't generate a response."
	chatbotFeature    = "chatbot"
	chatbotSystemText = "You are a multilingual, empathetic mental health support assistant. Language: %s. Be concise and supportive."

	// chatbotContextTurns is how many stored messages rebuild the context
	// when the cached conversation is gone.
	chatbotContextTurns = 10
)

// SupportedChatLangs are the BCP-47 tags the assistant may answer in.
var SupportedChatLangs = []string{
	"en-US", "hi-IN", "bn-IN", "ta-IN", "te-IN", "mr-IN",
	"gu-IN", "kn-IN", "ml-IN", "pa-IN", "ur-PK",
}

// ConversationStore keeps the recent turns sent to the model as context.
type ConversationStore interface {
	Get(userID uuid.UUID) ([]llm.Message, bool)
	Append(userID uuid.UUID, turns ...llm.Message)
	Clear(userID uuid.UUID)
}

type Limiter interface {
	Allow(key string) bool
}

type IChatbotService interface {
	Send(ctx context.Context, userId uuid.UUID, req *dto.SendChatbotMessageRequest) (*dto.ChatbotReplyResponse, error)
	History(ctx context.Context, userId uuid.UUID) ([]*dto.ChatbotMessageResponse, error)
	Clear(ctx context.Context, userId uuid.UUID) error
}

type chatbotService struct {
	uowFactory    unitofwork.RepositoryFactory
	llmProvider   llm.LLMProvider
	conversations ConversationStore
	limiter       Limiter
	logger        logger.ILogger
}

func NewChatbotService(
	uowFactory unitofwork.RepositoryFactory,
	llmProvider llm.LLMProvider,
	conversations ConversationStore,
	limiter Limiter,
	log logger.ILogger,
) IChatbotService {
	return &chatbotService{
		uowFactory:    uowFactory,
		llmProvider:   llmProvider,
		conversations: conversations,
		limiter:       limiter,
		logger:        log,
	}
}

// ResolveChatLang maps "auto" and empty to the default and rejects tags
// outside SupportedChatLangs.
func ResolveChatLang(lang string) (string, bool) {
	lang = strings.TrimSpace(lang)
	if lang == "" || strings.EqualFold(lang, "auto") {
		return DefaultChatLang, true
	}
	for _, l := range SupportedChatLangs {
		if strings.EqualFold(l, lang) {
			return l, true
		}
	}
	return "", false
}

func (s *chatbotService) Send(ctx context.Context, userId uuid.UUID, req *dto.SendChatbotMessageRequest) (*dto.ChatbotReplyResponse, error) {
	ctx, span := tracer.Start(ctx, "Chatbot.Send")
	defer span.End()

	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, apperror.BadRequest("message cannot be empty")
	}
	lang, ok := ResolveChatLang(req.Lang)
	if !ok {
		return nil, apperror.BadRequest(fmt.Sprintf("unsupported language %q", req.Lang))
	}
	if s.limiter != nil && !s.limiter.Allow(userId.String()) {
		return nil, apperror.TooManyRequests("Too many requests, slow down a little")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.ChatbotMessageRepository()

	// Read before the new message is stored so it is not sent twice.
	prior := s.priorTurns(ctx, repo, userId)

	userMsg := &entity.ChatbotMessage{
		Id:        uuid.New(),
		UserId:    userId,
		Role:      entity.ChatbotRoleUser,
		Content:   content,
		Lang:      lang,
		CreatedAt: time.Now(),
	}
	if err := repo.Create(ctx, userMsg); err != nil {
		return nil, recordError(span, err)
	}

	if s.llmProvider == nil {
		return nil, apperror.Unavailable("assistant is not configured")
	}

	history := []llm.Message{{Role: llm.RoleSystem, Content: fmt.Sprintf(chatbotSystemText, lang)}}
	history = append(history, prior...)
	history = append(history, llm.Message{Role: llm.RoleUser, Content: content})

	start := time.Now()
	reply, err := s.llmProvider.Chat(ctx, history)
	if err != nil {
		metrics.RecordLLMCall(chatbotFeature, "error", time.Since(start))
		s.logger.Error("Chatbot", "Model call failed", map[string]interface{}{"user_id": userId, "error": err.Error()})
		recordError(span, err)
		return nil, apperror.BadGateway("the assistant is unavailable right now, please try again")
	}
	metrics.RecordLLMCall(chatbotFeature, "ok", time.Since(start))

	reply = strings.TrimSpace(reply)
	if reply == "" {
		reply = EmptyChatReply
	}

	botMsg := &entity.ChatbotMessage{
		Id:        uuid.New(),
		UserId:    userId,
		Role:      entity.ChatbotRoleAssistant,
		Content:   reply,
		Lang:      lang,
		CreatedAt: time.Now(),
	}
	if err := repo.Create(ctx, botMsg); err != nil {
		return nil, recordError(span, err)
	}

	if s.conversations != nil {
		s.conversations.Append(userId,
			llm.Message{Role: llm.RoleUser, Content: content},
			llm.Message{Role: llm.RoleAssistant, Content: reply},
		)
	}

	return &dto.ChatbotReplyResponse{
		UserMessage: toChatbotMessageResponse(userMsg),
		Reply:       toChatbotMessageResponse(botMsg),
	}, nil
}

// priorTurns serves the cached conversation, falling back to the last
// stored messages after the cache expired or the process restarted.
func (s *chatbotService) priorTurns(ctx context.Context, repo contract.ChatbotMessageRepository, userId uuid.UUID) []llm.Message {
	if s.conversations != nil {
		if turns, ok := s.conversations.Get(userId); ok {
			return turns
		}
	}

	rows, err := repo.Recent(ctx, userId, chatbotContextTurns)
	if err != nil {
		s.logger.Warn("Chatbot", "Could not load recent messages, answering without context", map[string]interface{}{"user_id": userId, "error": err.Error()})
		return nil
	}
	turns := make([]llm.Message, 0, len(rows))
	for _, m := range rows {
		role := llm.RoleUser
		if m.Role == entity.ChatbotRoleAssistant {
			role = llm.RoleAssistant
		}
		turns = append(turns, llm.Message{Role: role, Content: m.Content})
	}
	if s.conversations != nil && len(turns) > 0 {
		s.conversations.Append(userId, turns...)
	}
	return turns
}

func (s *chatbotService) History(ctx context.Context, userId uuid.UUID) ([]*dto.ChatbotMessageResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	rows, err := uow.ChatbotMessageRepository().FindAll(ctx, specification.UserOwnedBy{UserID: userId})
	if err != nil {
		return nil, err
	}

	out := make([]*dto.ChatbotMessageResponse, 0, len(rows))
	for _, m := range rows {
		resp := toChatbotMessageResponse(m)
		out = append(out, &resp)
	}
	return out, nil
}

func (s *chatbotService) Clear(ctx context.Context, userId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.ChatbotMessageRepository().DeleteByUser(ctx, userId); err != nil {
		return err
	}
	if s.conversations != nil {
		s.conversations.Clear(userId)
	}
	return nil
}

func toChatbotMessageResponse(m *entity.ChatbotMessage) dto.ChatbotMessageResponse {
	return dto.ChatbotMessageResponse{
		Id:        m.Id,
		Seq:       m.Seq,
		Role:      m.Role,
		Content:   m.Content,
		Lang:      m.Lang,
		CreatedAt: m.CreatedAt,
	}
}
