package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"mitr-be/internal/dto"
	"mitr-be/internal/entity"
	"mitr-be/internal/pkg/apperror"
	"mitr-be/internal/pkg/logger"
	"mitr-be/internal/pkg/metrics"
	"mitr-be/internal/repository/contract"
	"mitr-be/internal/repository/specification"
	"mitr-be/internal/repository/unitofwork"
	"mitr-be/pkg/catalog"
	"mitr-be/pkg/events"
	"mitr-be/pkg/moderation"

	"github.com/google/uuid"
)

const (
	RoomEventInsert   = "INSERT"
	RoomEventReaction = "REACTION"
	RoomEventPin      = "PIN"

	defaultMessageLimit = 200
	maxMessageLimit     = 500
)

// RoomBroadcaster pushes room changes to live subscribers. Implemented by
// the websocket hub.
type RoomBroadcaster interface {
	PublishRoom(room, eventType string, data interface{})
	// PublishRoomAlert reaches only subscribers who have not muted groups.
	PublishRoomAlert(room string, data interface{})
}

type IGroupService interface {
	Rooms() []catalog.Room
	Templates() []string
	Channels(category string) []catalog.Channel

	Messages(ctx context.Context, room string, q dto.MessageQuery) ([]*dto.GroupMessageResponse, error)
	// Post returns nil, nil when the trimmed content is empty.
	Post(ctx context.Context, userId uuid.UUID, room string, req *dto.PostMessageRequest) (*dto.GroupMessageResponse, error)
	React(ctx context.Context, messageId uuid.UUID, emoji string) (*dto.ReactionResponse, error)
	Pin(ctx context.Context, messageId uuid.UUID) error
	Report(ctx context.Context, userId uuid.UUID, messageId uuid.UUID, reason string) error
	Search(ctx context.Context, room string, query string) ([]*dto.GroupMessageResponse, error)
}

type groupService struct {
	uowFactory     unitofwork.RepositoryFactory
	catalog        *catalog.Catalog
	broadcaster    RoomBroadcaster
	eventPublisher events.Publisher
	logger         logger.ILogger

	// roomLocks serialise insert+broadcast per room so subscribers see
	// messages in seq order
	roomLocks sync.Map
}

func NewGroupService(
	uowFactory unitofwork.RepositoryFactory,
	cat *catalog.Catalog,
	broadcaster RoomBroadcaster,
	eventPublisher events.Publisher,
	log logger.ILogger,
) IGroupService {
	return &groupService{
		uowFactory:     uowFactory,
		catalog:        cat,
		broadcaster:    broadcaster,
		eventPublisher: eventPublisher,
		logger:         log,
	}
}

func (s *groupService) Rooms() []catalog.Room {
	return s.catalog.Rooms
}

func (s *groupService) Templates() []string {
	return s.catalog.SupportTemplates
}

func (s *groupService) Channels(category string) []catalog.Channel {
	out := s.catalog.ChannelsIn(strings.ToLower(strings.TrimSpace(category)))
	if out == nil {
		return []catalog.Channel{}
	}
	return out
}

func (s *groupService) requireRoom(room string) error {
	if _, ok := s.catalog.Room(room); !ok {
		return apperror.NotFound("room not found")
	}
	return nil
}

func (s *groupService) lockRoom(room string) func() {
	v, _ := s.roomLocks.LoadOrStore(room, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func (s *groupService) Messages(ctx context.Context, room string, q dto.MessageQuery) ([]*dto.GroupMessageResponse, error) {
	if err := s.requireRoom(room); err != nil {
		return nil, err
	}

	limit := q.Limit
	if limit <= 0 {
		limit = defaultMessageLimit
	}
	if limit > maxMessageLimit {
		limit = maxMessageLimit
	}

	// Without a cursor a joining client gets the most recent page; with one
	// it catches up forward from the last seq it saw.
	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.GroupMessageRepository()
	var (
		rows []*entity.GroupMessage
		err  error
	)
	if q.AfterSeq > 0 {
		rows, err = repo.FindAll(ctx,
			specification.ByRoom{Room: room},
			specification.AfterSeq{Seq: q.AfterSeq},
			specification.Limit{N: limit},
		)
	} else {
		rows, err = repo.FindLatest(ctx, limit, specification.ByRoom{Room: room})
	}
	if err != nil {
		return nil, err
	}
	return toGroupMessageResponses(rows), nil
}

func (s *groupService) Post(ctx context.Context, userId uuid.UUID, room string, req *dto.PostMessageRequest) (*dto.GroupMessageResponse, error) {
	ctx, span := tracer.Start(ctx, "Group.Post")
	defer span.End()

	if err := s.requireRoom(room); err != nil {
		return nil, err
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.GroupMessageRepository()

	if req.ReplyTo != nil {
		parent, err := repo.FindOne(ctx, specification.ByID{ID: *req.ReplyTo}, specification.ByRoom{Room: room})
		if err != nil {
			return nil, recordError(span, err)
		}
		if parent == nil {
			return nil, apperror.BadRequest("reply_to must reference a message in this room")
		}
	}

	matches := moderation.Matches(content)
	msg := &entity.GroupMessage{
		Id:      uuid.New(),
		Room:    room,
		UserId:  userId,
		Content: content,
		ReplyTo: req.ReplyTo,
		Flagged: len(matches) > 0,
	}

	// created_at is stamped under the room lock so it never runs backwards
	// against seq.
	unlock := s.lockRoom(room)
	msg.CreatedAt = time.Now()
	if err := repo.Create(ctx, msg); err != nil {
		unlock()
		return nil, recordError(span, err)
	}
	resp := toGroupMessageResponse(msg)
	if s.broadcaster != nil {
		s.broadcaster.PublishRoom(room, RoomEventInsert, resp)
	}
	unlock()

	if msg.Flagged {
		metrics.RecordFlaggedMessage(room)
		if s.broadcaster != nil {
			s.broadcaster.PublishRoomAlert(room, map[string]interface{}{
				"message_id": msg.Id,
				"seq":        msg.Seq,
				"keywords":   matches,
				"helplines":  s.catalog.Helplines,
			})
		}
		publishEvent(ctx, s.eventPublisher, s.logger, events.New(events.GroupMessageFlagged, map[string]interface{}{
			"user_id":     userId.String(),
			"actor_id":    userId.String(),
			"room":        room,
			"entity_type": "group_message",
			"entity_id":   msg.Id.String(),
		}))
	}

	return resp, nil
}

func (s *groupService) findMessage(ctx context.Context, uow unitofwork.UnitOfWork, id uuid.UUID) (*entity.GroupMessage, error) {
	msg, err := uow.GroupMessageRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if msg == nil {
		return nil, apperror.NotFound("message not found")
	}
	return msg, nil
}

func (s *groupService) React(ctx context.Context, messageId uuid.UUID, emoji string) (*dto.ReactionResponse, error) {
	emoji = strings.TrimSpace(emoji)
	if emoji == "" {
		return nil, apperror.BadRequest("emoji is required")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	msg, err := s.findMessage(ctx, uow, messageId)
	if err != nil {
		return nil, err
	}

	counts, err := uow.GroupMessageRepository().IncrementReaction(ctx, messageId, emoji)
	if err != nil {
		return nil, err
	}

	resp := &dto.ReactionResponse{MessageId: messageId, Reactions: counts}
	if s.broadcaster != nil {
		s.broadcaster.PublishRoom(msg.Room, RoomEventReaction, resp)
	}
	return resp, nil
}

func (s *groupService) Pin(ctx context.Context, messageId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	msg, err := s.findMessage(ctx, uow, messageId)
	if err != nil {
		return err
	}
	if msg.Pinned {
		return nil
	}

	if err := uow.GroupMessageRepository().Pin(ctx, messageId); err != nil {
		return err
	}
	msg.Pinned = true

	if s.broadcaster != nil {
		s.broadcaster.PublishRoom(msg.Room, RoomEventPin, toGroupMessageResponse(msg))
	}
	return nil
}

func (s *groupService) Report(ctx context.Context, userId uuid.UUID, messageId uuid.UUID, reason string) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return apperror.BadRequest("reason is required")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if _, err := s.findMessage(ctx, uow, messageId); err != nil {
		return err
	}

	err := uow.GroupMessageRepository().CreateReport(ctx, &entity.GroupMessageReport{
		Id:         uuid.New(),
		MessageId:  messageId,
		ReporterId: userId,
		Reason:     reason,
		CreatedAt:  time.Now(),
	})
	if errors.Is(err, contract.ErrDuplicate) {
		return apperror.Conflict("you already reported this message")
	}
	return err
}

func (s *groupService) Search(ctx context.Context, room string, query string) ([]*dto.GroupMessageResponse, error) {
	if err := s.requireRoom(room); err != nil {
		return nil, err
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperror.BadRequest("q is required")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	rows, err := uow.GroupMessageRepository().FindAll(ctx,
		specification.ByRoom{Room: room},
		specification.ContentSearch{Query: query},
		specification.Limit{N: maxMessageLimit},
	)
	if err != nil {
		return nil, err
	}
	return toGroupMessageResponses(rows), nil
}

func toGroupMessageResponse(m *entity.GroupMessage) *dto.GroupMessageResponse {
	reactions := m.Reactions
	if reactions == nil {
		reactions = map[string]int{}
	}
	return &dto.GroupMessageResponse{
		Id:        m.Id,
		Seq:       m.Seq,
		Room:      m.Room,
		UserId:    m.UserId,
		Content:   m.Content,
		ReplyTo:   m.ReplyTo,
		Flagged:   m.Flagged,
		Pinned:    m.Pinned,
		Reactions: reactions,
		CreatedAt: m.CreatedAt,
	}
}

func toGroupMessageResponses(rows []*entity.GroupMessage) []*dto.GroupMessageResponse {
	out := make([]*dto.GroupMessageResponse, 0, len(rows))
	for _, m := range rows {
		out = append(out, toGroupMessageResponse(m))
	}
	return out
}
