package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"mitr-be/internal/entity"
	"mitr-be/internal/model"
	"mitr-be/internal/pkg/apperror"
	"mitr-be/internal/pkg/logger"
	"mitr-be/internal/repository"
	"mitr-be/internal/repository/specification"
	"mitr-be/pkg/events"
	pktNats "mitr-be/pkg/nats"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	TargetSelf      = "SELF"
	TargetAdmin     = "ADMIN"
	TargetRole      = "ROLE"
	TargetBroadcast = "BROADCAST"

	notificationDurable = "notif-service-worker"
)

// NotificationDelivery defines how to push real-time updates.
// Implemented by the WebSocket Hub.
type NotificationDelivery interface {
	Send(userID uuid.UUID, notification model.Notification)
	Broadcast(notification model.Notification)
}

// EventSubscriber is satisfied by *nats.Subscriber.
type EventSubscriber interface {
	Subscribe(subject string, durableName string, handler pktNats.EventHandler) error
}

type NotificationService struct {
	repo       repository.NotificationRepository
	subscriber EventSubscriber
	delivery   NotificationDelivery
	logger     logger.ILogger
}

func NewNotificationService(repo repository.NotificationRepository, sub EventSubscriber, delivery NotificationDelivery, log logger.ILogger) *NotificationService {
	return &NotificationService{
		repo:       repo,
		subscriber: sub,
		delivery:   delivery,
		logger:     log,
	}
}

// Start begins listening to the event bus. Without a broker the inbox still
// works, it just never fills.
func (s *NotificationService) Start() {
	if s.subscriber == nil {
		s.logger.Warn("NotificationService", "No event subscriber configured, notifications disabled", nil)
		return
	}
	subject := pktNats.SubjectPrefix + ">"
	if err := s.subscriber.Subscribe(subject, notificationDurable, s.handleEvent); err != nil {
		s.logger.Error("NotificationService", "Failed to start notification subscriber", map[string]interface{}{"error": err.Error()})
		return
	}
	s.logger.Info("NotificationService", "Notification service started", map[string]interface{}{"subject": subject})
}

func (s *NotificationService) handleEvent(ctx context.Context, event events.Event) error {
	typeCode := strings.TrimPrefix(event.EventType(), pktNats.SubjectPrefix)

	config, err := s.repo.FindActiveType(ctx, typeCode)
	if err != nil {
		return err
	}
	if config == nil {
		s.logger.Warn("NotificationService", fmt.Sprintf("No active notification type for code '%s'", typeCode), nil)
		return nil
	}

	// Broadcast is push only; storing one row per user does not scale.
	if config.TargetType == TargetBroadcast {
		if s.delivery != nil {
			s.delivery.Broadcast(s.buildNotification(uuid.Nil, config, event))
		}
		return nil
	}

	recipients, err := s.resolveRecipients(ctx, config, event)
	if err != nil {
		s.logger.Error("NotificationService", fmt.Sprintf("Error resolving recipients for %s", typeCode), map[string]interface{}{"error": err.Error()})
		return err
	}
	recipients, err = s.repo.WithoutMuted(ctx, config.Code, recipients)
	if err != nil {
		return err
	}
	if len(recipients) == 0 {
		return nil
	}

	batch := make([]model.Notification, 0, len(recipients))
	for _, userID := range recipients {
		batch = append(batch, s.buildNotification(userID, config, event))
	}
	// A failed insert is returned so the broker redelivers the whole event.
	if err := s.repo.CreateBatch(ctx, batch); err != nil {
		s.logger.Error("NotificationService", "Error saving notifications", map[string]interface{}{"type": typeCode, "recipients": len(batch), "error": err.Error()})
		return err
	}

	if s.delivery != nil {
		for _, n := range batch {
			s.delivery.Send(n.UserID, n)
		}
	}
	return nil
}

func (s *NotificationService) resolveRecipients(ctx context.Context, config *model.NotificationType, event events.Event) ([]uuid.UUID, error) {
	var userIDs []uuid.UUID

	switch config.TargetType {
	case TargetSelf:
		uidStr, _ := event.Payload()["user_id"].(string)
		uid, err := uuid.Parse(uidStr)
		if err != nil {
			s.logger.Warn("NotificationService", "TargetType SELF but no user_id in payload", map[string]interface{}{"type": config.Code})
			return nil, nil
		}
		userIDs = append(userIDs, uid)

	case TargetAdmin, TargetRole:
		role := config.TargetRole
		if config.TargetType == TargetAdmin {
			role = string(entity.UserRoleAdmin)
		}
		ids, err := s.repo.UserIDsByRole(ctx, role)
		if err != nil {
			return nil, err
		}
		userIDs = append(userIDs, ids...)
	}

	return userIDs, nil
}

// buildNotification renders {key} placeholders in the template from the
// event payload.
func (s *NotificationService) buildNotification(userID uuid.UUID, config *model.NotificationType, event events.Event) model.Notification {
	msg := config.Template
	payload := event.Payload()
	for k, v := range payload {
		msg = strings.ReplaceAll(msg, "{"+k+"}", fmt.Sprintf("%v", v))
	}

	var actorID *uuid.UUID
	if actorStr, ok := payload["actor_id"].(string); ok {
		if aid, err := uuid.Parse(actorStr); err == nil {
			actorID = &aid
		}
	}

	entityType, _ := payload["entity_type"].(string)
	var entityID *uuid.UUID
	if eidStr, ok := payload["entity_id"].(string); ok {
		if eid, err := uuid.Parse(eidStr); err == nil {
			entityID = &eid
		}
	}

	metaMap := make(map[string]interface{}, len(payload)+1)
	for k, v := range payload {
		metaMap[k] = v
	}
	if entityType != "" && entityID != nil {
		metaMap["action_url"] = fmt.Sprintf("/%ss/%s", strings.ReplaceAll(entityType, "_", "-"), entityID)
	}
	metaJSON, _ := json.Marshal(metaMap)

	return model.Notification{
		ID:         uuid.New(),
		UserID:     userID,
		ActorID:    actorID,
		TypeCode:   config.Code,
		Priority:   priorityOf(config),
		Title:      config.DisplayName,
		Message:    msg,
		Metadata:   datatypes.JSON(metaJSON),
		EntityType: entityType,
		EntityID:   entityID,
		CreatedAt:  time.Now(),
	}
}

func priorityOf(t *model.NotificationType) string {
	if t.Priority == "" {
		return "MEDIUM"
	}
	return t.Priority
}

func (s *NotificationService) GetNotifications(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Notification, int64, error) {
	return s.repo.ListForUser(ctx, userID, specification.Pagination{Limit: limit, Offset: offset})
}

func (s *NotificationService) GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.CountUnread(ctx, userID)
}

func (s *NotificationService) MarkAsRead(ctx context.Context, userID, id uuid.UUID) error {
	err := s.repo.MarkRead(ctx, userID, id)
	if errors.Is(err, repository.ErrNotificationNotFound) {
		return apperror.NotFound("notification not found")
	}
	return err
}

func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	n, err := s.repo.MarkAllRead(ctx, userID)
	if err != nil {
		return err
	}
	s.logger.Debug("NotificationService", "Inbox marked read", map[string]interface{}{"user_id": userID, "count": n})
	return nil
}
