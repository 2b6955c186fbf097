package repository

import (
	"context"
	"errors"

	"mitr-be/internal/model"
	"mitr-be/internal/repository/specification"

	"github.com/google/uuid"
)

var ErrNotificationNotFound = errors.New("notification not found")

// NotificationRepository stores the per-user inbox. Fan-out writes go
// through CreateBatch so one event costs one insert regardless of how many
// recipients it has.
type NotificationRepository interface {
	CreateBatch(ctx context.Context, notifications []model.Notification) error
	ListForUser(ctx context.Context, userID uuid.UUID, page specification.Pagination) ([]model.Notification, int64, error)
	CountUnread(ctx context.Context, userID uuid.UUID) (int64, error)
	// MarkRead only touches the owner's row; ErrNotificationNotFound otherwise.
	MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)

	FindActiveType(ctx context.Context, code string) (*model.NotificationType, error)
	UserIDsByRole(ctx context.Context, role string) ([]uuid.UUID, error)
	// WithoutMuted drops the users who muted code.
	WithoutMuted(ctx context.Context, code string, userIDs []uuid.UUID) ([]uuid.UUID, error)
}
