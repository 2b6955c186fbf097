package implementation

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"mitr-be/internal/entity"
	"mitr-be/internal/model"
	"mitr-be/internal/repository"
	"mitr-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const notificationInsertBatch = 200

type NotificationRepositoryImpl struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) repository.NotificationRepository {
	return &NotificationRepositoryImpl{db: db}
}

func (r *NotificationRepositoryImpl) inbox(ctx context.Context, userID uuid.UUID) *gorm.DB {
	return r.db.WithContext(ctx).Model(&model.Notification{}).Where("user_id = ?", userID)
}

func (r *NotificationRepositoryImpl) CreateBatch(ctx context.Context, notifications []model.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(notifications, notificationInsertBatch).Error
}

func (r *NotificationRepositoryImpl) ListForUser(ctx context.Context, userID uuid.UUID, page specification.Pagination) ([]model.Notification, int64, error) {
	var total int64
	if err := r.inbox(ctx, userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []model.Notification{}, 0, nil
	}

	var rows []model.Notification
	err := applySpecifications(r.inbox(ctx, userID),
		specification.OrderBy{Field: "created_at", Desc: true},
		page,
	).Find(&rows).Error
	return rows, total, err
}

func (r *NotificationRepositoryImpl) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.inbox(ctx, userID).Where("is_read = ?", false).Count(&count).Error
	return count, err
}

func (r *NotificationRepositoryImpl) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	result := r.inbox(ctx, userID).
		Where("id = ?", notificationID).
		Updates(map[string]interface{}{"is_read": true, "read_at": time.Now()})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotificationNotFound
	}
	return nil
}

func (r *NotificationRepositoryImpl) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	result := r.inbox(ctx, userID).
		Where("is_read = ?", false).
		Updates(map[string]interface{}{"is_read": true, "read_at": time.Now()})
	return result.RowsAffected, result.Error
}

func (r *NotificationRepositoryImpl) FindActiveType(ctx context.Context, code string) (*model.NotificationType, error) {
	var t model.NotificationType
	err := r.db.WithContext(ctx).Where("code = ? AND is_active = ?", code, true).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *NotificationRepositoryImpl) UserIDsByRole(ctx context.Context, role string) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Where("role = ? AND status = ?", role, string(entity.UserStatusActive)).
		Pluck("id", &ids).Error
	return ids, err
}

func (r *NotificationRepositoryImpl) WithoutMuted(ctx context.Context, code string, userIDs []uuid.UUID) ([]uuid.UUID, error) {
	if len(userIDs) == 0 {
		return userIDs, nil
	}
	needle, _ := json.Marshal([]string{code})

	var muted []uuid.UUID
	err := r.db.WithContext(ctx).Model(&model.UserNotificationPreference{}).
		Where("user_id IN ? AND muted_types @> ?::jsonb", userIDs, string(needle)).
		Pluck("user_id", &muted).Error
	if err != nil {
		return nil, err
	}
	if len(muted) == 0 {
		return userIDs, nil
	}

	skip := make(map[uuid.UUID]struct{}, len(muted))
	for _, id := range muted {
		skip[id] = struct{}{}
	}
	out := make([]uuid.UUID, 0, len(userIDs))
	for _, id := range userIDs {
		if _, ok := skip[id]; !ok {
			out = append(out, id)
		}
	}
	return out, nil
}
