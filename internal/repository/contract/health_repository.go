package contract

import (
	"context"

	"mitr-be/internal/entity"
	"mitr-be/internal/repository/specification"

	"github.com/google/uuid"
)

type HealthRecordRepository interface {
	Create(ctx context.Context, r *entity.HealthRecord) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.HealthRecord, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.HealthRecord, error)
	Delete(ctx context.Context, id uuid.UUID) error

	CreateInsight(ctx context.Context, i *entity.ReportInsight) error
	FindInsight(ctx context.Context, specs ...specification.Specification) (*entity.ReportInsight, error)
	FindInsights(ctx context.Context, specs ...specification.Specification) ([]*entity.ReportInsight, error)
}

type ChatHistoryRepository interface {
	Create(ctx context.Context, c *entity.ChatHistory) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatHistory, error)
}

type ChatbotMessageRepository interface {
	Create(ctx context.Context, m *entity.ChatbotMessage) error
	// FindAll orders by seq ascending.
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatbotMessage, error)
	// Recent returns the last n messages in seq order.
	Recent(ctx context.Context, userId uuid.UUID, n int) ([]*entity.ChatbotMessage, error)
	DeleteByUser(ctx context.Context, userId uuid.UUID) error
}

type DeviceRepository interface {
	FindConnections(ctx context.Context, userId uuid.UUID) ([]*entity.DeviceConnection, error)
	SaveConnection(ctx context.Context, c *entity.DeviceConnection) error
	CountConnected(ctx context.Context, userId uuid.UUID) (int64, error)
	AppendMetric(ctx context.Context, m *entity.DeviceMetric) error
	// RecentMetrics returns the last n days in seq order.
	RecentMetrics(ctx context.Context, userId uuid.UUID, n int) ([]*entity.DeviceMetric, error)
}
