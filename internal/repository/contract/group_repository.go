package contract

import (
	"context"

	"mitr-be/internal/entity"
	"mitr-be/internal/repository/specification"

	"github.com/google/uuid"
)

type GroupMessageRepository interface {
	Create(ctx context.Context, m *entity.GroupMessage) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.GroupMessage, error)
	// FindAll orders by seq ascending and attaches reactions.
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.GroupMessage, error)
	// FindLatest returns the newest n matches, still in ascending seq order.
	FindLatest(ctx context.Context, n int, specs ...specification.Specification) ([]*entity.GroupMessage, error)
	IncrementReaction(ctx context.Context, messageId uuid.UUID, emoji string) (map[string]int, error)
	Pin(ctx context.Context, messageId uuid.UUID) error
	// CreateReport returns ErrDuplicate when the reporter already reported the message.
	CreateReport(ctx context.Context, r *entity.GroupMessageReport) error
	// FindReports returns reports newest first with their message attached.
	FindReports(ctx context.Context, specs ...specification.Specification) ([]*entity.GroupMessageReport, error)
}
