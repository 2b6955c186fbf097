package contract

import (
	"context"
	"errors"

	"mitr-be/internal/entity"
	"mitr-be/internal/repository/specification"

	"github.com/google/uuid"
)

var (
	// ErrSlotTaken is returned when a scheduled booking already holds the slot.
	ErrSlotTaken = errors.New("slot already booked")
	// ErrDuplicate is returned on a unique violation the caller treats as idempotent.
	ErrDuplicate = errors.New("duplicate record")
)

type AssessmentRepository interface {
	Create(ctx context.Context, a *entity.Assessment) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Assessment, error)
}

type BookingRepository interface {
	Create(ctx context.Context, b *entity.Booking) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Booking, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Booking, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.BookingStatus) error
	// BookedTimes lists scheduled "HH:MM" times for a counsellor on a date.
	BookedTimes(ctx context.Context, counsellorId, date string) ([]string, error)
}

type JournalRepository interface {
	Create(ctx context.Context, j *entity.Journal) error
	Update(ctx context.Context, j *entity.Journal) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Journal, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Journal, error)
	DistinctBooks(ctx context.Context, userId uuid.UUID) ([]string, error)
}

type ReviewRepository interface {
	Create(ctx context.Context, r *entity.Review) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Review, error)
}
