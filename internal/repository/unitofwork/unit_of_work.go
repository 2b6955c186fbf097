package unitofwork

import (
	"context"

	"mitr-be/internal/repository"
	"mitr-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	AssessmentRepository() contract.AssessmentRepository
	BookingRepository() contract.BookingRepository
	JournalRepository() contract.JournalRepository
	GroupMessageRepository() contract.GroupMessageRepository
	HealthRecordRepository() contract.HealthRecordRepository
	ChatHistoryRepository() contract.ChatHistoryRepository
	ChatbotMessageRepository() contract.ChatbotMessageRepository
	DeviceRepository() contract.DeviceRepository
	ReviewRepository() contract.ReviewRepository
	NotificationRepository() repository.NotificationRepository
}
