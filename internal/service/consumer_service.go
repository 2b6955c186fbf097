package service

import (
	"context"
	"encoding/json"
	"time"

	"mitr-be/internal/pkg/logger"
	"mitr-be/internal/pkg/mailer"
	"mitr-be/internal/pkg/metrics"
	"mitr-be/pkg/counsellor"

	"github.com/ThreeDotsLabs/watermill/message"
)

const (
	bookingEmailJob         = "booking_email"
	bookingEmailMaxAttempts = 3
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService sends booking confirmation emails queued by the booking
// service.
type consumerService struct {
	subscriber   message.Subscriber
	topicName    string
	emailService mailer.IEmailService
	counsellors  *counsellor.Catalog
	logger       logger.ILogger
	retryDelay   time.Duration

	// attempts counts failed sends per message UUID; only the consume
	// goroutine touches it
	attempts map[string]int
}

func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	emailService mailer.IEmailService,
	counsellors *counsellor.Catalog,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber:   subscriber,
		topicName:    topicName,
		emailService: emailService,
		counsellors:  counsellors,
		logger:       log,
		retryDelay:   2 * time.Second,
		attempts:     make(map[string]int),
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(msg)
		}
	}()

	cs.logger.Info("Consumer", "Booking email worker started", map[string]interface{}{"topic": cs.topicName})
	return nil
}

func (cs *consumerService) processMessage(msg *message.Message) {
	var payload mailer.BookingEmail
	if err := json.Unmarshal(msg.Payload, &payload); err != nil || payload.Email == "" {
		cs.logger.Error("Consumer", "Dropping malformed booking email job", map[string]interface{}{"message_id": msg.UUID})
		// Ack so a bad payload is not redelivered forever
		msg.Ack()
		return
	}

	if payload.CounsellorName == "" && payload.CounsellorID != "" {
		if c, ok := cs.counsellors.Find(payload.CounsellorID); ok {
			payload.CounsellorName = c.Name
		}
	}

	if err := cs.emailService.SendBookingConfirmation(payload); err != nil {
		cs.attempts[msg.UUID]++
		metrics.RecordJobRun(bookingEmailJob, false)

		if cs.attempts[msg.UUID] >= bookingEmailMaxAttempts {
			cs.logger.Error("Consumer", "Giving up on booking email", map[string]interface{}{
				"message_id": msg.UUID, "email": payload.Email, "error": err.Error(),
			})
			delete(cs.attempts, msg.UUID)
			msg.Ack()
			return
		}

		cs.logger.Warn("Consumer", "Booking email failed, will retry", map[string]interface{}{
			"message_id": msg.UUID, "attempt": cs.attempts[msg.UUID], "error": err.Error(),
		})
		time.Sleep(cs.retryDelay)
		msg.Nack()
		return
	}

	delete(cs.attempts, msg.UUID)
	metrics.RecordJobRun(bookingEmailJob, true)
	cs.logger.Info("Consumer", "Booking email sent", map[string]interface{}{"message_id": msg.UUID, "date": payload.Date})
	msg.Ack()
}
