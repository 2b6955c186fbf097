package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"mitr-be/internal/dto"
	"mitr-be/internal/entity"
	"mitr-be/internal/pkg/apperror"
	"mitr-be/internal/pkg/logger"
	"mitr-be/internal/pkg/mailer"
	"mitr-be/internal/pkg/metrics"
	"mitr-be/internal/repository/contract"
	"mitr-be/internal/repository/specification"
	"mitr-be/internal/repository/unitofwork"
	"mitr-be/pkg/counsellor"
	"mitr-be/pkg/events"

	"github.com/google/uuid"
)

const (
	msgPickDateTime = "Pick date and time"
	msgSlotTaken    = "This slot is already booked, please pick another time"
)

type IBookingService interface {
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateBookingRequest) (*dto.BookingResponse, error)
	List(ctx context.Context, userId uuid.UUID) ([]*dto.BookingResponse, error)
	Cancel(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
	SendConfirmation(ctx context.Context, userId uuid.UUID, req *dto.SendBookingEmailRequest) error
}

type bookingService struct {
	uowFactory       unitofwork.RepositoryFactory
	counsellors      *counsellor.Catalog
	publisherService IPublisherService
	emailService     mailer.IEmailService
	eventPublisher   events.Publisher
	logger           logger.ILogger
	now              func() time.Time
}

func NewBookingService(
	uowFactory unitofwork.RepositoryFactory,
	counsellors *counsellor.Catalog,
	publisherService IPublisherService,
	emailService mailer.IEmailService,
	eventPublisher events.Publisher,
	log logger.ILogger,
) IBookingService {
	return &bookingService{
		uowFactory:       uowFactory,
		counsellors:      counsellors,
		publisherService: publisherService,
		emailService:     emailService,
		eventPublisher:   eventPublisher,
		logger:           log,
		now:              time.Now,
	}
}

// validate checks everything that needs no storage: presence, format, the
// calendar and the counsellor's weekly availability.
func (s *bookingService) validate(req *dto.CreateBookingRequest) (date string, hhmm string, c *counsellor.Counsellor, err error) {
	date = strings.TrimSpace(req.Date)
	hhmm = strings.TrimSpace(req.Time)
	if date == "" || hhmm == "" {
		return "", "", nil, apperror.BadRequest(msgPickDateTime)
	}

	now := s.now()
	day, err := counsellor.ParseDate(date, now.Location())
	if err != nil {
		return "", "", nil, apperror.BadRequest("date must be YYYY-MM-DD")
	}
	clock, err := time.Parse(counsellor.TimeLayout, hhmm)
	if err != nil {
		return "", "", nil, apperror.BadRequest("time must be HH:MM")
	}

	startOfToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if day.Before(startOfToday) {
		return "", "", nil, apperror.BadRequest("date is in the past")
	}
	slotAt := day.Add(time.Duration(clock.Hour())*time.Hour + time.Duration(clock.Minute())*time.Minute)
	if slotAt.Before(now) {
		return "", "", nil, apperror.BadRequest("time has already passed")
	}

	if id := strings.TrimSpace(req.CounsellorId); id != "" {
		found, ok := s.counsellors.Find(id)
		if !ok {
			return "", "", nil, apperror.NotFound("counsellor not found")
		}
		if !found.HasSlot(day.Weekday(), hhmm) {
			return "", "", nil, apperror.BadRequest("counsellor is not available at that time")
		}
		c = &found
	}

	return day.Format(counsellor.DateLayout), clock.Format(counsellor.TimeLayout), c, nil
}

func (s *bookingService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateBookingRequest) (*dto.BookingResponse, error) {
	ctx, span := tracer.Start(ctx, "Booking.Create")
	defer span.End()

	// Nothing below may run for an incomplete form.
	date, hhmm, c, err := s.validate(req)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, recordError(span, err)
	}
	if user == nil {
		return nil, apperror.Unauthorized("user not found")
	}

	var counsellorId *string
	if c != nil {
		id := c.ID
		counsellorId = &id

		taken, err := uow.BookingRepository().Count(ctx,
			specification.ByCounsellorSlot{CounsellorID: c.ID, Date: date, Time: hhmm},
			specification.ByStatus{Status: string(entity.BookingStatusScheduled)},
		)
		if err != nil {
			return nil, recordError(span, err)
		}
		if taken > 0 {
			metrics.RecordBooking("conflict")
			return nil, apperror.Conflict(msgSlotTaken)
		}
	}

	now := s.now()
	booking := &entity.Booking{
		Id:           uuid.New(),
		UserId:       userId,
		CounsellorId: counsellorId,
		Date:         date,
		Time:         hhmm,
		Notes:        strings.TrimSpace(req.Notes),
		Status:       entity.BookingStatusScheduled,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// The partial unique index catches the race the count above cannot
	if err := uow.BookingRepository().Create(ctx, booking); err != nil {
		if errors.Is(err, contract.ErrSlotTaken) {
			metrics.RecordBooking("conflict")
			return nil, apperror.Conflict(msgSlotTaken)
		}
		return nil, recordError(span, err)
	}
	metrics.RecordBooking("created")

	s.enqueueConfirmation(ctx, user.Email, booking)
	publishEvent(ctx, s.eventPublisher, s.logger, events.New(events.BookingCreated, map[string]interface{}{
		"user_id":     userId.String(),
		"entity_type": "booking",
		"entity_id":   booking.Id.String(),
		"date":        booking.Date,
		"time":        booking.Time,
	}))

	return s.toResponse(booking), nil
}

// enqueueConfirmation hands the email to the background worker. A failure
// here never fails the booking.
func (s *bookingService) enqueueConfirmation(ctx context.Context, email string, b *entity.Booking) {
	if s.publisherService == nil {
		return
	}

	job := mailer.BookingEmail{
		Email: email,
		Date:  b.Date,
		Time:  b.Time,
		Notes: b.Notes,
	}
	if b.CounsellorId != nil {
		job.CounsellorID = *b.CounsellorId
	}

	payload, err := json.Marshal(job)
	if err != nil {
		s.logger.Error("Booking", "Failed to encode booking email job", map[string]interface{}{"booking_id": b.Id, "error": err.Error()})
		return
	}
	if err := s.publisherService.Publish(ctx, payload); err != nil {
		s.logger.Warn("Booking", "Failed to enqueue booking email", map[string]interface{}{"booking_id": b.Id, "error": err.Error()})
	}
}

func (s *bookingService) List(ctx context.Context, userId uuid.UUID) ([]*dto.BookingResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	rows, err := uow.BookingRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "date"},
		specification.OrderBy{Field: "time"},
	)
	if err != nil {
		return nil, err
	}

	out := make([]*dto.BookingResponse, 0, len(rows))
	for _, b := range rows {
		out = append(out, s.toResponse(b))
	}
	return out, nil
}

func (s *bookingService) Cancel(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	booking, err := uow.BookingRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return err
	}
	if booking == nil {
		return apperror.NotFound("booking not found")
	}
	if booking.Status == entity.BookingStatusCancelled {
		return nil
	}

	if err := uow.BookingRepository().UpdateStatus(ctx, id, entity.BookingStatusCancelled); err != nil {
		return err
	}
	metrics.RecordBooking("cancelled")

	publishEvent(ctx, s.eventPublisher, s.logger, events.New(events.BookingCancelled, map[string]interface{}{
		"user_id":     userId.String(),
		"entity_type": "booking",
		"entity_id":   id.String(),
		"date":        booking.Date,
		"time":        booking.Time,
	}))
	return nil
}

// SendConfirmation re-sends the confirmation for one of the caller's own
// bookings. The recipient is always the account email, never client input.
func (s *bookingService) SendConfirmation(ctx context.Context, userId uuid.UUID, req *dto.SendBookingEmailRequest) error {
	ctx, span := tracer.Start(ctx, "Booking.SendConfirmation")
	defer span.End()

	uow := s.uowFactory.NewUnitOfWork(ctx)
	booking, err := uow.BookingRepository().FindOne(ctx,
		specification.ByID{ID: req.BookingId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return recordError(span, err)
	}
	if booking == nil {
		return apperror.NotFound("booking not found")
	}
	if booking.Status == entity.BookingStatusCancelled {
		return apperror.BadRequest("booking is cancelled")
	}

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return recordError(span, err)
	}
	if user == nil {
		return apperror.NotFound("user not found")
	}

	email := mailer.BookingEmail{
		Email: user.Email,
		Date:  booking.Date,
		Time:  booking.Time,
		Notes: booking.Notes,
	}
	if booking.CounsellorId != nil {
		email.CounsellorID = *booking.CounsellorId
		if c, ok := s.counsellors.Find(*booking.CounsellorId); ok {
			email.CounsellorName = c.Name
		}
	}

	if err := s.emailService.SendBookingConfirmation(email); err != nil {
		recordError(span, err)
		return apperror.BadGateway("failed to send booking email")
	}
	return nil
}

func (s *bookingService) toResponse(b *entity.Booking) *dto.BookingResponse {
	resp := &dto.BookingResponse{
		Id:           b.Id,
		CounsellorId: b.CounsellorId,
		Date:         b.Date,
		Time:         b.Time,
		Notes:        b.Notes,
		Status:       string(b.Status),
		CreatedAt:    b.CreatedAt,
	}
	if b.CounsellorId != nil {
		if c, ok := s.counsellors.Find(*b.CounsellorId); ok {
			resp.CounsellorName = c.Name
		}
	}
	return resp
}
