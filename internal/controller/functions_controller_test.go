package controller

import (
	"context"
	"net/http"
	"testing"

	"mitr-be/internal/dto"
	"mitr-be/internal/pkg/apperror"
	"mitr-be/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBookingService struct {
	service.IBookingService

	owner   uuid.UUID
	booking uuid.UUID
	caller  uuid.UUID
	sent    int
}

func (f *fakeBookingService) SendConfirmation(ctx context.Context, userId uuid.UUID, req *dto.SendBookingEmailRequest) error {
	f.caller = userId
	if userId != f.owner || req.BookingId != f.booking {
		return apperror.NotFound("booking not found")
	}
	f.sent++
	return nil
}

func TestSendBookingEmailUsesCaller(t *testing.T) {
	userID := uuid.New()
	bookings := &fakeBookingService{owner: userID, booking: uuid.New()}
	app := newTestApp(NewFunctionsController(bookings, nil, nil, fakeAuth(userID)))

	resp, env := do(t, app, http.MethodPost, "/api/send-booking-email", map[string]interface{}{
		"booking_id": bookings.booking,
		"email":      "someone-else@example.com",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, env.Success)
	assert.Equal(t, userID, bookings.caller)
	assert.Equal(t, 1, bookings.sent)
}

func TestSendBookingEmailRejectsForeignBooking(t *testing.T) {
	bookings := &fakeBookingService{owner: uuid.New(), booking: uuid.New()}
	app := newTestApp(NewFunctionsController(bookings, nil, nil, fakeAuth(uuid.New())))

	resp, _ := do(t, app, http.MethodPost, "/api/send-booking-email", map[string]interface{}{"booking_id": bookings.booking})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = do(t, app, http.MethodPost, "/api/send-booking-email", map[string]interface{}{"email": "a@b.c"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Zero(t, bookings.sent)
}

func TestSendBookingEmailRequiresLogin(t *testing.T) {
	bookings := &fakeBookingService{}
	app := newTestApp(NewFunctionsController(bookings, nil, nil, fakeAuth(uuid.Nil)))

	resp, _ := do(t, app, http.MethodPost, "/api/send-booking-email", map[string]interface{}{"booking_id": uuid.New()})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Zero(t, bookings.sent)
}
