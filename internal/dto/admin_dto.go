package dto

import (
	"time"

	"github.com/google/uuid"
)

type AdminUserQuery struct {
	Page  int    `query:"page"`
	Limit int    `query:"limit"`
	Query string `query:"q"`
}

type AdminUserResponse struct {
	Id            uuid.UUID `json:"id"`
	Email         string    `json:"email"`
	FullName      string    `json:"full_name"`
	Role          string    `json:"role"`
	Status        string    `json:"status"`
	EmailVerified bool      `json:"email_verified"`
	CreatedAt     time.Time `json:"created_at"`
}

type UpdateUserStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active blocked"`
}

type GroupReportResponse struct {
	Id         uuid.UUID `json:"id"`
	MessageId  uuid.UUID `json:"message_id"`
	ReporterId uuid.UUID `json:"reporter_id"`
	Reason     string    `json:"reason"`
	CreatedAt  time.Time `json:"created_at"`

	// Empty when the message no longer exists.
	Room    string `json:"room,omitempty"`
	Content string `json:"content,omitempty"`
	Flagged bool   `json:"flagged"`
}
