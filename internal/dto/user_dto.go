package dto

import (
	"time"

	"github.com/google/uuid"
)

type UserProfileResponse struct {
	Id        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type UpdateProfileRequest struct {
	FullName string `json:"full_name" validate:"required,min=2"`
}

type PreferenceResponse struct {
	Theme            string    `json:"theme"`
	GroupsMuted      bool      `json:"groups_muted"`
	JournalReminders bool      `json:"journal_reminders"`
	ReminderHour     int       `json:"reminder_hour"`
	Bookmarks        []string  `json:"bookmarks"`
	UpdatedAt        time.Time `json:"updated_at,omitempty"`
}

// UpdatePreferenceRequest leaves nil fields untouched.
type UpdatePreferenceRequest struct {
	Theme            *string `json:"theme" validate:"omitempty,oneof=light dark system"`
	GroupsMuted      *bool   `json:"groups_muted"`
	JournalReminders *bool   `json:"journal_reminders"`
	ReminderHour     *int    `json:"reminder_hour" validate:"omitempty,min=0,max=23"`
}
