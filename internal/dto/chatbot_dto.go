package dto

import (
	"time"

	"mitr-be/pkg/catalog"
	"mitr-be/pkg/devices"

	"github.com/google/uuid"
)

type SendChatbotMessageRequest struct {
	Content string `json:"content" validate:"max=4000"`
	Lang    string `json:"lang"`
}

type ChatbotMessageResponse struct {
	Id        uuid.UUID `json:"id"`
	Seq       int64     `json:"seq"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Lang      string    `json:"lang"`
	CreatedAt time.Time `json:"created_at"`
}

type ChatbotReplyResponse struct {
	UserMessage ChatbotMessageResponse `json:"user_message"`
	Reply       ChatbotMessageResponse `json:"reply"`
}

// --- Devices ---

type DeviceResponse struct {
	catalog.Device
	Status   string     `json:"status"`
	LastSync *time.Time `json:"last_sync,omitempty"`
}

type DeviceAnalyticsResponse struct {
	Series   []devices.Day    `json:"series"`
	Averages devices.Averages `json:"averages"`
}
