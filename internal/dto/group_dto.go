package dto

import (
	"time"

	"github.com/google/uuid"
)

type PostMessageRequest struct {
	Content string     `json:"content" validate:"max=2000"`
	ReplyTo *uuid.UUID `json:"reply_to"`
}

type MessageQuery struct {
	AfterSeq int64 `query:"after_seq"`
	Limit    int   `query:"limit"`
}

type GroupMessageResponse struct {
	Id        uuid.UUID      `json:"id"`
	Seq       int64          `json:"seq"`
	Room      string         `json:"room"`
	UserId    uuid.UUID      `json:"user_id"`
	Content   string         `json:"content"`
	ReplyTo   *uuid.UUID     `json:"reply_to,omitempty"`
	Flagged   bool           `json:"flagged"`
	Pinned    bool           `json:"pinned"`
	Reactions map[string]int `json:"reactions"`
	CreatedAt time.Time      `json:"created_at"`
}

type ReactionRequest struct {
	Emoji string `json:"emoji" validate:"required,max=16"`
}

type ReactionResponse struct {
	MessageId uuid.UUID      `json:"message_id"`
	Reactions map[string]int `json:"reactions"`
}

type ReportMessageRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}
