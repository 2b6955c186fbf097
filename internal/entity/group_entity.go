package entity

import (
	"time"

	"github.com/google/uuid"
)

type GroupMessage struct {
	Id        uuid.UUID
	Seq       int64
	Room      string
	UserId    uuid.UUID
	Content   string
	ReplyTo   *uuid.UUID
	Flagged   bool
	Pinned    bool
	Reactions map[string]int
	CreatedAt time.Time
}

type GroupMessageReport struct {
	Id         uuid.UUID
	MessageId  uuid.UUID
	ReporterId uuid.UUID
	Reason     string
	CreatedAt  time.Time

	// Message is nil until loaded and when the message was deleted.
	Message *GroupMessage
}
