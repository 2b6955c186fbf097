package model

import (
	"time"

	"github.com/google/uuid"
)

// GroupMessage.Seq breaks created_at ties so room history has a total order.
type GroupMessage struct {
	Id        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Seq       int64      `gorm:"type:bigserial;autoIncrement;uniqueIndex"`
	Room      string     `gorm:"type:varchar(50);not null;index:idx_group_messages_room_created,priority:1"`
	UserId    uuid.UUID  `gorm:"type:uuid;not null;index"`
	Content   string     `gorm:"type:text;not null"`
	ReplyTo   *uuid.UUID `gorm:"type:uuid"`
	Flagged   bool       `gorm:"default:false"`
	Pinned    bool       `gorm:"default:false"`
	CreatedAt time.Time  `gorm:"autoCreateTime;index:idx_group_messages_room_created,priority:2"`
}

func (GroupMessage) TableName() string {
	return "group_messages"
}

type GroupMessageReaction struct {
	MessageId uuid.UUID `gorm:"type:uuid;primaryKey"`
	Emoji     string    `gorm:"type:varchar(16);primaryKey"`
	Count     int       `gorm:"not null;default:0"`
}

func (GroupMessageReaction) TableName() string {
	return "group_message_reactions"
}

type GroupMessageReport struct {
	Id         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	MessageId  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_group_reports_once,priority:1"`
	ReporterId uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_group_reports_once,priority:2"`
	Reason     string    `gorm:"type:text"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

func (GroupMessageReport) TableName() string {
	return "group_message_reports"
}
