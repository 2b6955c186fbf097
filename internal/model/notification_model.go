package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// NotificationType is seeded per event code (BOOKING_CREATED,
// GROUP_MESSAGE_FLAGGED...). Template placeholders like {date} are filled
// from the event payload.
type NotificationType struct {
	ID          uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	Code        string         `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"`
	DisplayName string         `gorm:"type:varchar(100);not null" json:"display_name"`
	Template    string         `gorm:"type:text;not null" json:"template"`
	TargetType  string         `gorm:"type:varchar(20);not null" json:"target_type"` // SELF, ADMIN, ROLE or BROADCAST
	TargetRole  string         `gorm:"type:varchar(50)" json:"target_role,omitempty"`
	Priority    string         `gorm:"type:varchar(10);not null;default:'MEDIUM'" json:"priority"`
	Channels    datatypes.JSON `gorm:"type:jsonb;default:'[\"web\"]'" json:"channels"`
	IsActive    bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// Notification is one inbox row. Priority is copied from the type at send
// time so the client can highlight HIGH items (risk flags, bookings) without
// a join.
type Notification struct {
	ID       uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID   uuid.UUID  `gorm:"type:uuid;not null;index:idx_inbox_user_created,priority:1;index:idx_inbox_user_unread,priority:1" json:"user_id"`
	ActorID  *uuid.UUID `gorm:"type:uuid" json:"actor_id,omitempty"`
	TypeCode string     `gorm:"type:varchar(50);not null;index" json:"type_code"`
	Priority string     `gorm:"type:varchar(10);not null;default:'MEDIUM'" json:"priority"`

	Title    string         `gorm:"type:varchar(200);not null" json:"title"`
	Message  string         `gorm:"type:text;not null" json:"message"`
	Metadata datatypes.JSON `gorm:"type:jsonb" json:"metadata,omitempty"`

	// booking, journal, group_message...
	EntityType string     `gorm:"type:varchar(50)" json:"entity_type,omitempty"`
	EntityID   *uuid.UUID `gorm:"type:uuid" json:"entity_id,omitempty"`

	IsRead    bool       `gorm:"not null;default:false;index:idx_inbox_user_unread,priority:2" json:"is_read"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
	CreatedAt time.Time  `gorm:"index:idx_inbox_user_created,priority:2,sort:desc" json:"created_at"`

	Type NotificationType `gorm:"foreignKey:TypeCode;references:Code;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

// UserNotificationPreference holds the codes a user muted from their inbox.
type UserNotificationPreference struct {
	UserID       uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"user_id"`
	MutedTypes   datatypes.JSONSlice[string] `gorm:"type:jsonb;not null;default:'[]'" json:"muted_types"`
	EmailEnabled bool                        `gorm:"not null;default:true" json:"email_enabled"`
	PushEnabled  bool                        `gorm:"not null;default:true" json:"push_enabled"`
	UpdatedAt    time.Time                   `json:"updated_at"`
}
