package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type HealthRecord struct {
	Id          uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId      uuid.UUID      `gorm:"type:uuid;not null;index"`
	RecordType  string         `gorm:"type:varchar(50);not null"`
	Metadata    datatypes.JSON `gorm:"type:jsonb"`
	FileURL     string         `gorm:"type:text"`
	StoragePath string         `gorm:"type:text;not null"`
	FileName    string         `gorm:"type:varchar(255)"`
	ContentType string         `gorm:"type:varchar(100)"`
	UploadedAt  time.Time      `gorm:"autoCreateTime;index"`
}

func (HealthRecord) TableName() string {
	return "health_records"
}

type ReportInsight struct {
	Id             uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	HealthRecordId uuid.UUID      `gorm:"type:uuid;not null;index"`
	UserId         uuid.UUID      `gorm:"type:uuid;not null;index"`
	SummaryText    string         `gorm:"type:text;not null"`
	ChartData      datatypes.JSON `gorm:"type:jsonb"`
	Source         string         `gorm:"type:varchar(10);not null;default:'mock'"`
	GeneratedAt    time.Time      `gorm:"autoCreateTime;index"`
}

func (ReportInsight) TableName() string {
	return "report_insights"
}

type ChatHistory struct {
	Id          uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId      uuid.UUID      `gorm:"type:uuid;not null;index"`
	UserMessage string         `gorm:"type:text;not null"`
	BotResponse string         `gorm:"type:text;not null"`
	Context     datatypes.JSON `gorm:"type:jsonb"`
	Ts          time.Time      `gorm:"autoCreateTime;index"`
}

func (ChatHistory) TableName() string {
	return "chat_history"
}

// ChatbotMessage rows are ordered by Seq, never by timestamp.
type ChatbotMessage struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Seq       int64     `gorm:"type:bigserial;autoIncrement;uniqueIndex"`
	UserId    uuid.UUID `gorm:"type:uuid;not null;index"`
	Role      string    `gorm:"type:varchar(10);not null"`
	Content   string    `gorm:"type:text;not null"`
	Lang      string    `gorm:"type:varchar(10)"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (ChatbotMessage) TableName() string {
	return "chatbot_messages"
}

type DeviceConnection struct {
	UserId    uuid.UUID `gorm:"type:uuid;primaryKey"`
	DeviceId  string    `gorm:"type:varchar(50);primaryKey"`
	Status    string    `gorm:"type:varchar(20);not null;default:'disconnected'"`
	LastSync  *time.Time
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (DeviceConnection) TableName() string {
	return "device_connections"
}

type DeviceMetric struct {
	Id         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Seq        int64     `gorm:"type:bigserial;autoIncrement;uniqueIndex"`
	UserId     uuid.UUID `gorm:"type:uuid;not null;index"`
	Steps      int
	Heart      int
	Sleep      float64
	Hydration  float64
	Stress     int
	RecordedAt time.Time `gorm:"autoCreateTime"`
}

func (DeviceMetric) TableName() string {
	return "device_metrics"
}
