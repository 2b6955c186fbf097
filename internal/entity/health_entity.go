package entity

import (
	"time"

	"github.com/google/uuid"
)

type HealthRecord struct {
	Id          uuid.UUID
	UserId      uuid.UUID
	RecordType  string
	Metadata    []byte
	FileURL     string
	StoragePath string
	FileName    string
	ContentType string
	UploadedAt  time.Time
}

type ReportInsight struct {
	Id             uuid.UUID
	HealthRecordId uuid.UUID
	UserId         uuid.UUID
	SummaryText    string
	ChartData      []byte
	Source         string
	GeneratedAt    time.Time
}

type ChatHistory struct {
	Id          uuid.UUID
	UserId      uuid.UUID
	UserMessage string
	BotResponse string
	Context     []byte
	Ts          time.Time
}

const (
	ChatbotRoleUser      = "user"
	ChatbotRoleAssistant = "assistant"
)

type ChatbotMessage struct {
	Id        uuid.UUID
	Seq       int64
	UserId    uuid.UUID
	Role      string
	Content   string
	Lang      string
	CreatedAt time.Time
}

const (
	DeviceConnected    = "connected"
	DeviceDisconnected = "disconnected"
)

type DeviceConnection struct {
	UserId   uuid.UUID
	DeviceId string
	Status   string
	LastSync *time.Time
}

type DeviceMetric struct {
	Id         uuid.UUID
	Seq        int64
	UserId     uuid.UUID
	Steps      int
	Heart      int
	Sleep      float64
	Hydration  float64
	Stress     int
	RecordedAt time.Time
}
