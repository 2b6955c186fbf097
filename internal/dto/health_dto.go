package dto

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// UploadHealthRecordRequest is assembled from the multipart form fields.
type UploadHealthRecordRequest struct {
	Consent     bool
	RecordType  string
	Metadata    string
	FileName    string
	ContentType string
}

type HealthRecordResponse struct {
	Id         uuid.UUID       `json:"id"`
	RecordType string          `json:"record_type"`
	Metadata   json.RawMessage `json:"metadata"`
	FileURL    string          `json:"file_url"`
	UploadedAt time.Time       `json:"uploaded_at"`
}

type AnalyzeRecordRequest struct {
	RecordId uuid.UUID `json:"record_id" validate:"required"`
}

type InsightResponse struct {
	Id             uuid.UUID       `json:"id"`
	HealthRecordId uuid.UUID       `json:"health_record_id"`
	SummaryText    string          `json:"summary_text"`
	ChartData      json.RawMessage `json:"chart_data"`
	Source         string          `json:"source"`
	GeneratedAt    time.Time       `json:"generated_at"`
}

type MarkerTrendPoint struct {
	RecordId    uuid.UUID `json:"record_id"`
	GeneratedAt time.Time `json:"generated_at"`
	Value       float64   `json:"value"`
}

type TrendsResponse struct {
	Markers map[string][]MarkerTrendPoint `json:"markers"`
}

// --- Record chat ---

type RecordChatRequest struct {
	Message  string     `json:"message" validate:"required,max=4000"`
	RecordId *uuid.UUID `json:"record_id"`
}

type RecordChatResponse struct {
	Reply  string `json:"reply"`
	Source string `json:"source"`
}

type ChatHistoryResponse struct {
	Id          uuid.UUID       `json:"id"`
	UserMessage string          `json:"user_message"`
	BotResponse string          `json:"bot_response"`
	Context     json.RawMessage `json:"context"`
	Ts          time.Time       `json:"ts"`
}
