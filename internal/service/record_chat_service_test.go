package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"mitr-be/internal/dto"
	"mitr-be/internal/entity"
	"mitr-be/internal/pkg/apperror"
	"mitr-be/pkg/insight"
	"mitr-be/pkg/llm"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedRecord(db *fakeDB, userId uuid.UUID, metadata string) *entity.HealthRecord {
	rec := &entity.HealthRecord{
		Id:         uuid.New(),
		UserId:     userId,
		RecordType: "lab_report",
		Metadata:   []byte(metadata),
		UploadedAt: time.Now(),
	}
	db.records = append(db.records, rec)
	return rec
}

func TestRecordChatValidation(t *testing.T) {
	factory := newFakeFactory()
	svc := NewRecordChatService(factory, nil, nopLogger())
	userId := uuid.New()

	_, err := svc.Chat(context.Background(), userId, &dto.RecordChatRequest{Message: " "})
	assert.Equal(t, http.StatusBadRequest, apperror.CodeOf(err))

	someoneElses := seedRecord(factory.db, uuid.New(), `{}`)
	_, err = svc.Chat(context.Background(), userId, &dto.RecordChatRequest{Message: "what is LDL?", RecordId: &someoneElses.Id})
	assert.Equal(t, http.StatusNotFound, apperror.CodeOf(err))
	assert.Empty(t, factory.db.history)
}

func TestRecordChatFallsBackToMockReply(t *testing.T) {
	factory := newFakeFactory()
	userId := uuid.New()
	rec := seedRecord(factory.db, userId, `{"test_name":"Lipid Panel","LDL":150}`)

	svc := NewRecordChatService(factory, &fakeLLM{err: errors.New("quota")}, nopLogger())

	resp, err := svc.Chat(context.Background(), userId, &dto.RecordChatRequest{Message: "is my LDL ok?", RecordId: &rec.Id})
	require.NoError(t, err)
	assert.Equal(t, insight.SourceMock, resp.Source)
	assert.Contains(t, resp.Reply, "Lipid Panel")
	assert.Contains(t, resp.Reply, "LDL is 150 mg/dL")
}

func TestRecordChatUsesModelWithRecordContext(t *testing.T) {
	factory := newFakeFactory()
	userId := uuid.New()
	rec := seedRecord(factory.db, userId, `{"test_name":"Lipid Panel","LDL":150}`)
	other := seedRecord(factory.db, userId, `{}`)

	provider := &fakeLLM{reply: "Your LDL is above range."}
	svc := NewRecordChatService(factory, provider, nopLogger())

	resp, err := svc.Chat(context.Background(), userId, &dto.RecordChatRequest{Message: "is my LDL ok?", RecordId: &rec.Id})
	require.NoError(t, err)
	assert.Equal(t, insight.SourceLLM, resp.Source)
	assert.Equal(t, "Your LDL is above range.", resp.Reply)

	require.Len(t, provider.lastChat, 2)
	assert.Equal(t, llm.RoleSystem, provider.lastChat[0].Role)
	assert.Contains(t, provider.lastChat[0].Content, "Lipid Panel")

	_, err = svc.Chat(context.Background(), userId, &dto.RecordChatRequest{Message: "and this one?", RecordId: &other.Id})
	require.NoError(t, err)
	_, err = svc.Chat(context.Background(), userId, &dto.RecordChatRequest{Message: "general question"})
	require.NoError(t, err)

	all, err := svc.History(context.Background(), userId, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	scoped, err := svc.History(context.Background(), userId, &rec.Id)
	require.NoError(t, err)
	require.Len(t, scoped, 1)
	assert.Equal(t, "is my LDL ok?", scoped[0].UserMessage)
	assert.JSONEq(t, `{"record_id":"`+rec.Id.String()+`","source":"llm"}`, string(scoped[0].Context))
}
