package memory

import (
	"testing"
	"time"

	"mitr-be/pkg/llm"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestSessionRepositoryRevoke(t *testing.T) {
	repo := NewSessionRepository()

	repo.Revoke("jti-1", time.Now().Add(time.Hour))
	repo.Revoke("jti-expired", time.Now().Add(-time.Minute))
	repo.Revoke("", time.Now().Add(time.Hour))

	assert.True(t, repo.IsRevoked("jti-1"))
	assert.False(t, repo.IsRevoked("jti-expired"))
	assert.False(t, repo.IsRevoked("jti-other"))
	assert.False(t, repo.IsRevoked(""))
}

func TestConversationRepositoryKeepsLastTurns(t *testing.T) {
	repo := NewConversationRepository(time.Hour, 3)
	user := uuid.New()

	_, found := repo.Get(user)
	assert.False(t, found)

	repo.Append(user, llm.Message{Role: llm.RoleUser, Content: "1"}, llm.Message{Role: llm.RoleAssistant, Content: "2"})
	repo.Append(user, llm.Message{Role: llm.RoleUser, Content: "3"}, llm.Message{Role: llm.RoleAssistant, Content: "4"})

	turns, found := repo.Get(user)
	assert.True(t, found)
	assert.Equal(t, []string{"2", "3", "4"}, contents(turns))

	turns[0].Content = "mutated"
	again, _ := repo.Get(user)
	assert.Equal(t, "2", again[0].Content)

	repo.Clear(user)
	_, found = repo.Get(user)
	assert.False(t, found)
}

func contents(msgs []llm.Message) []string {
	out := make([]string, len(msgs))
	for i, m := range msgs {
		out[i] = m.Content
	}
	return out
}
