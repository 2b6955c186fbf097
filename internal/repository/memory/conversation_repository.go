package memory

import (
	"sync"
	"time"

	"mitr-be/pkg/llm"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

const defaultMaxTurns = 10

// ConversationRepository keeps the recent chatbot turns per user so prompts
// carry context without re-reading the table. Idle conversations expire.
type ConversationRepository struct {
	cache    *cache.Cache
	maxTurns int
	mu       sync.Mutex
}

func NewConversationRepository(idle time.Duration, maxTurns int) *ConversationRepository {
	if maxTurns <= 0 {
		maxTurns = defaultMaxTurns
	}
	return &ConversationRepository{
		cache:    cache.New(idle, idle/2+time.Minute),
		maxTurns: maxTurns,
	}
}

// Get returns a copy of the cached turns and whether any were cached.
func (r *ConversationRepository) Get(userID uuid.UUID) ([]llm.Message, bool) {
	x, found := r.cache.Get(userID.String())
	if !found {
		return nil, false
	}
	turns := x.([]llm.Message)
	out := make([]llm.Message, len(turns))
	copy(out, turns)
	return out, true
}

func (r *ConversationRepository) Set(userID uuid.UUID, turns []llm.Message) {
	if len(turns) > r.maxTurns {
		turns = turns[len(turns)-r.maxTurns:]
	}
	stored := make([]llm.Message, len(turns))
	copy(stored, turns)
	r.cache.SetDefault(userID.String(), stored)
}

func (r *ConversationRepository) Append(userID uuid.UUID, turns ...llm.Message) {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, _ := r.Get(userID)
	r.Set(userID, append(current, turns...))
}

func (r *ConversationRepository) Clear(userID uuid.UUID) {
	r.cache.Delete(userID.String())
}
