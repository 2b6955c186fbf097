package memory

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// SessionRepository remembers logged-out access tokens by jti until they
// would have expired anyway.
type SessionRepository struct {
	cache *cache.Cache
}

func NewSessionRepository() *SessionRepository {
	return &SessionRepository{
		cache: cache.New(24*time.Hour, 10*time.Minute),
	}
}

func (r *SessionRepository) Revoke(jti string, expiresAt time.Time) {
	if jti == "" {
		return
	}
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return
	}
	r.cache.Set(jti, struct{}{}, ttl)
}

func (r *SessionRepository) IsRevoked(jti string) bool {
	_, found := r.cache.Get(jti)
	return found
}
