package memory

import (
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// CorpusCache remembers, per session, whether any embedded chunks exist.
// It saves the router a round trip on every turn; entries are short-lived
// and invalidated whenever ingestion changes a session's corpus.
type CorpusCache struct {
	cache *cache.Cache
}

func NewCorpusCache() *CorpusCache {
	// Short default expiration: a stale "false" would suppress retrieval
	// for the whole TTL, so keep it tight.
	c := cache.New(30*time.Second, 5*time.Minute)
	return &CorpusCache{
		cache: c,
	}
}

func (r *CorpusCache) Set(sessionId uuid.UUID, hasCorpus bool) {
	r.cache.Set(sessionId.String(), hasCorpus, cache.DefaultExpiration)
}

func (r *CorpusCache) Get(sessionId uuid.UUID) (bool, bool) {
	if x, found := r.cache.Get(sessionId.String()); found {
		return x.(bool), true
	}
	return false, false
}

func (r *CorpusCache) Invalidate(sessionId uuid.UUID) {
	r.cache.Delete(sessionId.String())
}
