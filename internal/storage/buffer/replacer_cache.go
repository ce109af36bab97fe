package buffer

import (
	lru "github.com/hashicorp/golang-lru"

	util "framedb/internal/utils"
)

// CacheReplacer implements the replacement contract on top of
// hashicorp/golang-lru. The inner cache is sized to the whole pool, so it
// can never evict on its own: RemoveOldest only runs when the pool asks for
// a victim. Its internal lock is leaf-level and never calls back into the
// pool, so it cannot form a lock cycle with the pool's latch.
type CacheReplacer struct {
	cache *lru.Cache
}

func NewCacheReplacer(poolSize int) *CacheReplacer {
	c, err := lru.New(poolSize)
	if err != nil {
		panic(err) // only fails for poolSize <= 0, checked by NewReplacer
	}
	return &CacheReplacer{cache: c}
}

func (r *CacheReplacer) Insert(frameID util.FrameID) {
	r.cache.ContainsOrAdd(frameID, struct{}{})
}

func (r *CacheReplacer) Victim() (util.FrameID, bool) {
	key, _, ok := r.cache.RemoveOldest()
	if !ok {
		return 0, false
	}
	return key.(util.FrameID), true
}

func (r *CacheReplacer) Erase(frameID util.FrameID) {
	r.cache.Remove(frameID)
}

func (r *CacheReplacer) Size() int {
	return r.cache.Len()
}
