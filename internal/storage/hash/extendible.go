// Package hash implements the dynamic hash index backing the buffer pool's
// page table. Growth happens by local bucket splits, doubling the directory
// only when the splitting bucket's local depth has reached the global depth,
// so the cost of a resize is bounded per insert instead of a full rehash.
package hash

import (
	"sync"
)

// Key is the set of integer key types the index can hash.
type Key interface {
	~int | ~int32 | ~int64 | ~uint32 | ~uint64 | ~uint
}

type bucket[K Key, V any] struct {
	localDepth int
	keys       []K
	values     []V
}

func (b *bucket[K, V]) find(key K) (int, bool) {
	for i, k := range b.keys {
		if k == key {
			return i, true
		}
	}
	return -1, false
}

func (b *bucket[K, V]) remove(i int) {
	last := len(b.keys) - 1
	b.keys[i] = b.keys[last]
	b.values[i] = b.values[last]
	b.keys = b.keys[:last]
	b.values = b.values[:last]
}

// Extendible is an extendible hash table from integer keys to values.
// Point operations are safe for concurrent use.
type Extendible[K Key, V any] struct {
	mu          sync.RWMutex
	globalDepth int
	bucketSize  int
	directory   []*bucket[K, V]
	size        int
}

// NewExtendible creates an empty table whose buckets hold up to bucketSize
// entries before splitting.
func NewExtendible[K Key, V any](bucketSize int) *Extendible[K, V] {
	if bucketSize <= 0 {
		panic("hash: bucket size must be positive")
	}
	b := &bucket[K, V]{localDepth: 0}
	return &Extendible[K, V]{
		globalDepth: 0,
		bucketSize:  bucketSize,
		directory:   []*bucket[K, V]{b},
	}
}

// fingerprint mixes the key bits so that directory indexing does not depend
// on low-bit patterns of sequentially allocated ids (splitmix64 finalizer).
func fingerprint[K Key](key K) uint64 {
	h := uint64(key)
	h ^= h >> 30
	h *= 0xbf58476d1ce4e5b9
	h ^= h >> 27
	h *= 0x94d049bb133111eb
	h ^= h >> 31
	return h
}

func (e *Extendible[K, V]) dirIndex(key K) int {
	return int(fingerprint(key) & ((1 << e.globalDepth) - 1))
}

// Find returns the value stored under key.
func (e *Extendible[K, V]) Find(key K) (V, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	b := e.directory[e.dirIndex(key)]
	if i, ok := b.find(key); ok {
		return b.values[i], true
	}
	var zero V
	return zero, false
}

// Insert stores value under key, replacing any previous value.
func (e *Extendible[K, V]) Insert(key K, value V) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for {
		b := e.directory[e.dirIndex(key)]
		if i, ok := b.find(key); ok {
			b.values[i] = value
			return
		}
		if len(b.keys) < e.bucketSize {
			b.keys = append(b.keys, key)
			b.values = append(b.values, value)
			e.size++
			return
		}
		e.split(b)
	}
}

// Remove deletes key from the table. Returns false if it was absent.
func (e *Extendible[K, V]) Remove(key K) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	b := e.directory[e.dirIndex(key)]
	i, ok := b.find(key)
	if !ok {
		return false
	}
	b.remove(i)
	e.size--
	return true
}

// Size returns the number of stored entries.
func (e *Extendible[K, V]) Size() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.size
}

// GlobalDepth returns the current directory depth.
func (e *Extendible[K, V]) GlobalDepth() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.globalDepth
}

// split divides an overflowing bucket in two on the next fingerprint bit,
// doubling the directory first if the bucket is already at global depth.
func (e *Extendible[K, V]) split(b *bucket[K, V]) {
	if b.localDepth == e.globalDepth {
		doubled := make([]*bucket[K, V], 2*len(e.directory))
		copy(doubled, e.directory)
		copy(doubled[len(e.directory):], e.directory)
		e.directory = doubled
		e.globalDepth++
	}

	bit := uint64(1) << b.localDepth
	zero := &bucket[K, V]{localDepth: b.localDepth + 1}
	one := &bucket[K, V]{localDepth: b.localDepth + 1}
	for i, k := range b.keys {
		target := zero
		if fingerprint(k)&bit != 0 {
			target = one
		}
		target.keys = append(target.keys, k)
		target.values = append(target.values, b.values[i])
	}

	// Repoint every directory slot that referenced the old bucket.
	for i, d := range e.directory {
		if d != b {
			continue
		}
		if uint64(i)&bit != 0 {
			e.directory[i] = one
		} else {
			e.directory[i] = zero
		}
	}
}
