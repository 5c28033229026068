// Package cache provides a bounded in-process TTL cache. Unlike the
// library caches used elsewhere (patrickmn/go-cache), Bounded enforces a
// hard entry cap with oldest-first eviction, which is what the status and
// model-list endpoints need: a small, predictable memory footprint rather
// than an unbounded map that grows with key cardinality.
package cache

import (
	"container/list"
	"sync"
	"time"
)

// DefaultCapacity is the entry cap used when the caller passes zero.
const DefaultCapacity = 256

type entry struct {
	key      string
	value    any
	expireAt time.Time
}

// Bounded is a capacity-limited TTL cache. When full, inserting a new key
// evicts the oldest-inserted entry (updating an existing key keeps its
// insertion position). A janitor goroutine drops expired entries in the
// background; Close stops it.
type Bounded struct {
	mu       sync.Mutex
	items    map[string]*list.Element
	order    *list.List // front = oldest inserted
	capacity int

	janitorStop chan struct{}
	closeOnce   sync.Once
}

// NewBounded creates a cache holding at most capacity entries. A capacity
// of zero or less falls back to DefaultCapacity. janitorInterval <= 0
// disables the background sweep (expired entries are still rejected on
// read).
func NewBounded(capacity int, janitorInterval time.Duration) *Bounded {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	b := &Bounded{
		items:    make(map[string]*list.Element),
		order:    list.New(),
		capacity: capacity,
	}
	if janitorInterval > 0 {
		b.janitorStop = make(chan struct{})
		go b.janitor(janitorInterval)
	}
	return b
}

// Set stores value under key with the given TTL. A TTL of zero or less
// means the entry never expires (it can still be evicted by capacity).
func (b *Bounded) Set(key string, value any, ttl time.Duration) {
	var expireAt time.Time
	if ttl > 0 {
		expireAt = time.Now().Add(ttl)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if el, ok := b.items[key]; ok {
		e := el.Value.(*entry)
		e.value = value
		e.expireAt = expireAt
		return
	}

	if b.order.Len() >= b.capacity {
		oldest := b.order.Front()
		if oldest != nil {
			b.removeLocked(oldest)
		}
	}
	b.items[key] = b.order.PushBack(&entry{key: key, value: value, expireAt: expireAt})
}

// Get returns the live value for key, or false if the key is absent or
// expired. Expired entries are removed on read.
func (b *Bounded) Get(key string) (any, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	el, ok := b.items[key]
	if !ok {
		return nil, false
	}
	e := el.Value.(*entry)
	if !e.expireAt.IsZero() && time.Now().After(e.expireAt) {
		b.removeLocked(el)
		return nil, false
	}
	return e.value, true
}

// Fetch returns the cached value for key, or runs fetcher, caches its
// result under ttl and returns it. A fetcher error is returned uncached,
// so a failing upstream is retried on the next call.
func (b *Bounded) Fetch(key string, ttl time.Duration, fetcher func() (any, error)) (any, error) {
	if v, ok := b.Get(key); ok {
		return v, nil
	}
	v, err := fetcher()
	if err != nil {
		return nil, err
	}
	b.Set(key, v, ttl)
	return v, nil
}

// Delete removes key if present.
func (b *Bounded) Delete(key string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if el, ok := b.items[key]; ok {
		b.removeLocked(el)
	}
}

// Len reports the number of stored entries, including any expired ones
// the janitor has not swept yet.
func (b *Bounded) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.order.Len()
}

// Close stops the janitor goroutine. The cache itself stays usable.
func (b *Bounded) Close() {
	b.closeOnce.Do(func() {
		if b.janitorStop != nil {
			close(b.janitorStop)
		}
	})
}

func (b *Bounded) removeLocked(el *list.Element) {
	e := el.Value.(*entry)
	b.order.Remove(el)
	delete(b.items, e.key)
}

func (b *Bounded) janitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			b.sweep()
		case <-b.janitorStop:
			return
		}
	}
}

func (b *Bounded) sweep() {
	now := time.Now()
	b.mu.Lock()
	defer b.mu.Unlock()
	for el := b.order.Front(); el != nil; {
		next := el.Next()
		e := el.Value.(*entry)
		if !e.expireAt.IsZero() && now.After(e.expireAt) {
			b.removeLocked(el)
		}
		el = next
	}
}
