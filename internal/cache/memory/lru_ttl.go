package memory

import (
	"container/list"
	"sync"
	"time"
)

type item[K comparable, V any] struct {
	key     K
	value   V
	size    int
	expires time.Time
}

// LRUTTL is a threadsafe LRU cache with per-entry TTL and an optional byte cap.
// It backs the design-import cache, where entries carry rendered images and can
// be large.
type LRUTTL[K comparable, V any] struct {
	mu       sync.Mutex
	order    *list.List
	items    map[K]*list.Element
	capacity int
	maxBytes int
	bytes    int
	ttl      time.Duration
}

func NewLRUTTL[K comparable, V any](capacity, maxBytes int, ttl time.Duration) *LRUTTL[K, V] {
	if capacity <= 0 {
		capacity = 1
	}
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &LRUTTL[K, V]{
		order:    list.New(),
		items:    make(map[K]*list.Element),
		capacity: capacity,
		maxBytes: maxBytes,
		ttl:      ttl,
	}
}

func (c *LRUTTL[K, V]) Get(key K) (V, bool) {
	var zero V
	if c == nil {
		return zero, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	ele, ok := c.items[key]
	if !ok {
		return zero, false
	}
	it := ele.Value.(*item[K, V])
	if time.Now().After(it.expires) {
		c.remove(ele)
		return zero, false
	}
	c.order.MoveToFront(ele)
	return it.value, true
}

func (c *LRUTTL[K, V]) Set(key K, value V, sizeBytes int) {
	if c == nil {
		return
	}
	if sizeBytes < 0 {
		sizeBytes = 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if ele, ok := c.items[key]; ok {
		it := ele.Value.(*item[K, V])
		c.bytes += sizeBytes - it.size
		it.value = value
		it.size = sizeBytes
		it.expires = time.Now().Add(c.ttl)
		c.order.MoveToFront(ele)
		c.evict()
		return
	}

	ele := c.order.PushFront(&item[K, V]{
		key:     key,
		value:   value,
		size:    sizeBytes,
		expires: time.Now().Add(c.ttl),
	})
	c.items[key] = ele
	c.bytes += sizeBytes
	c.evict()
}

func (c *LRUTTL[K, V]) Delete(key K) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if ele, ok := c.items[key]; ok {
		c.remove(ele)
	}
}

func (c *LRUTTL[K, V]) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

func (c *LRUTTL[K, V]) evict() {
	for c.order.Len() > 0 {
		if c.order.Len() <= c.capacity && (c.maxBytes <= 0 || c.bytes <= c.maxBytes) {
			return
		}
		c.remove(c.order.Back())
	}
}

func (c *LRUTTL[K, V]) remove(ele *list.Element) {
	if ele == nil {
		return
	}
	c.order.Remove(ele)
	it := ele.Value.(*item[K, V])
	delete(c.items, it.key)
	c.bytes -= it.size
	if c.bytes < 0 {
		c.bytes = 0
	}
}
