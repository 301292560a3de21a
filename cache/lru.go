package cache

import (
	"container/list"
	"sync"
	"sync/atomic"

	"github.com/hupe1980/vqc/quantization"
)

// lru is a byte-bounded LRU of decoded codebooks.
type lru struct {
	mu        sync.Mutex
	capacity  int64
	size      int64
	items     map[Key]*list.Element
	evictList *list.List

	hits   atomic.Int64
	misses atomic.Int64
}

type entry struct {
	key  Key
	cb   *quantization.Codebook
	cost int64
}

func newLRU(capacity int64) *lru {
	return &lru{
		capacity:  capacity,
		items:     make(map[Key]*list.Element),
		evictList: list.New(),
	}
}

// codebookCost approximates the memory held by a decoded codebook.
func codebookCost(cb *quantization.Codebook) int64 {
	return int64(cb.Size()) * (int64(cb.VectorDimensions())*2 + 8)
}

func (c *lru) get(key Key) (*quantization.Codebook, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ent, ok := c.items[key]; ok {
		c.hits.Add(1)
		c.evictList.MoveToFront(ent)
		return ent.Value.(*entry).cb, true
	}
	c.misses.Add(1)
	return nil, false
}

func (c *lru) set(key Key, cb *quantization.Codebook) {
	cost := codebookCost(cb)

	c.mu.Lock()
	defer c.mu.Unlock()

	if ent, ok := c.items[key]; ok {
		c.removeElement(ent)
	}

	// Larger than the whole cache: don't cache.
	if cost > c.capacity {
		return
	}

	for c.size+cost > c.capacity {
		back := c.evictList.Back()
		if back == nil {
			break
		}
		c.removeElement(back)
	}

	c.items[key] = c.evictList.PushFront(&entry{key: key, cb: cb, cost: cost})
	c.size += cost
}

func (c *lru) remove(key Key) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ent, ok := c.items[key]; ok {
		c.removeElement(ent)
	}
}

func (c *lru) removeElement(e *list.Element) {
	c.evictList.Remove(e)
	ent := e.Value.(*entry)
	delete(c.items, ent.key)
	c.size -= ent.cost
}

func (c *lru) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *lru) bytes() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.size
}
