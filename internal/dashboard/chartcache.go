package dashboard

import "sync"

const chartCacheSize = 64

// chartCache is a thread-safe LRU of rendered chart PNGs keyed by
// "city/chart". Load resets it to a new generation; puts rendered from an
// older generation are dropped.
type chartCache struct {
	maxEntries int
	mu         sync.Mutex
	gen        uint64
	entries    map[string]*chartEntry
	head       *chartEntry // most recently used
	tail       *chartEntry // least recently used
}

type chartEntry struct {
	key  string
	png  []byte
	prev *chartEntry
	next *chartEntry
}

func newChartCache(maxEntries int) *chartCache {
	return &chartCache{
		maxEntries: maxEntries,
		entries:    make(map[string]*chartEntry),
	}
}

func (c *chartCache) get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	c.moveToFront(e)
	return e.png, true
}

func (c *chartCache) put(gen uint64, key string, png []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.gen {
		return
	}

	if e, ok := c.entries[key]; ok {
		e.png = png
		c.moveToFront(e)
		return
	}

	e := &chartEntry{key: key, png: png}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *chartCache) reset(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen = gen
	c.entries = make(map[string]*chartEntry)
	c.head, c.tail = nil, nil
}

func (c *chartCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *chartCache) moveToFront(e *chartEntry) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *chartCache) addToFront(e *chartEntry) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *chartCache) remove(e *chartEntry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *chartCache) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}
