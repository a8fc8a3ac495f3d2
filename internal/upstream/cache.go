package upstream

import (
	"encoding/json"
	"sync"
	"time"
)

// Tag is a coarse entity category used to group cache entries for bulk
// invalidation.
type Tag string

const (
	TagUser     Tag = "User"
	TagOrder    Tag = "Order"
	TagMenuItem Tag = "MenuItem"
	TagCustomer Tag = "Customer"
	TagFeedback Tag = "Feedback"
	TagStats    Tag = "Stats"
	TagReports  Tag = "Reports"
)

// Fingerprint derives the cache key for an endpoint call: the endpoint name
// plus the JSON-serialized arguments. Argument-free endpoints key on the
// name alone.
func Fingerprint(endpoint string, args any) (string, error) {
	if args == nil {
		return endpoint, nil
	}
	serialized, err := json.Marshal(args)
	if err != nil {
		return "", err
	}
	return endpoint + ":" + string(serialized), nil
}

type entryStatus uint8

const (
	statusFresh entryStatus = iota
	statusStale
)

type entry struct {
	data      json.RawMessage
	tags      []Tag
	status    entryStatus
	lastErr   error
	fetchedAt time.Time
}

// CacheStats summarizes cache occupancy for the health endpoint.
type CacheStats struct {
	Entries  int `json:"entries"`
	Fresh    int `json:"fresh"`
	Stale    int `json:"stale"`
	Watchers int `json:"watchers"`
}

// Cache maps request fingerprints to tagged response entries. A tag index
// keeps invalidation proportional to the number of tags rather than the
// number of entries.
type Cache struct {
	mu       sync.Mutex
	entries  map[string]*entry
	byTag    map[Tag]map[string]struct{}
	watchers map[int]watcher
	nextID   int
}

type watcher struct {
	tags map[Tag]struct{}
	ch   chan struct{}
}

// NewCache builds an empty cache.
func NewCache() *Cache {
	return &Cache{
		entries:  make(map[string]*entry),
		byTag:    make(map[Tag]map[string]struct{}),
		watchers: make(map[int]watcher),
	}
}

// Fresh returns the cached body for key when it has not been invalidated
// or errored since its last successful fetch.
func (c *Cache) Fresh(key string) (json.RawMessage, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok || e.status != statusFresh || e.lastErr != nil {
		return nil, false
	}
	return e.data, true
}

// Put records a successful fetch, replacing any previous state for key.
func (c *Cache) Put(key string, tags []Tag, data json.RawMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.dropIndexLocked(key)
	c.entries[key] = &entry{
		data:      data,
		tags:      tags,
		status:    statusFresh,
		fetchedAt: time.Now(),
	}
	c.indexLocked(key, tags)
}

// MarkErrored flags key as failed without evicting previously-good data.
// The stale body stays available via Last for consumers that prefer
// something over nothing.
func (c *Cache) MarkErrored(key string, tags []Tag, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		e = &entry{tags: tags}
		c.entries[key] = e
		c.indexLocked(key, tags)
	}
	e.status = statusStale
	e.lastErr = err
}

// Last returns whatever body is stored for key, fresh or stale.
func (c *Cache) Last(key string) (json.RawMessage, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok || e.data == nil {
		return nil, false
	}
	return e.data, true
}

// Invalidate marks every entry carrying one of the tags stale and pokes
// watchers registered for them. The next read of a stale key refetches.
func (c *Cache) Invalidate(tags ...Tag) {
	c.mu.Lock()
	for _, tag := range tags {
		for key := range c.byTag[tag] {
			if e, ok := c.entries[key]; ok {
				e.status = statusStale
			}
		}
	}
	var poke []chan struct{}
	for _, w := range c.watchers {
		for _, tag := range tags {
			if _, ok := w.tags[tag]; ok {
				poke = append(poke, w.ch)
				break
			}
		}
	}
	c.mu.Unlock()

	for _, ch := range poke {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Watch registers interest in the given tags. The returned channel receives
// a poke whenever one of them is invalidated; cancel drops the watcher.
func (c *Cache) Watch(tags ...Tag) (<-chan struct{}, func()) {
	set := make(map[Tag]struct{}, len(tags))
	for _, tag := range tags {
		set[tag] = struct{}{}
	}
	ch := make(chan struct{}, 1)

	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.watchers[id] = watcher{tags: set, ch: ch}
	c.mu.Unlock()

	return ch, func() {
		c.mu.Lock()
		delete(c.watchers, id)
		c.mu.Unlock()
	}
}

// Sweep drops stale entries last fetched before cutoff, provided no watcher
// is registered for any of their tags. Returns the number of evictions.
func (c *Cache) Sweep(cutoff time.Time) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	watched := make(map[Tag]struct{})
	for _, w := range c.watchers {
		for tag := range w.tags {
			watched[tag] = struct{}{}
		}
	}

	var evicted int
	for key, e := range c.entries {
		if e.status == statusFresh && e.lastErr == nil {
			continue
		}
		if !e.fetchedAt.Before(cutoff) {
			continue
		}
		if anyWatched(e.tags, watched) {
			continue
		}
		c.dropIndexLocked(key)
		delete(c.entries, key)
		evicted++
	}
	return evicted
}

// Stats reports cache occupancy.
func (c *Cache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := CacheStats{
		Entries:  len(c.entries),
		Watchers: len(c.watchers),
	}
	for _, e := range c.entries {
		if e.status == statusFresh && e.lastErr == nil {
			stats.Fresh++
		} else {
			stats.Stale++
		}
	}
	return stats
}

func anyWatched(tags []Tag, watched map[Tag]struct{}) bool {
	for _, tag := range tags {
		if _, ok := watched[tag]; ok {
			return true
		}
	}
	return false
}

func (c *Cache) indexLocked(key string, tags []Tag) {
	for _, tag := range tags {
		keys, ok := c.byTag[tag]
		if !ok {
			keys = make(map[string]struct{})
			c.byTag[tag] = keys
		}
		keys[key] = struct{}{}
	}
}

func (c *Cache) dropIndexLocked(key string) {
	e, ok := c.entries[key]
	if !ok {
		return
	}
	for _, tag := range e.tags {
		delete(c.byTag[tag], key)
		if len(c.byTag[tag]) == 0 {
			delete(c.byTag, tag)
		}
	}
}
