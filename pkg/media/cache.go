package media

import (
	"sync"
	"time"
)

// ImageCache keeps decoded images in memory for a fixed time. Keys are chosen by the
// caller; they must identify the image, not a short-lived URL to it.
type ImageCache struct {
	data    map[string]*cacheEntry
	ttl     time.Duration
	mu      sync.RWMutex
	cleanup *time.Ticker
	done    chan struct{}
	once    sync.Once
}

type cacheEntry struct {
	value      *Image
	expiration time.Time
}

// NewImageCache creates a cache whose entries expire after ttl.
func NewImageCache(ttl time.Duration) *ImageCache {
	cache := &ImageCache{
		data:    make(map[string]*cacheEntry),
		ttl:     ttl,
		cleanup: time.NewTicker(time.Minute),
		done:    make(chan struct{}),
	}

	go cache.cleanupLoop()

	return cache
}

// Get retrieves an image from the cache
func (c *ImageCache) Get(key string) (*Image, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.data[key]
	if !ok {
		return nil, false
	}

	if time.Now().After(entry.expiration) {
		return nil, false
	}

	return entry.value, true
}

// Set stores an image in the cache
func (c *ImageCache) Set(key string, img *Image) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data[key] = &cacheEntry{
		value:      img,
		expiration: time.Now().Add(c.ttl),
	}
}

// Size returns the number of entries, expired ones included until the next sweep.
func (c *ImageCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}

func (c *ImageCache) cleanupLoop() {
	for {
		select {
		case <-c.cleanup.C:
			c.removeExpired()
		case <-c.done:
			c.cleanup.Stop()
			return
		}
	}
}

func (c *ImageCache) removeExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for key, entry := range c.data {
		if now.After(entry.expiration) {
			delete(c.data, key)
		}
	}
}

// Stop stops the cleanup goroutine. It is safe to call more than once.
func (c *ImageCache) Stop() {
	c.once.Do(func() { close(c.done) })
}
