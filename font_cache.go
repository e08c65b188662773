package retrocon

import (
	"bytes"
	"container/list"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
)

// FontCache keeps parsed fonts so switching charsets does not regenerate or
// reparse them. Fonts are immutable, so one cached font can back any number
// of consoles. A FontCache is safe for concurrent use.
//
// Resource fonts are keyed by the loader's CacheKey and the resource name,
// fonts parsed from bytes by the SHA-256 of the data. Loaders without a
// CacheKey always load. Concurrent misses on one key load the
// font once. When full, the least recently used font is dropped.
type FontCache struct {
	mu      sync.Mutex
	entries map[string]*list.Element
	order   *list.List // front is most recently used
	maxSize int
	loads   singleflight.Group

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

type cacheEntry struct {
	key  string
	font *Font
}

var defaultCache = NewFontCache(32)

// NewFontCache creates a cache holding at most maxSize fonts. A maxSize of
// 0 or less means no limit.
func NewFontCache(maxSize int) *FontCache {
	return &FontCache{
		entries: make(map[string]*list.Element),
		order:   list.New(),
		maxSize: maxSize,
	}
}

// LoadFontCached loads a font resource through the default cache.
func LoadFontCached(l ResourceLoader, name string) (*Font, error) {
	return defaultCache.LoadFont(l, name)
}

// LoadFont loads a font resource, or returns the cached copy when l
// implements CacheKeyer.
func (c *FontCache) LoadFont(l ResourceLoader, name string) (*Font, error) {
	font, _, err := c.load(l, name)
	return font, err
}

// load is LoadFont that also reports whether the font came from the cache.
func (c *FontCache) load(l ResourceLoader, name string) (*Font, bool, error) {
	if l == nil {
		return nil, false, ErrNilLoader
	}
	key, ok := loaderKey(l)
	if !ok {
		c.misses.Add(1)
		font, err := LoadFont(l, name)
		return font, false, err
	}
	return c.getOrLoad(key+":"+name, func() (*Font, error) {
		return LoadFont(l, name)
	})
}

// ParseFontCached parses font data through the default cache.
func ParseFontCached(data []byte) (*Font, error) {
	return defaultCache.ParseFont(data)
}

// ParseFont parses font data, or returns the cached font for identical
// data.
func (c *FontCache) ParseFont(data []byte) (*Font, error) {
	sum := sha256.Sum256(data)
	font, _, err := c.getOrLoad("sha256:"+hex.EncodeToString(sum[:]), func() (*Font, error) {
		return ParseFont(bytes.NewReader(data))
	})
	return font, err
}

// getOrLoad returns the font cached under key or stores what load returns.
// Errors are not cached.
func (c *FontCache) getOrLoad(key string, load func() (*Font, error)) (*Font, bool, error) {
	if font := c.get(key); font != nil {
		c.hits.Add(1)
		return font, true, nil
	}
	c.misses.Add(1)

	v, err, _ := c.loads.Do(key, func() (interface{}, error) {
		if font := c.get(key); font != nil {
			return font, nil
		}
		font, err := load()
		if err != nil {
			return nil, err
		}
		c.put(key, font)
		return font, nil
	})
	if err != nil {
		return nil, false, err
	}
	return v.(*Font), false, nil
}

func (c *FontCache) get(key string) *Font {
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.entries[key]
	if !ok {
		return nil
	}
	c.order.MoveToFront(el)
	return el.Value.(*cacheEntry).font
}

func (c *FontCache) put(key string, font *Font) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[key]; ok {
		return
	}
	for c.maxSize > 0 && c.order.Len() >= c.maxSize {
		oldest := c.order.Back()
		delete(c.entries, oldest.Value.(*cacheEntry).key)
		c.order.Remove(oldest)
		c.evictions.Add(1)
	}
	c.entries[key] = c.order.PushFront(&cacheEntry{key: key, font: font})
}

// Clear drops every cached font. Statistics are kept.
func (c *FontCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*list.Element)
	c.order.Init()
}

// Stats returns a snapshot of the cache counters.
func (c *FontCache) Stats() CacheStats {
	c.mu.Lock()
	size := c.order.Len()
	var n int64
	for el := c.order.Front(); el != nil; el = el.Next() {
		n += fontBytes(el.Value.(*cacheEntry).font)
	}
	c.mu.Unlock()

	return CacheStats{
		Size:      size,
		MaxSize:   c.maxSize,
		Bytes:     n,
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
	}
}

// CacheStats contains cache performance statistics.
type CacheStats struct {
	Size      int    // fonts currently cached
	MaxSize   int    // 0 means unlimited
	Bytes     int64  // approximate memory held by cached glyph rows
	Hits      uint64 // lookups served from the cache
	Misses    uint64 // lookups that had to load
	Evictions uint64 // fonts dropped to make room
}

// HitRate returns the cache hit rate as a percentage (0-100).
func (s CacheStats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) * 100 / float64(total)
}

// fontBytes is one uint32 per glyph row plus the struct.
func fontBytes(f *Font) int64 {
	if f == nil {
		return 0
	}
	return 64 + int64(f.Height())*256*4
}

// SetDefaultCacheSize replaces the default cache with an empty one holding
// at most maxSize fonts. Call it at startup, before any console is created.
func SetDefaultCacheSize(maxSize int) {
	defaultCache = NewFontCache(maxSize)
}

// ClearDefaultCache clears the default font cache.
func ClearDefaultCache() {
	defaultCache.Clear()
}

// DefaultCacheStats returns statistics for the default cache.
func DefaultCacheStats() CacheStats {
	return defaultCache.Stats()
}
