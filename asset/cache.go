package asset

import (
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Cache maps image-source identifiers to decoded textures. Each source is
// decoded at most once; concurrent requests for the same source share the
// first decode.
type Cache struct {
	decoder Decoder

	mu       sync.RWMutex
	textures map[string]Texture
	group    singleflight.Group
}

func NewCache(decoder Decoder) *Cache {
	return &Cache{decoder: decoder, textures: make(map[string]Texture)}
}

// Get returns a cached texture without loading it.
func (c *Cache) Get(src string) (Texture, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	tex, ok := c.textures[src]
	return tex, ok
}

// Load returns the texture for src, decoding it on first use.
func (c *Cache) Load(src string) (Texture, error) {
	if src == "" {
		return nil, fmt.Errorf("asset: empty image source")
	}
	if tex, ok := c.Get(src); ok {
		return tex, nil
	}
	v, err, _ := c.group.Do(src, func() (any, error) {
		if tex, ok := c.Get(src); ok {
			return tex, nil
		}
		tex, err := c.decoder.Decode(src)
		if err != nil {
			return nil, fmt.Errorf("asset: decode %s: %w", src, err)
		}
		c.mu.Lock()
		c.textures[src] = tex
		c.mu.Unlock()
		return tex, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(Texture), nil
}

// Len returns the number of cached textures.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.textures)
}
