package dataset

import (
	"path/filepath"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog/log"
	"github.com/zeebo/xxh3"
)

// Cache memoizes raw loads keyed by upload identity: the content hash, the
// format extension and the decode options. It is the only memoization
// boundary of the pipeline.
type Cache struct {
	entries *lru.Cache[cacheKey, *Table]
}

type cacheKey struct {
	hash uint64
	ext  string
	opt  Options
}

// NewCache returns a cache bounded to size entries (minimum 1).
func NewCache(size int) *Cache {
	if size < 1 {
		size = 1
	}
	c, err := lru.New[cacheKey, *Table](size)
	if err != nil {
		// lru.New only fails on a non-positive size.
		panic(err)
	}
	return &Cache{entries: c}
}

// Load returns the cached table for identical content, decoding on a miss.
// Callers must treat the returned table as read-only.
func (c *Cache) Load(name string, content []byte, opt Options) (*Table, error) {
	key := cacheKey{hash: xxh3.Hash(content), ext: formatKey(name), opt: opt}
	if t, ok := c.entries.Get(key); ok {
		log.Debug().Str("file", name).Uint64("hash", key.hash).Msg("raw load cache hit")
		cp := *t
		cp.Name = filepath.Base(name)
		return &cp, nil
	}
	t, err := Load(name, content, opt)
	if err != nil {
		return nil, err
	}
	c.entries.Add(key, t)
	return t, nil
}

// Len reports the number of cached tables.
func (c *Cache) Len() int { return c.entries.Len() }

func formatKey(name string) string {
	lower := strings.ToLower(filepath.Base(name))
	if strings.HasSuffix(lower, ".gz") {
		return filepath.Ext(strings.TrimSuffix(lower, ".gz")) + ".gz"
	}
	return filepath.Ext(lower)
}
