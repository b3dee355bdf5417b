package anchor

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"chronicle/anchoring/internal/prosemirror"
)

// DefaultTextCacheSize is the number of document snapshots a TextCache keeps.
const DefaultTextCacheSize = 128

// TextCache memoizes ExtractText per document snapshot. Documents are
// immutable, so the node pointer identifies the snapshot. A nil cache
// extracts every time.
type TextCache struct {
	entries *lru.Cache[*prosemirror.Node, *Extraction]
}

func NewTextCache(size int) (*TextCache, error) {
	if size <= 0 {
		size = DefaultTextCacheSize
	}
	entries, err := lru.New[*prosemirror.Node, *Extraction](size)
	if err != nil {
		return nil, fmt.Errorf("text cache: %w", err)
	}
	return &TextCache{entries: entries}, nil
}

// Extract returns the extraction of doc, computing it at most once per snapshot.
func (c *TextCache) Extract(doc *prosemirror.Node) *Extraction {
	if c == nil {
		return ExtractText(doc)
	}
	if ext, ok := c.entries.Get(doc); ok {
		return ext
	}
	ext := ExtractText(doc)
	c.entries.Add(doc, ext)
	return ext
}

func (c *TextCache) Len() int {
	if c == nil {
		return 0
	}
	return c.entries.Len()
}
