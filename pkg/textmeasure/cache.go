// Package textmeasure measures caption widths through a caller-provided
// drawing context and memoizes the results.
//
// The cache is bounded and evicts in insertion order: once full, the oldest
// inserted key is dropped before a new one is stored. Reads do not refresh a
// key's position.
package textmeasure

import "fmt"

// DefaultCapacity bounds the shared cache.
const DefaultCapacity = 100_000

// Context measures the width of text rendered in font. Font strings look
// like "10px sans-serif".
type Context interface {
	MeasureText(font, text string) float64
}

// ContextFunc adapts a function to Context.
type ContextFunc func(font, text string) float64

// MeasureText implements Context.
func (f ContextFunc) MeasureText(font, text string) float64 { return f(font, text) }

// Cache memoizes widths keyed by font and text.
type Cache struct {
	capacity int
	widths   map[string]float64
	queue    []string // insertion order; queue[head:] is live
	head     int
}

// NewCache creates a cache holding at most capacity entries. A capacity
// below 1 is treated as 1.
func NewCache(capacity int) *Cache {
	if capacity < 1 {
		capacity = 1
	}
	return &Cache{
		capacity: capacity,
		widths:   make(map[string]float64),
	}
}

// Font formats a canvas font string.
func Font(fontFamily string, fontSize float64) string {
	return fmt.Sprintf("%gpx %s", fontSize, fontFamily)
}

// MeasureText returns the width of text in the given font, asking ctx only
// on a cache miss.
func (c *Cache) MeasureText(text, fontFamily string, fontSize float64, ctx Context) float64 {
	font := Font(fontFamily, fontSize)
	key := "[" + font + "][" + text + "]"
	if w, ok := c.widths[key]; ok {
		return w
	}
	w := ctx.MeasureText(font, text)
	c.store(key, w)
	return w
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	return len(c.widths)
}

// Contains reports whether text in the given font is cached.
func (c *Cache) Contains(text, fontFamily string, fontSize float64) bool {
	_, ok := c.widths["["+Font(fontFamily, fontSize)+"]["+text+"]"]
	return ok
}

func (c *Cache) store(key string, w float64) {
	if len(c.widths) >= c.capacity {
		oldest := c.queue[c.head]
		c.queue[c.head] = ""
		c.head++
		delete(c.widths, oldest)
		if c.head > len(c.queue)/2 {
			c.queue = append([]string(nil), c.queue[c.head:]...)
			c.head = 0
		}
	}
	c.widths[key] = w
	c.queue = append(c.queue, key)
}

var shared = NewCache(DefaultCapacity)

// MeasureText measures through the process-wide cache.
func MeasureText(text, fontFamily string, fontSize float64, ctx Context) float64 {
	return shared.MeasureText(text, fontFamily, fontSize, ctx)
}
