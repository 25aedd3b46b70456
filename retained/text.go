package retained

import "container/list"

const defaultTextCacheSize = 4096

type textKey struct {
	text     string
	scale    float32
	maxWidth float32
}

type textSize struct {
	w, h float32
}

// textMeasureCache is an LRU cache of text measurements keyed by string,
// scale and wrap width.
type textMeasureCache struct {
	maxSize int
	cache   map[textKey]*list.Element
	lru     *list.List // Front = most recently used
}

type cacheEntry struct {
	key  textKey
	size textSize
}

func newTextMeasureCache(maxSize int) *textMeasureCache {
	return &textMeasureCache{
		maxSize: maxSize,
		cache:   make(map[textKey]*list.Element),
		lru:     list.New(),
	}
}

func (c *textMeasureCache) get(key textKey) (textSize, bool) {
	if elem, ok := c.cache[key]; ok {
		c.lru.MoveToFront(elem)
		return elem.Value.(*cacheEntry).size, true
	}
	return textSize{}, false
}

func (c *textMeasureCache) put(key textKey, size textSize) {
	if elem, ok := c.cache[key]; ok {
		c.lru.MoveToFront(elem)
		elem.Value.(*cacheEntry).size = size
		return
	}

	for c.lru.Len() >= c.maxSize {
		oldest := c.lru.Back()
		if oldest == nil {
			break
		}
		c.lru.Remove(oldest)
		delete(c.cache, oldest.Value.(*cacheEntry).key)
	}

	c.cache[key] = c.lru.PushFront(&cacheEntry{key: key, size: size})
}

func (c *textMeasureCache) len() int { return c.lru.Len() }
