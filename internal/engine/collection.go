package engine

import (
	"sort"
	"sync"
)

// Collection is an ordered set of unique videos keyed by id.
// Order is first-seen; field values are whatever was merged last.
type Collection struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]Video
}

// NewCollection returns an empty collection.
func NewCollection() *Collection {
	return &Collection{byID: make(map[string]Video)}
}

// Merge adds or updates videos and returns how many ids were new.
// Safe to call repeatedly as partial results arrive.
func (c *Collection) Merge(videos ...Video) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	added := 0
	for _, v := range videos {
		if v.ID == "" {
			continue
		}
		if _, ok := c.byID[v.ID]; !ok {
			c.order = append(c.order, v.ID)
			added++
		}
		c.byID[v.ID] = v
	}
	return added
}

// Len returns the number of unique videos.
func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.order)
}

// Get returns the video with id, if present.
func (c *Collection) Get(id string) (Video, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.byID[id]
	return v, ok
}

// Videos returns a copy of the collection in first-seen order.
func (c *Collection) Videos() []Video {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Video, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id])
	}
	return out
}

// Reset drops every video.
func (c *Collection) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.order = nil
	c.byID = make(map[string]Video)
}

// RankByScore returns a copy of videos sorted by weirdness score, highest first.
// Ties keep their input order.
func RankByScore(videos []Video) []Video {
	out := make([]Video, len(videos))
	copy(out, videos)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].WeirdnessScore > out[j].WeirdnessScore
	})
	return out
}
