package routing

import (
	"sync"

	"github.com/matzehuels/transitroute/pkg/network"
)

// DefaultGraphCacheSize is the number of snapshots kept by a cache created
// with a non-positive size.
const DefaultGraphCacheSize = 16

// GraphCache holds adjacency graphs keyed by the contents of the
// unavailable-stop set. It is safe for concurrent use.
//
// A cache belongs to one [network.Index]; sharing it across networks
// returns graphs for the wrong routes.
type GraphCache struct {
	mu    sync.Mutex
	size  int
	order []string
	items map[string]*Graph
}

// NewGraphCache creates a cache holding at most size graphs. When full, the
// oldest entry is evicted.
func NewGraphCache(size int) *GraphCache {
	if size <= 0 {
		size = DefaultGraphCacheSize
	}
	return &GraphCache{size: size, items: make(map[string]*Graph, size)}
}

// Get returns the graph for unavailable, building it from ix on a miss.
// The second result reports whether the graph came from the cache.
func (c *GraphCache) Get(ix *network.Index, unavailable network.StopSet) (*Graph, bool) {
	key := unavailable.Key()

	c.mu.Lock()
	if g, ok := c.items[key]; ok {
		c.mu.Unlock()
		return g, true
	}
	c.mu.Unlock()

	// Build outside the lock; a concurrent miss for the same key builds an
	// identical graph and the first writer wins.
	g := Build(ix, unavailable)

	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.items[key]; ok {
		return existing, false
	}
	if len(c.order) >= c.size {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.items, oldest)
	}
	c.items[key] = g
	c.order = append(c.order, key)
	return g, false
}

// Len returns the number of cached graphs.
func (c *GraphCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Clear drops every cached graph.
func (c *GraphCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.order = nil
	c.items = make(map[string]*Graph, c.size)
}
