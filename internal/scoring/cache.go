package scoring

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"sync"

	"github.com/contourline/leadscore-cli/internal/model"
)

// Cache memoizes batch results keyed by profile identity and input content,
// replacing the implicit "already processed" session flag the dashboard
// relied on. A hit skips re-invoking the paid completion service.
type Cache struct {
	mu      sync.Mutex
	entries map[string][]model.ScoreResult
}

// NewCache creates an empty Cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string][]model.ScoreResult)}
}

// Get returns a copy of the cached results for key, if present.
func (c *Cache) Get(key string) ([]model.ScoreResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cached, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	out := make([]model.ScoreResult, len(cached))
	copy(out, cached)
	return out, true
}

// Put stores a copy of results under key.
func (c *Cache) Put(key string, results []model.ScoreResult) {
	stored := make([]model.ScoreResult, len(results))
	copy(stored, results)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = stored
}

// cacheKey hashes the profile text together with every lead's content in a
// deterministic order. Any change to either produces a different key.
func cacheKey(profile *model.Profile, leads []*model.Lead) string {
	h := sha256.New()
	fmt.Fprintf(h, "profile:%s\n", profile.Text)
	for _, lead := range leads {
		fmt.Fprintf(h, "lead:%s|%s|%s|%s|%.2f|", lead.Name, lead.Owner, lead.Product, lead.Reason, lead.Value)
		keys := make([]string, 0, len(lead.Fields))
		for k := range lead.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(h, "%s=%s;", k, lead.Fields[k])
		}
		fmt.Fprintln(h)
	}
	return hex.EncodeToString(h.Sum(nil))
}
