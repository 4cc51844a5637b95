package variables

import (
	"sort"
)

// secretCache maps secret names to their last known contents. It has no
// locking of its own: every access happens under the Store's lock. Maps are
// copied on the way in and out so callers never alias cached state.
type secretCache struct {
	entries map[string]map[string]string
}

func newSecretCache() *secretCache {
	return &secretCache{entries: make(map[string]map[string]string)}
}

// put replaces the cached contents of a secret.
func (c *secretCache) put(name string, data map[string]string) {
	c.entries[name] = copyMap(data)
}

// get returns a copy of a secret's contents and whether it is cached.
func (c *secretCache) get(name string) (map[string]string, bool) {
	data, ok := c.entries[name]
	if !ok {
		return nil, false
	}
	return copyMap(data), true
}

func (c *secretCache) contains(name string) bool {
	_, ok := c.entries[name]
	return ok
}

func (c *secretCache) has(name, key string) bool {
	_, ok := c.entries[name][key]
	return ok
}

func (c *secretCache) remove(name string) {
	delete(c.entries, name)
}

// replaceAll swaps the whole cache for the given listing.
func (c *secretCache) replaceAll(all map[string]map[string]string) {
	next := make(map[string]map[string]string, len(all))
	for name, data := range all {
		next[name] = copyMap(data)
	}
	c.entries = next
}

// names returns the sorted variable names of a secret.
func (c *secretCache) names(name string) []string {
	return sortedKeys(c.entries[name])
}

// secrets returns the sorted names of all cached secrets.
func (c *secretCache) secrets() []string {
	out := make([]string, 0, len(c.entries))
	for name := range c.entries {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func copyMap(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func sortedKeys[V any](in map[string]V) []string {
	out := make([]string, 0, len(in))
	for k := range in {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
