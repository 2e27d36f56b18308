package llm

import (
	"sync"

	"golang.org/x/sync/singleflight"
)

// Cache memoizes generation responses keyed by exact prompt text for the
// process lifetime. Only successes are stored: a transient failure must not
// poison later retries for the same prompt. Concurrent misses for the same
// prompt collapse into a single in-flight call.
type Cache struct {
	mu      sync.Mutex
	entries map[string]string
	group   singleflight.Group
}

func NewCache() *Cache {
	return &Cache{entries: make(map[string]string)}
}

// GetOrGenerate returns the cached text for prompt, or invokes generate,
// storing the result on success.
func (c *Cache) GetOrGenerate(prompt string, generate func() (string, error)) (string, error) {
	c.mu.Lock()
	if text, ok := c.entries[prompt]; ok {
		c.mu.Unlock()
		return text, nil
	}
	c.mu.Unlock()

	v, err, _ := c.group.Do(prompt, func() (any, error) {
		// Another flight may have stored the entry between our check and now.
		c.mu.Lock()
		if text, ok := c.entries[prompt]; ok {
			c.mu.Unlock()
			return text, nil
		}
		c.mu.Unlock()

		text, err := generate()
		if err != nil {
			return "", err
		}
		c.mu.Lock()
		c.entries[prompt] = text
		c.mu.Unlock()
		return text, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// Len reports the number of stored entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
