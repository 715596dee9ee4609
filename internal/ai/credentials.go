package ai

import "strings"

// Credentials is an ordered set of API keys with a current position.
type Credentials struct {
	keys  []string
	index int
}

// NewCredentials drops empty and repeated keys, keeping order.
func NewCredentials(keys ...string) *Credentials {
	c := &Credentials{}
	seen := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		c.keys = append(c.keys, key)
	}
	return c
}

func (c *Credentials) Len() int {
	return len(c.keys)
}

// Current returns the active key and its position. ok is false when empty.
func (c *Credentials) Current() (key string, index int, ok bool) {
	if len(c.keys) == 0 {
		return "", 0, false
	}
	return c.keys[c.index], c.index, true
}

// Rotate advances to the next key if from is still the active position.
// It reports whether the position changed.
func (c *Credentials) Rotate(from int) bool {
	if len(c.keys) < 2 || c.index != from {
		return false
	}
	c.index = (c.index + 1) % len(c.keys)
	return true
}
