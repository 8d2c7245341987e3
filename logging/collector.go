package logging

import (
	"sync"
	"time"
)

// DefaultCollectorSize is the number of entries a LogCollector keeps when
// no size is given.
const DefaultCollectorSize = 200

// LogEntry is a single captured log record.
type LogEntry struct {
	Time       time.Time      `json:"time"`
	Level      string         `json:"level"`
	Component  string         `json:"component,omitempty"`
	Message    string         `json:"message"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

// LogCollector keeps the most recent log entries in memory. It is safe for
// concurrent use.
type LogCollector struct {
	mu      sync.RWMutex
	entries []LogEntry
	next    int
	full    bool
}

// NewLogCollector creates a collector holding up to size entries.
func NewLogCollector(size int) *LogCollector {
	if size <= 0 {
		size = DefaultCollectorSize
	}
	return &LogCollector{entries: make([]LogEntry, size)}
}

// Add stores an entry, evicting the oldest one when full.
func (c *LogCollector) Add(entry LogEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[c.next] = entry
	c.next = (c.next + 1) % len(c.entries)
	if c.next == 0 {
		c.full = true
	}
}

// Entries returns the stored entries, oldest first. A non-empty component
// limits the result to that component.
func (c *LogCollector) Entries(component string) []LogEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ordered := c.entries[:c.next]
	if c.full {
		ordered = append(append([]LogEntry{}, c.entries[c.next:]...), c.entries[:c.next]...)
	}

	result := make([]LogEntry, 0, len(ordered))
	for _, e := range ordered {
		if component == "" || e.Component == component {
			result = append(result, e)
		}
	}
	return result
}

// Clear removes all stored entries.
func (c *LogCollector) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	clear(c.entries)
	c.next = 0
	c.full = false
}
