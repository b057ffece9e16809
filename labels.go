package wikiparse

import (
	"sort"
	"sync"
)

// A LabelCounter collects how articles name the pages they link to.
//
// It is safe for concurrent use.
type LabelCounter struct {
	mu sync.Mutex

	known map[string]bool

	labels       map[string]int
	destinations map[string]map[string]int
	frequency    map[string]int
}

// NewLabelCounter gets a counter. If known is not nil, only links to
// titles in it are counted.
func NewLabelCounter(known map[string]bool) *LabelCounter {
	return &LabelCounter{
		known:        known,
		labels:       map[string]int{},
		destinations: map[string]map[string]int{},
		frequency:    map[string]int{},
	}
}

// Observe counts the links of a.
func (c *LabelCounter) Observe(a *Article) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, l := range a.Links {
		if c.known != nil && !c.known[l.Destination] {
			continue
		}
		c.labels[l.Label]++
		d := c.destinations[l.Label]
		if d == nil {
			d = map[string]int{}
			c.destinations[l.Label] = d
		}
		d[l.Destination]++
		c.frequency[l.Destination]++
	}
}

// Labels returns how often each label was used for a link.
func (c *LabelCounter) Labels() map[string]int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return copyCounts(c.labels)
}

// Destinations returns the pages label linked to and how often.
func (c *LabelCounter) Destinations(label string) map[string]int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return copyCounts(c.destinations[label])
}

// DestinationFrequency returns how many links pointed at title.
func (c *LabelCounter) DestinationFrequency(title string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frequency[title]
}

func copyCounts(m map[string]int) map[string]int {
	rv := make(map[string]int, len(m))
	for k, v := range m {
		rv[k] = v
	}
	return rv
}

// A Count is a key and how often it was seen.
type Count struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// A LabelStat is a label with its destinations, most frequent first.
type LabelStat struct {
	Label        string  `json:"label"`
	Count        int     `json:"count"`
	Destinations []Count `json:"destinations"`
}

// LabelSnapshot is the whole state of a LabelCounter in sorted form.
type LabelSnapshot struct {
	Labels       []LabelStat `json:"labels"`
	Destinations []Count     `json:"destinations"`
}

// Snapshot returns the counts ordered by descending count, then key.
func (c *LabelCounter) Snapshot() LabelSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	rv := LabelSnapshot{Destinations: sortedCounts(c.frequency)}
	for label, n := range c.labels {
		rv.Labels = append(rv.Labels, LabelStat{
			Label:        label,
			Count:        n,
			Destinations: sortedCounts(c.destinations[label]),
		})
	}
	sort.Slice(rv.Labels, func(i, j int) bool {
		a, b := rv.Labels[i], rv.Labels[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Label < b.Label
	})
	return rv
}

func sortedCounts(m map[string]int) []Count {
	rv := make([]Count, 0, len(m))
	for k, v := range m {
		rv = append(rv, Count{Key: k, Count: v})
	}
	sort.Slice(rv, func(i, j int) bool {
		if rv[i].Count != rv[j].Count {
			return rv[i].Count > rv[j].Count
		}
		return rv[i].Key < rv[j].Key
	})
	return rv
}
