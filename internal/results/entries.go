package results

import (
	"encoding/json"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Entry is one labeled row of a result, such as a finding or a class probability.
type Entry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Entries is an insertion-ordered label → value map.
// Keys are unique; setting an existing key replaces its value in place.
// The zero value is empty and ready to use.
type Entries struct {
	m *orderedmap.OrderedMap[string, string]
}

// NewEntries builds Entries from pairs in order.
func NewEntries(pairs ...Entry) Entries {
	var e Entries
	for _, p := range pairs {
		e.Set(p.Key, p.Value)
	}
	return e
}

// Set stores value under key, keeping the original position of existing keys.
func (e *Entries) Set(key, value string) {
	if e.m == nil {
		e.m = orderedmap.New[string, string]()
	}
	e.m.Set(key, value)
}

// Get returns the value stored under key.
func (e Entries) Get(key string) (string, bool) {
	if e.m == nil {
		return "", false
	}
	return e.m.Get(key)
}

// Len returns the number of entries.
func (e Entries) Len() int {
	if e.m == nil {
		return 0
	}
	return e.m.Len()
}

// Items returns the entries in insertion order.
func (e Entries) Items() []Entry {
	items := make([]Entry, 0, e.Len())
	if e.m == nil {
		return items
	}
	for p := e.m.Oldest(); p != nil; p = p.Next() {
		items = append(items, Entry{Key: p.Key, Value: p.Value})
	}
	return items
}

// MarshalJSON encodes the entries as a JSON object in insertion order.
func (e Entries) MarshalJSON() ([]byte, error) {
	if e.m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(e.m)
}

// UnmarshalJSON decodes a JSON object, preserving its key order.
func (e *Entries) UnmarshalJSON(data []byte) error {
	m := orderedmap.New[string, string]()
	if err := json.Unmarshal(data, m); err != nil {
		return err
	}
	e.m = m
	return nil
}
