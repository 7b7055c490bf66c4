package cart

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Entry is a single cart line keyed by its composite display name.
type Entry struct {
	Quantity int    `json:"quantity"`
	Color    string `json:"color"`
}

// Item is an Entry together with its key, used for ordered snapshots.
type Item struct {
	Key      string `json:"key"`
	Quantity int    `json:"quantity"`
	Color    string `json:"color"`
}

// Cart maps composite keys to entries and remembers insertion order.
// An entry never holds quantity 0: it is deleted instead.
type Cart struct {
	keys    []string
	entries map[string]*Entry
}

func New() *Cart {
	return &Cart{entries: make(map[string]*Entry, 8)}
}

func (c *Cart) ensure() {
	if c.entries == nil {
		c.entries = make(map[string]*Entry, 8)
	}
}

func (c *Cart) Len() int {
	if c == nil {
		return 0
	}
	return len(c.keys)
}

func (c *Cart) Get(key string) (Entry, bool) {
	if c == nil || c.entries == nil {
		return Entry{}, false
	}
	e, ok := c.entries[key]
	if !ok {
		return Entry{}, false
	}
	return *e, true
}

// Keys returns the keys in insertion order.
func (c *Cart) Keys() []string {
	if c == nil {
		return nil
	}
	return append([]string(nil), c.keys...)
}

// Entries returns an ordered copy of the cart contents.
func (c *Cart) Entries() []Item {
	if c == nil {
		return nil
	}
	items := make([]Item, 0, len(c.keys))
	for _, k := range c.keys {
		e := c.entries[k]
		items = append(items, Item{Key: k, Quantity: e.Quantity, Color: e.Color})
	}
	return items
}

func (c *Cart) TotalQuantity() int {
	if c == nil {
		return 0
	}
	total := 0
	for _, e := range c.entries {
		total += e.Quantity
	}
	return total
}

func (c *Cart) Reset() {
	c.keys = nil
	c.entries = make(map[string]*Entry, 8)
}

func (c *Cart) Clone() *Cart {
	out := New()
	if c == nil {
		return out
	}
	for _, k := range c.keys {
		e := *c.entries[k]
		out.keys = append(out.keys, k)
		out.entries[k] = &e
	}
	return out
}

// add increments an existing entry or inserts a new one, saturating at
// MaxQuantity. Color is only used on insertion.
func (c *Cart) add(key string, qty int, color string) {
	c.ensure()
	qty = min(qty, MaxQuantity)
	if e, ok := c.entries[key]; ok {
		if e.Quantity > MaxQuantity-qty {
			e.Quantity = MaxQuantity
			return
		}
		e.Quantity += qty
		return
	}
	c.keys = append(c.keys, key)
	c.entries[key] = &Entry{Quantity: qty, Color: color}
}

// findPrefix returns the first key, in insertion order, starting with name.
func (c *Cart) findPrefix(name string) (string, bool) {
	for _, k := range c.keys {
		if strings.HasPrefix(k, name) {
			return k, true
		}
	}
	return "", false
}

func (c *Cart) delete(key string) {
	if _, ok := c.entries[key]; !ok {
		return
	}
	delete(c.entries, key)
	for i, k := range c.keys {
		if k == key {
			c.keys = append(c.keys[:i], c.keys[i+1:]...)
			break
		}
	}
}

func (c *Cart) MarshalJSON() ([]byte, error) {
	items := c.Entries()
	if items == nil {
		items = []Item{}
	}
	return json.Marshal(items)
}

func (c *Cart) UnmarshalJSON(data []byte) error {
	var items []Item
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("decode cart: %w", err)
	}
	c.Reset()
	for _, it := range items {
		if it.Quantity <= 0 {
			continue
		}
		c.add(it.Key, it.Quantity, it.Color)
	}
	return nil
}

// CartContext renders the cart summary appended to the user's message before
// it goes to the responder. An empty cart adds nothing.
func CartContext(c *Cart) string {
	if c.Len() == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("\n\nCurrent cart contents:\n")
	for _, it := range c.Entries() {
		fmt.Fprintf(&sb, "- %s: %d item(s)\n", it.Key, it.Quantity)
	}
	return sb.String()
}
