package cart

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strings"
)

const (
	defaultName = "Unknown"
	fence       = "```"

	// MaxQuantity bounds every decoded quantity and every cart entry.
	MaxQuantity = math.MaxInt32
)

type ActionKind string

const (
	KindAdd       ActionKind = "add"
	KindRemove    ActionKind = "remove"
	KindPlainText ActionKind = "plain_text"
)

// Action is the decoded form of a responder reply. It is one of
// ActionAdd, ActionRemove or ActionPlainText.
type Action interface {
	Kind() ActionKind
}

type AddItem struct {
	Name       string
	Quantity   int
	Color      string
	Attributes string
}

type ActionAdd struct {
	Items []AddItem
}

type ActionRemove struct {
	Name string
	// Quantity 0 removes the whole entry.
	Quantity int
}

type ActionPlainText struct {
	Text string
}

func (ActionAdd) Kind() ActionKind       { return KindAdd }
func (ActionRemove) Kind() ActionKind    { return KindRemove }
func (ActionPlainText) Kind() ActionKind { return KindPlainText }

var errBadQuantity = errors.New("quantity is not an integer")

// quantity accepts JSON integers and integral floats such as 2.0.
type quantity struct {
	set   bool
	value int
}

func (q *quantity) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return errBadQuantity
	}
	if i, err := n.Int64(); err == nil {
		if i > MaxQuantity || i < -MaxQuantity {
			return errBadQuantity
		}
		q.set, q.value = true, int(i)
		return nil
	}
	f, err := n.Float64()
	if err != nil || f != math.Trunc(f) || math.Abs(f) > MaxQuantity {
		return errBadQuantity
	}
	q.set, q.value = true, int(f)
	return nil
}

type rawItem struct {
	Name       *string  `json:"name"`
	Quantity   quantity `json:"quantity"`
	Color      *string  `json:"color"`
	Attributes *string  `json:"attributes"`
}

// Decode interprets a responder reply. Anything that is not a recognised
// add/remove object, optionally wrapped in a markdown fence, becomes
// ActionPlainText carrying the reply unchanged. Only the fields the action
// reads are decoded: add reads items, remove reads name and quantity.
func Decode(raw string) Action {
	plain := ActionPlainText{Text: raw}

	cleaned := stripFence(strings.TrimSpace(raw))

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &fields); err != nil || fields == nil {
		return plain
	}
	var action string
	if err := decodeField(fields, "action", &action); err != nil || action == "" {
		return plain
	}

	switch action {
	case string(KindAdd):
		var raws []rawItem
		if err := decodeField(fields, "items", &raws); err != nil {
			return plain
		}
		items := make([]AddItem, 0, len(raws))
		for _, it := range raws {
			items = append(items, AddItem{
				Name:       nameOrDefault(it.Name),
				Quantity:   addQuantity(it.Quantity),
				Color:      deref(it.Color),
				Attributes: deref(it.Attributes),
			})
		}
		return ActionAdd{Items: items}
	case string(KindRemove):
		var name *string
		var qty quantity
		if err := decodeField(fields, "name", &name); err != nil {
			return plain
		}
		if err := decodeField(fields, "quantity", &qty); err != nil {
			return plain
		}
		q := 0
		if qty.set && qty.value > 0 {
			q = qty.value
		}
		return ActionRemove{Name: nameOrDefault(name), Quantity: q}
	default:
		return plain
	}
}

// decodeField leaves out untouched when key is absent.
func decodeField(fields map[string]json.RawMessage, key string, out any) error {
	raw, ok := fields[key]
	if !ok {
		return nil
	}
	return json.Unmarshal(raw, out)
}

// stripFence drops the first and last lines when the text opens with a
// triple-backtick fence.
func stripFence(s string) string {
	if !strings.HasPrefix(s, fence) {
		return s
	}
	lines := strings.Split(s, "\n")
	if len(lines) < 2 {
		return ""
	}
	return strings.TrimSpace(strings.Join(lines[1:len(lines)-1], "\n"))
}

// nameOrDefault normalises a missing or blank name to "Unknown".
func nameOrDefault(p *string) string {
	if p == nil || strings.TrimSpace(*p) == "" {
		return defaultName
	}
	return *p
}

func addQuantity(q quantity) int {
	if !q.set || q.value < 1 {
		return 1
	}
	return q.value
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
