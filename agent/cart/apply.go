package cart

import (
	"fmt"
	"strings"
)

// Apply mutates c according to a and returns the message shown in the chat.
// Plain text leaves the cart untouched and is returned verbatim.
func Apply(c *Cart, a Action) string {
	if c == nil {
		c = New()
	}
	switch act := a.(type) {
	case ActionAdd:
		return applyAdd(c, act)
	case *ActionAdd:
		return applyAdd(c, *act)
	case ActionRemove:
		return applyRemove(c, act)
	case *ActionRemove:
		return applyRemove(c, *act)
	case ActionPlainText:
		return act.Text
	case *ActionPlainText:
		return act.Text
	default:
		return ""
	}
}

func applyAdd(c *Cart, act ActionAdd) string {
	added := make([]string, 0, len(act.Items))
	for _, it := range act.Items {
		color := strings.TrimSpace(it.Color)
		if color == "" || color == "#" {
			color = ColorFromTitle(it.Name)
		}

		key := CompositeKey(it.Name, it.Attributes)
		c.add(key, it.Quantity, color)
		added = append(added, fmt.Sprintf("%d %s", it.Quantity, key))
	}
	return fmt.Sprintf("Added %s to cart", strings.Join(added, ", "))
}

func applyRemove(c *Cart, act ActionRemove) string {
	key, ok := c.findPrefix(act.Name)
	if !ok {
		return fmt.Sprintf("%s not found in cart", act.Name)
	}

	current := c.entries[key].Quantity
	if act.Quantity <= 0 || act.Quantity >= current {
		c.delete(key)
		return fmt.Sprintf("Removed %s from cart", key)
	}

	c.entries[key].Quantity -= act.Quantity
	return fmt.Sprintf("Removed %d %s (Remaining: %d)", act.Quantity, key, c.entries[key].Quantity)
}

// CompositeKey is "Name (Attributes)", or just "Name" without attributes.
func CompositeKey(name, attributes string) string {
	if attributes == "" {
		return name
	}
	return fmt.Sprintf("%s (%s)", name, attributes)
}
