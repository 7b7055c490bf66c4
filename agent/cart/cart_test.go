package cart

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func applyReply(t *testing.T, c *Cart, reply string) string {
	t.Helper()
	return Apply(c, Decode(reply))
}

func TestAddThenPartialRemove(t *testing.T) {
	t.Parallel()

	c := New()
	msg := applyReply(t, c, `{"action":"add","items":[{"name":"Apples","quantity":3,"color":"#DC143C","attributes":""}]}`)
	if msg != "Added 3 Apples to cart" {
		t.Fatalf("add message = %q", msg)
	}
	want := []Item{{Key: "Apples", Quantity: 3, Color: "#DC143C"}}
	if diff := cmp.Diff(want, c.Entries()); diff != "" {
		t.Fatalf("cart after add (-want +got):\n%s", diff)
	}

	msg = applyReply(t, c, `{"action":"remove","name":"Apples","quantity":2}`)
	if msg != "Removed 2 Apples (Remaining: 1)" {
		t.Fatalf("remove message = %q", msg)
	}
	want = []Item{{Key: "Apples", Quantity: 1, Color: "#DC143C"}}
	if diff := cmp.Diff(want, c.Entries()); diff != "" {
		t.Fatalf("cart after remove (-want +got):\n%s", diff)
	}
}

func TestAddMultipleItemsKeepsOrder(t *testing.T) {
	t.Parallel()

	c := New()
	msg := applyReply(t, c, `{"action":"add","items":[
		{"name":"Top","quantity":1,"color":"#800080","attributes":"Purple"},
		{"name":"Pant","quantity":2,"color":"#FFFFFF","attributes":"White"},
		{"name":"Socks","quantity":4,"color":"#000000"}
	]}`)

	if msg != "Added 1 Top (Purple), 2 Pant (White), 4 Socks to cart" {
		t.Fatalf("message = %q", msg)
	}
	if got := c.TotalQuantity(); got != 7 {
		t.Fatalf("TotalQuantity() = %d, want 7", got)
	}
	if diff := cmp.Diff([]string{"Top (Purple)", "Pant (White)", "Socks"}, c.Keys()); diff != "" {
		t.Fatalf("keys (-want +got):\n%s", diff)
	}
}

func TestAddSameKeyAccumulatesAndKeepsFirstColor(t *testing.T) {
	t.Parallel()

	c := New()
	applyReply(t, c, `{"action":"add","items":[{"name":"Grapes","quantity":1,"color":"#8B4789"}]}`)
	applyReply(t, c, `{"action":"add","items":[{"name":"Grapes","quantity":2,"color":"#00FF00"}]}`)

	e, ok := c.Get("Grapes")
	if !ok {
		t.Fatal("Grapes missing from cart")
	}
	if e.Quantity != 3 {
		t.Fatalf("quantity = %d, want 3", e.Quantity)
	}
	if e.Color != "#8B4789" {
		t.Fatalf("color = %q, want first color", e.Color)
	}
}

func TestAddDefaults(t *testing.T) {
	t.Parallel()

	c := New()
	msg := applyReply(t, c, `{"action":"add","items":[{}]}`)
	if msg != "Added 1 Unknown to cart" {
		t.Fatalf("message = %q", msg)
	}
	e, _ := c.Get("Unknown")
	if e.Color != ColorFromTitle("Unknown") {
		t.Fatalf("color = %q, want derived color", e.Color)
	}

	rm, ok := Decode(`{"action":"remove","name":"  "}`).(ActionRemove)
	if !ok || rm.Name != "Unknown" {
		t.Fatalf("blank remove name = %+v, want Unknown", rm)
	}
}

func TestAddDerivesColorWhenBlank(t *testing.T) {
	t.Parallel()

	for _, color := range []string{`""`, `"   "`, `"#"`, `null`} {
		c := New()
		applyReply(t, c, `{"action":"add","items":[{"name":"Laptop","quantity":1,"color":`+color+`}]}`)
		e, _ := c.Get("Laptop")
		if e.Color != "#646bde" {
			t.Fatalf("color %s: got %q, want #646bde", color, e.Color)
		}
	}
}

func TestRemove(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		reply     string
		wantMsg   string
		wantItems []Item
	}{
		{
			name:      "zero removes everything",
			reply:     `{"action":"remove","name":"Apples","quantity":0}`,
			wantMsg:   "Removed Apples from cart",
			wantItems: []Item{{Key: "Grapes (Red)", Quantity: 2, Color: "#8B4789"}},
		},
		{
			name:      "missing quantity removes everything",
			reply:     `{"action":"remove","name":"Apples"}`,
			wantMsg:   "Removed Apples from cart",
			wantItems: []Item{{Key: "Grapes (Red)", Quantity: 2, Color: "#8B4789"}},
		},
		{
			name:      "more than current deletes",
			reply:     `{"action":"remove","name":"Apples","quantity":99}`,
			wantMsg:   "Removed Apples from cart",
			wantItems: []Item{{Key: "Grapes (Red)", Quantity: 2, Color: "#8B4789"}},
		},
		{
			name:    "prefix match",
			reply:   `{"action":"remove","name":"Grapes","quantity":1}`,
			wantMsg: "Removed 1 Grapes (Red) (Remaining: 1)",
			wantItems: []Item{
				{Key: "Apples", Quantity: 5, Color: "#DC143C"},
				{Key: "Grapes (Red)", Quantity: 1, Color: "#8B4789"},
			},
		},
		{
			name:    "not found",
			reply:   `{"action":"remove","name":"Laptop","quantity":1}`,
			wantMsg: "Laptop not found in cart",
			wantItems: []Item{
				{Key: "Apples", Quantity: 5, Color: "#DC143C"},
				{Key: "Grapes (Red)", Quantity: 2, Color: "#8B4789"},
			},
		},
		{
			name:    "blank name is Unknown",
			reply:   `{"action":"remove","name":"  "}`,
			wantMsg: "Unknown not found in cart",
			wantItems: []Item{
				{Key: "Apples", Quantity: 5, Color: "#DC143C"},
				{Key: "Grapes (Red)", Quantity: 2, Color: "#8B4789"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := New()
			applyReply(t, c, `{"action":"add","items":[{"name":"Apples","quantity":5,"color":"#DC143C"},{"name":"Grapes","quantity":2,"color":"#8B4789","attributes":"Red"}]}`)

			msg := applyReply(t, c, tt.reply)
			if msg != tt.wantMsg {
				t.Fatalf("message = %q, want %q", msg, tt.wantMsg)
			}
			if diff := cmp.Diff(tt.wantItems, c.Entries()); diff != "" {
				t.Fatalf("cart (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRemoveFirstPrefixMatchWins(t *testing.T) {
	t.Parallel()

	c := New()
	applyReply(t, c, `{"action":"add","items":[{"name":"Shirt","quantity":1,"color":"#111111","attributes":"Red"},{"name":"Shirt","quantity":1,"color":"#222222"}]}`)

	msg := applyReply(t, c, `{"action":"remove","name":"Shirt","quantity":0}`)
	if msg != "Removed Shirt (Red) from cart" {
		t.Fatalf("message = %q", msg)
	}
	if diff := cmp.Diff([]string{"Shirt"}, c.Keys()); diff != "" {
		t.Fatalf("keys (-want +got):\n%s", diff)
	}
}

func TestPlainTextLeavesCartUnchanged(t *testing.T) {
	t.Parallel()

	c := New()
	applyReply(t, c, `{"action":"add","items":[{"name":"Apples","quantity":1,"color":"#DC143C"}]}`)
	before := c.Entries()

	replies := []string{
		"Hello, how can I help?",
		`{"action":"checkout"}`,
		`{"items":[]}`,
		`[1,2,3]`,
		`42`,
		`{"action":"add","items":[{"name":"X","quantity":"lots"}]}`,
		`{"action":"add","items":"oops"}`,
		"```json\n{broken\n```",
	}
	for _, reply := range replies {
		msg := applyReply(t, c, reply)
		if msg != reply {
			t.Fatalf("reply %q: message = %q, want verbatim", reply, msg)
		}
	}
	if diff := cmp.Diff(before, c.Entries()); diff != "" {
		t.Fatalf("cart changed (-want +got):\n%s", diff)
	}
}

func TestDecodeFencedReply(t *testing.T) {
	t.Parallel()

	fenced := "```json\n{\"action\":\"add\",\"items\":[{\"name\":\"Grapes\",\"quantity\":1,\"color\":\"\",\"attributes\":\"\"}]}\n```"
	plain := `{"action":"add","items":[{"name":"Grapes","quantity":1,"color":"","attributes":""}]}`

	if diff := cmp.Diff(Decode(plain), Decode(fenced)); diff != "" {
		t.Fatalf("fenced decode differs (-plain +fenced):\n%s", diff)
	}
	if got := Decode("  \n" + fenced + "\n  ").Kind(); got != KindAdd {
		t.Fatalf("Decode() kind = %s, want add", got)
	}
}

func TestDecodePlainTextKeepsOriginalText(t *testing.T) {
	t.Parallel()

	raw := "  just chatting  \n"
	got, ok := Decode(raw).(ActionPlainText)
	if !ok {
		t.Fatalf("Decode() = %T, want ActionPlainText", Decode(raw))
	}
	if got.Text != raw {
		t.Fatalf("Text = %q, want untrimmed original", got.Text)
	}
}

func TestDecodeQuantities(t *testing.T) {
	t.Parallel()

	add, ok := Decode(`{"action":"add","items":[{"name":"A","quantity":2.0},{"name":"B","quantity":0},{"name":"C","quantity":-3}]}`).(ActionAdd)
	if !ok {
		t.Fatal("expected ActionAdd")
	}
	got := []int{add.Items[0].Quantity, add.Items[1].Quantity, add.Items[2].Quantity}
	if diff := cmp.Diff([]int{2, 1, 1}, got); diff != "" {
		t.Fatalf("quantities (-want +got):\n%s", diff)
	}

	rm, ok := Decode(`{"action":"remove","name":"A","quantity":-2}`).(ActionRemove)
	if !ok {
		t.Fatal("expected ActionRemove")
	}
	if rm.Quantity != 0 {
		t.Fatalf("remove quantity = %d, want 0", rm.Quantity)
	}

	if k := Decode(`{"action":"add","items":[{"name":"A","quantity":1.5}]}`).Kind(); k != KindPlainText {
		t.Fatalf("fractional quantity kind = %s, want plain_text", k)
	}
}

func TestAddWithoutItems(t *testing.T) {
	t.Parallel()

	c := New()
	msg := applyReply(t, c, `{"action":"add"}`)
	if msg != "Added  to cart" {
		t.Fatalf("message = %q", msg)
	}
	if c.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", c.Len())
	}
}

func TestColorFromTitle(t *testing.T) {
	t.Parallel()

	first := ColorFromTitle("Apples")
	if first != "#92646c" {
		t.Fatalf("ColorFromTitle(Apples) = %q, want #92646c", first)
	}
	for i := 0; i < 5; i++ {
		if got := ColorFromTitle("Apples"); got != first {
			t.Fatalf("ColorFromTitle not deterministic: %q vs %q", got, first)
		}
	}

	for _, title := range []string{"Apples", "Grapes", "Laptop", "", "Ünïcödé"} {
		c := ColorFromTitle(title)
		if len(c) != 7 || c[0] != '#' {
			t.Fatalf("ColorFromTitle(%q) = %q, bad format", title, c)
		}
		for i := 1; i < 7; i += 2 {
			if c[i:i+2] < "64" {
				t.Fatalf("ColorFromTitle(%q) = %q, channel below 0x64", title, c)
			}
		}
	}
}

func TestTextColor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"", TextBlack},
		{"#", TextBlack},
		{"#FFF", TextBlack},
		{"12345", TextBlack},
		{"#zzzzzz", TextBlack},
		{"#FFFFFF", TextBlack},
		{"#000000", TextWhite},
		{"#DC143C", TextWhite},
		{"#8B4789", TextWhite},
		{"FFFF00", TextBlack},
		{"##ffffff", TextBlack},
	}
	for _, tt := range tests {
		if got := TextColor(tt.in); got != tt.want {
			t.Fatalf("TextColor(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCartJSONPreservesOrder(t *testing.T) {
	t.Parallel()

	c := New()
	applyReply(t, c, `{"action":"add","items":[{"name":"Zucchini","color":"#00AA00"},{"name":"Apples","quantity":2,"color":"#DC143C"}]}`)

	raw, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var out Cart
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if diff := cmp.Diff(c.Entries(), out.Entries()); diff != "" {
		t.Fatalf("round trip (-want +got):\n%s", diff)
	}
}

func TestCartContext(t *testing.T) {
	t.Parallel()

	if got := CartContext(New()); got != "" {
		t.Fatalf("CartContext(empty) = %q, want empty", got)
	}

	c := New()
	applyReply(t, c, `{"action":"add","items":[{"name":"Apples","quantity":3,"color":"#DC143C"}]}`)
	got := CartContext(c)
	if !strings.HasPrefix(got, "\n\nCurrent cart contents:\n") || !strings.Contains(got, "- Apples: 3 item(s)\n") {
		t.Fatalf("CartContext() = %q", got)
	}
}

func TestDecodeIgnoresFieldsTheActionDoesNotRead(t *testing.T) {
	t.Parallel()

	c := New()
	applyReply(t, c, `{"action":"add","items":[{"name":"Apples","quantity":2}]}`)

	msg := applyReply(t, c, `{"action":"remove","name":"Apples","quantity":1,"items":"x"}`)
	if msg != "Removed 1 Apples (Remaining: 1)" {
		t.Fatalf("remove message = %q", msg)
	}

	msg = applyReply(t, c, `{"action":"add","items":[{"name":"Pears","quantity":1}],"quantity":"lots"}`)
	if msg != "Added 1 Pears to cart" {
		t.Fatalf("add message = %q", msg)
	}
	if diff := cmp.Diff([]string{"Apples", "Pears"}, c.Keys()); diff != "" {
		t.Fatalf("keys (-want +got):\n%s", diff)
	}

	if k := Decode(`{"action":"remove","name":["Apples"]}`).Kind(); k != KindPlainText {
		t.Fatalf("non-string remove name kind = %s, want plain_text", k)
	}
	if k := Decode(`{"action":"add","items":"Pears"}`).Kind(); k != KindPlainText {
		t.Fatalf("non-array items kind = %s, want plain_text", k)
	}
}

func TestQuantityIsBounded(t *testing.T) {
	t.Parallel()

	huge := `{"action":"add","items":[{"name":"Big","quantity":9223372036854775807}]}`
	if k := Decode(huge).Kind(); k != KindPlainText {
		t.Fatalf("out of range quantity kind = %s, want plain_text", k)
	}

	c := New()
	applyReply(t, c, `{"action":"add","items":[{"name":"Big","quantity":2147483647}]}`)
	applyReply(t, c, `{"action":"add","items":[{"name":"Big","quantity":1}]}`)

	e, ok := c.Get("Big")
	if !ok {
		t.Fatal("Big missing from cart")
	}
	if e.Quantity != MaxQuantity {
		t.Fatalf("Quantity = %d, want %d", e.Quantity, MaxQuantity)
	}
}
