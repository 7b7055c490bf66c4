package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	cartx "github.com/tanpawarit/Chative-Shop-Assistant/agent/cart"
)

type recordedCommands struct {
	mu   sync.Mutex
	cmds [][]any
	auth []string
}

func (r *recordedCommands) add(cmd []any, auth string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cmds = append(r.cmds, cmd)
	r.auth = append(r.auth, auth)
}

func (r *recordedCommands) all() [][]any {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([][]any(nil), r.cmds...)
}

func newUpstashServer(t *testing.T, rec *recordedCommands, reply func(cmd []any) string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		var cmd []any
		if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
			http.Error(w, `{"error":"bad command"}`, http.StatusBadRequest)
			return
		}
		rec.add(cmd, r.Header.Get("Authorization"))
		fmt.Fprint(w, reply(cmd))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestUpstashRedisStoreKey(t *testing.T) {
	t.Parallel()

	store := &UpstashRedisStore{}
	got, err := store.key("abc")
	if err != nil {
		t.Fatalf("key() error = %v", err)
	}
	if got != "shop:session:abc" {
		t.Fatalf("key() = %q, want %q", got, "shop:session:abc")
	}

	if _, err := store.key("   "); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("key() error = %v, want ErrInvalidSession", err)
	}
}

func TestNewUpstashRedisStoreValidatesConfig(t *testing.T) {
	t.Parallel()

	cases := []UpstashRedisConfig{
		{Token: "token"},
		{URL: "not a url", Token: "token"},
		{URL: "https://example.upstash.io"},
	}
	for _, cfg := range cases {
		if _, err := NewUpstashRedisStore(cfg); err == nil {
			t.Fatalf("NewUpstashRedisStore(%+v) error = nil, want error", cfg)
		}
	}

	if _, err := NewUpstashRedisStore(UpstashRedisConfig{URL: "https://example.upstash.io", Token: "t"}, WithTTL(-time.Second)); err == nil {
		t.Fatal("NewUpstashRedisStore() with negative ttl error = nil, want error")
	}
}

func TestUpstashRedisStoreSaveSetsExpiry(t *testing.T) {
	t.Parallel()

	rec := &recordedCommands{}
	server := newUpstashServer(t, rec, func([]any) string { return `{"result":"OK"}` })

	store, err := NewUpstashRedisStore(
		UpstashRedisConfig{URL: server.URL, Token: "token"},
		WithHTTPClient(server.Client()),
		WithKeyPrefix("test:"),
		WithTTL(90*time.Second),
	)
	if err != nil {
		t.Fatalf("NewUpstashRedisStore() error = %v", err)
	}

	st := NewSession("session-1", time.Now())
	cartx.Apply(st.Cart, cartx.ActionAdd{Items: []cartx.AddItem{{Name: "Apples", Quantity: 2}}})
	if err := store.Save(context.Background(), st); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	cmds := rec.all()
	if len(cmds) != 1 {
		t.Fatalf("commands = %d, want 1", len(cmds))
	}
	cmd := cmds[0]
	if len(cmd) != 5 || cmd[0] != "SET" || cmd[1] != "test:session-1" || cmd[3] != "EX" || cmd[4] != "90" {
		t.Fatalf("unexpected command: %#v", cmd)
	}
	if rec.auth[0] != "Bearer token" {
		t.Fatalf("Authorization = %q, want Bearer token", rec.auth[0])
	}
}

func TestUpstashRedisStoreLoadRefreshesExpiry(t *testing.T) {
	t.Parallel()

	seed := NewSession("session-2", time.Now())
	cartx.Apply(seed.Cart, cartx.ActionAdd{Items: []cartx.AddItem{{Name: "Laptop", Quantity: 1, Attributes: "16GB"}}})
	seed.AppendTurn("add a laptop", "add a laptop", `{"action":"add"}`, "Added 1 Laptop (16GB) to cart")

	payload, err := json.Marshal(seed)
	if err != nil {
		t.Fatalf("marshal seed: %v", err)
	}
	encoded, err := json.Marshal(string(payload))
	if err != nil {
		t.Fatalf("marshal encoded seed: %v", err)
	}

	rec := &recordedCommands{}
	server := newUpstashServer(t, rec, func(cmd []any) string {
		if cmd[0] == "GET" {
			return fmt.Sprintf(`{"result":%s}`, encoded)
		}
		return `{"result":1}`
	})

	store, err := NewUpstashRedisStore(UpstashRedisConfig{URL: server.URL, Token: "token"}, WithHTTPClient(server.Client()))
	if err != nil {
		t.Fatalf("NewUpstashRedisStore() error = %v", err)
	}

	st, err := store.Load(context.Background(), "session-2")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if st.ID != "session-2" {
		t.Fatalf("Load().ID = %q, want session-2", st.ID)
	}
	if e, ok := st.Cart.Get("Laptop (16GB)"); !ok || e.Quantity != 1 {
		t.Fatalf("Load().Cart entry = %+v, %v", e, ok)
	}
	if len(st.Transcript) != 1 || len(st.History) != 2 {
		t.Fatalf("Load() transcript=%d history=%d", len(st.Transcript), len(st.History))
	}

	cmds := rec.all()
	if len(cmds) != 2 || cmds[0][0] != "GET" || cmds[1][0] != "EXPIRE" {
		t.Fatalf("unexpected commands: %#v", cmds)
	}
	if cmds[1][2] != "86400" {
		t.Fatalf("EXPIRE seconds = %v, want 86400", cmds[1][2])
	}
}

func TestUpstashRedisStoreLoadMissing(t *testing.T) {
	t.Parallel()

	rec := &recordedCommands{}
	server := newUpstashServer(t, rec, func([]any) string { return `{"result":null}` })

	store, err := NewUpstashRedisStore(UpstashRedisConfig{URL: server.URL, Token: "token"}, WithHTTPClient(server.Client()))
	if err != nil {
		t.Fatalf("NewUpstashRedisStore() error = %v", err)
	}

	if _, err := store.Load(context.Background(), "nobody"); !errors.Is(err, ErrStateNotFound) {
		t.Fatalf("Load() error = %v, want ErrStateNotFound", err)
	}
}

func TestUpstashRedisStoreSurfacesRedisError(t *testing.T) {
	t.Parallel()

	rec := &recordedCommands{}
	server := newUpstashServer(t, rec, func([]any) string { return `{"error":"WRONGPASS"}` })

	store, err := NewUpstashRedisStore(UpstashRedisConfig{URL: server.URL, Token: "token"}, WithHTTPClient(server.Client()))
	if err != nil {
		t.Fatalf("NewUpstashRedisStore() error = %v", err)
	}

	if err := store.Delete(context.Background(), "session-3"); err == nil {
		t.Fatal("Delete() error = nil, want error")
	}
	cmds := rec.all()
	if len(cmds) != 1 || cmds[0][0] != "DEL" || cmds[0][1] != "shop:session:session-3" {
		t.Fatalf("unexpected commands: %#v", cmds)
	}
}
