package service

import (
	"context"
	"path"
	"testing"
	"time"
)

func TestMemoryStore_TTL(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	m := NewMemoryStore()
	m.now = func() time.Time { return now }

	m.Set(ctx, "short", []byte("a"), 10*time.Second)
	m.Set(ctx, "forever", []byte("b"), 0)

	if v, ok, _ := m.Get(ctx, "short"); !ok || string(v) != "a" {
		t.Fatalf("expected fresh entry, got %q %v", v, ok)
	}

	now = now.Add(10 * time.Second)
	if _, ok, _ := m.Get(ctx, "short"); ok {
		t.Error("entry should expire exactly at its TTL")
	}
	if v, ok, _ := m.Get(ctx, "forever"); !ok || string(v) != "b" {
		t.Errorf("zero TTL entry should not expire, got %q %v", v, ok)
	}
}

func TestMemoryStore_DeletePrefix(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	for _, k := range []string{"series:a:snapshot", "series:ab:snapshot", "raw:x"} {
		m.Set(ctx, k, []byte(k), 0)
	}

	m.DeletePrefix(ctx, "series:a:")

	if _, ok, _ := m.Get(ctx, "series:a:snapshot"); ok {
		t.Error("series:a: entry should be deleted")
	}
	for _, k := range []string{"series:ab:snapshot", "raw:x"} {
		if _, ok, _ := m.Get(ctx, k); !ok {
			t.Errorf("%s should survive", k)
		}
	}
}

func TestCacheService_JSONRoundTripAndPrefix(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	c := NewCacheService(store, "test:")

	type payload struct {
		Name  string
		Count int
	}
	c.SetJSON(ctx, "k", payload{Name: "x", Count: 3}, time.Minute)

	if _, ok, _ := store.Get(ctx, "test:k"); !ok {
		t.Fatal("value should be stored under the prefixed key")
	}

	var got payload
	if !c.GetJSON(ctx, "k", &got) {
		t.Fatal("expected cache hit")
	}
	if got.Name != "x" || got.Count != 3 {
		t.Errorf("got %+v", got)
	}

	if err := c.Invalidate(ctx, ""); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
	if c.GetJSON(ctx, "k", &got) {
		t.Error("expected miss after invalidation")
	}
}

func TestCacheService_CorruptEntryIsMiss(t *testing.T) {
	ctx := context.Background()
	c := NewCacheService(NewMemoryStore(), "")
	c.SetBytes(ctx, "k", []byte("{not json"), 0)

	var v map[string]int
	if c.GetJSON(ctx, "k", &v) {
		t.Error("corrupt entry should be reported as a miss")
	}
}

func TestEscapeGlob(t *testing.T) {
	prefix := "raw:https://docs.example.com/export?format=csv&gid=[0]"
	pattern := escapeGlob(prefix) + "*"

	tests := []struct {
		key  string
		want bool
	}{
		{prefix, true},
		{prefix + "#tail", true},
		{"raw:https://docs.example.com/exportXformat=csv&gid=[0]", false},
		{"raw:https://docs.example.com/export?format=csv&gid=0", false},
	}
	for _, tt := range tests {
		// path.Match 与 redis MATCH 使用同样的转义规则
		got, err := path.Match(pattern, tt.key)
		if err != nil {
			t.Fatalf("pattern %q: %v", pattern, err)
		}
		if got != tt.want {
			t.Errorf("match(%q) = %v, want %v", tt.key, got, tt.want)
		}
	}
}
