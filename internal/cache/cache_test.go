package cache

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

func newMemory(t *testing.T) (*TranslationMemory, *pgxpool.Pool) {
	t.Helper()
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL not set")
	}
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(pool.Close)

	m := NewTranslationMemory(pool, "test-"+uuid.NewString())
	if err := m.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(), `DELETE FROM translation_memory WHERE locale = $1`, m.locale)
	})
	return m, pool
}

func TestRememberAndLookup(t *testing.T) {
	m, pool := newMemory(t)
	ctx := context.Background()

	if _, ok, err := m.Lookup(ctx, "[0000] hello"); err != nil || ok {
		t.Fatalf("Lookup before Remember = %v, %v", ok, err)
	}
	if err := m.Remember(ctx, "[0000] hello", "[0000] olá"); err != nil {
		t.Fatalf("Remember: %v", err)
	}

	fresh := NewTranslationMemory(pool, m.locale)
	got, ok, err := fresh.Lookup(ctx, "[0000] hello")
	if err != nil || !ok || got != "[0000] olá" {
		t.Fatalf("Lookup = %q, %v, %v", got, ok, err)
	}

	if err := m.Remember(ctx, "[0000] hello", "[0000] oi"); err != nil {
		t.Fatalf("Remember update: %v", err)
	}
	preloaded := NewTranslationMemory(pool, m.locale)
	if err := preloaded.Preload(ctx); err != nil {
		t.Fatalf("Preload: %v", err)
	}
	if len(preloaded.memory) != 1 {
		t.Fatalf("preloaded %d rows, want 1", len(preloaded.memory))
	}
	if got, _, _ := preloaded.Lookup(ctx, "[0000] hello"); got != "[0000] oi" {
		t.Fatalf("Lookup after update = %q", got)
	}
}

func TestKeyIsPerLocale(t *testing.T) {
	a := NewTranslationMemory(nil, "pt")
	b := NewTranslationMemory(nil, "es")
	if a.key("hello") == b.key("hello") {
		t.Fatalf("same key for different locales")
	}
	if a.key("hello") != a.key("hello") {
		t.Fatalf("key not stable")
	}
}
