package graph

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

func TestGlossary(t *testing.T) {
	uri := os.Getenv("NEO4J_URI")
	if uri == "" {
		t.Skip("NEO4J_URI not set")
	}
	ctx := context.Background()
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(os.Getenv("NEO4J_USER"), os.Getenv("NEO4J_PASSWORD"), ""))
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { driver.Close(context.Background()) })

	locale := "test-" + uuid.NewString()
	t.Cleanup(func() {
		session := driver.NewSession(context.Background(), neo4j.SessionConfig{})
		defer session.Close(context.Background())
		_, _ = session.Run(context.Background(), `MATCH (t:Title {locale: $locale}) DELETE t`, map[string]any{"locale": locale})
	})

	g := NewGlossary(driver, locale)
	if err := g.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	if _, ok, err := g.Lookup(ctx, "Candlekeep"); err != nil || ok {
		t.Fatalf("Lookup before Remember = %v, %v", ok, err)
	}
	if err := g.Remember(ctx, "Candlekeep", "Forte da Vela"); err != nil {
		t.Fatalf("Remember: %v", err)
	}

	fresh := NewGlossary(driver, locale)
	if err := fresh.Preload(ctx); err != nil {
		t.Fatalf("Preload: %v", err)
	}
	got, ok, err := fresh.Lookup(ctx, "Candlekeep")
	if err != nil || !ok || got != "Forte da Vela" {
		t.Fatalf("Lookup = %q, %v, %v", got, ok, err)
	}
}
