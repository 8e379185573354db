package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/rs/zerolog/log"
)

// Glossary keeps translated title phrases (character, place and item names)
// as Title nodes in Neo4j, one per phrase and target locale.
type Glossary struct {
	driver neo4j.DriverWithContext
	locale string
	known  map[string]string // phrase → translated phrase
}

// NewGlossary creates a glossary for one target locale.
func NewGlossary(driver neo4j.DriverWithContext, locale string) *Glossary {
	return &Glossary{driver: driver, locale: locale, known: make(map[string]string)}
}

// EnsureSchema creates constraints and indexes on the Neo4j database.
func (g *Glossary) EnsureSchema(ctx context.Context) error {
	session := g.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer session.Close(ctx)

	constraints := []string{
		"CREATE CONSTRAINT IF NOT EXISTS FOR (t:Title) REQUIRE t.key IS UNIQUE",
		"CREATE INDEX IF NOT EXISTS FOR (t:Title) ON (t.locale)",
	}

	for _, c := range constraints {
		if _, err := session.Run(ctx, c, nil); err != nil {
			return fmt.Errorf("create constraint: %w", err)
		}
	}

	log.Info().Msg("Glossary schema ensured")
	return nil
}

// Remember upserts the translation of a title phrase.
func (g *Glossary) Remember(ctx context.Context, phrase, translated string) error {
	if v, ok := g.known[phrase]; ok && v == translated {
		return nil
	}

	session := g.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer session.Close(ctx)

	_, err := session.Run(ctx, `
		MERGE (t:Title {key: $key})
		SET t.phrase = $phrase,
		    t.translated = $translated,
		    t.locale = $locale
	`, map[string]any{
		"key":        g.locale + ":" + phrase,
		"phrase":     phrase,
		"translated": translated,
		"locale":     g.locale,
	})
	if err != nil {
		return fmt.Errorf("upsert title %s: %w", phrase, err)
	}

	g.known[phrase] = translated
	return nil
}
