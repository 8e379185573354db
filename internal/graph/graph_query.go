package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/rs/zerolog/log"
)

// Lookup returns the known translation of a title phrase.
func (g *Glossary) Lookup(ctx context.Context, phrase string) (string, bool, error) {
	if v, ok := g.known[phrase]; ok {
		return v, true, nil
	}

	session := g.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.Run(ctx, `
		MATCH (t:Title {key: $key})
		RETURN t.translated AS translated
	`, map[string]any{"key": g.locale + ":" + phrase})
	if err != nil {
		return "", false, fmt.Errorf("query title: %w", err)
	}

	if !result.Next(ctx) {
		return "", false, result.Err()
	}
	translated, _ := result.Record().Get("translated")
	v := fmt.Sprintf("%v", translated)
	g.known[phrase] = v
	return v, true, nil
}

// Preload loads every title of the locale into memory.
func (g *Glossary) Preload(ctx context.Context) error {
	session := g.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.Run(ctx, `
		MATCH (t:Title {locale: $locale})
		RETURN t.phrase AS phrase, t.translated AS translated
	`, map[string]any{"locale": g.locale})
	if err != nil {
		return fmt.Errorf("load glossary: %w", err)
	}

	for result.Next(ctx) {
		record := result.Record()
		phrase, _ := record.Get("phrase")
		translated, _ := record.Get("translated")
		g.known[fmt.Sprintf("%v", phrase)] = fmt.Sprintf("%v", translated)
	}
	if err := result.Err(); err != nil {
		return fmt.Errorf("load glossary: %w", err)
	}

	log.Info().Int("count", len(g.known)).Str("locale", g.locale).Msg("Loaded glossary from graph")
	return nil
}
