package cache

import (
	"context"
	"errors"
	"fmt"

	"bgee-translator/internal/textutil"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

const schema = `
CREATE TABLE IF NOT EXISTS translation_memory (
	hash        TEXT PRIMARY KEY,
	source      TEXT NOT NULL,
	translated  TEXT NOT NULL,
	locale      TEXT NOT NULL,
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// TranslationMemory remembers translations of protected text per target
// locale, backed by PostgreSQL with an in-memory layer in front.
type TranslationMemory struct {
	pool   *pgxpool.Pool
	locale string
	memory map[string]string // hash → translated text
}

// NewTranslationMemory creates a translation memory for one target locale.
func NewTranslationMemory(pool *pgxpool.Pool, locale string) *TranslationMemory {
	return &TranslationMemory{
		pool:   pool,
		locale: locale,
		memory: make(map[string]string),
	}
}

// EnsureSchema creates the translation_memory table.
func (c *TranslationMemory) EnsureSchema(ctx context.Context) error {
	if _, err := c.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create translation memory table: %w", err)
	}
	return nil
}

func (c *TranslationMemory) key(source string) string {
	return textutil.Hash(c.locale + "\x00" + source)
}

// Lookup retrieves a remembered translation of source.
func (c *TranslationMemory) Lookup(ctx context.Context, source string) (string, bool, error) {
	hash := c.key(source)

	if v, ok := c.memory[hash]; ok {
		return v, true, nil
	}

	var translated string
	err := c.pool.QueryRow(ctx,
		`SELECT translated FROM translation_memory WHERE hash = $1`, hash,
	).Scan(&translated)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("lookup translation memory: %w", err)
	}

	c.memory[hash] = translated
	return translated, true, nil
}

// Remember stores a translation in both in-memory and PostgreSQL layers.
func (c *TranslationMemory) Remember(ctx context.Context, source, translated string) error {
	hash := c.key(source)
	if v, ok := c.memory[hash]; ok && v == translated {
		return nil
	}
	c.memory[hash] = translated

	_, err := c.pool.Exec(ctx, `
		INSERT INTO translation_memory (hash, source, translated, locale)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (hash) DO UPDATE
		SET translated = EXCLUDED.translated, updated_at = now()
	`, hash, source, translated, c.locale)
	if err != nil {
		return fmt.Errorf("remember translation: %w", err)
	}
	return nil
}

// Preload loads all remembered translations of the locale into memory.
func (c *TranslationMemory) Preload(ctx context.Context) error {
	rows, err := c.pool.Query(ctx,
		`SELECT hash, translated FROM translation_memory WHERE locale = $1`, c.locale)
	if err != nil {
		return fmt.Errorf("preload translation memory: %w", err)
	}
	defer rows.Close()

	n := 0
	for rows.Next() {
		var hash, translated string
		if err := rows.Scan(&hash, &translated); err != nil {
			return fmt.Errorf("scan translation memory: %w", err)
		}
		c.memory[hash] = translated
		n++
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("preload translation memory: %w", err)
	}

	log.Info().Int("count", n).Str("locale", c.locale).Msg("Preloaded translation memory")
	return nil
}
